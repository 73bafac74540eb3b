package symbology

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/panelprofits/symbology/internal/domain"
)

type DerivativeKind string

const (
	KindOption DerivativeKind = "option"
	KindLeap   DerivativeKind = "leap"
	KindBond   DerivativeKind = "bond"
	KindETF    DerivativeKind = "etf"
)

type CallPut string

const (
	Call CallPut = "C"
	Put  CallPut = "P"
)

const (
	DefaultOptionYear = "25"
	DefaultBondMonth  = "DEC"
	DefaultBondYear   = "2025"
)

// DefaultBondYield applies when a bond is formatted without a yield.
var DefaultBondYield = domain.MustDecimal("4.5")

var (
	ErrInvalidCallPut = errors.New("call/put flag must be C or P")
	ErrUnknownKind    = errors.New("unknown derivative kind")
	ErrInvalidYield   = errors.New("yield cannot be rendered to one decimal place")
)

// DerivativeParams carries the instrument details rendered into the symbol.
// Month and Year are passed through as given; zero values pick the defaults.
type DerivativeParams struct {
	Month   string          `json:"month"`
	Year    string          `json:"year"`
	CallPut CallPut         `json:"call_put"`
	Yield   *domain.Decimal `json:"yield,omitempty"`
}

// Validate checks the parameters a kind requires. FormatDerivative itself
// never fails; this is for callers that want to reject bad input up front.
func (p DerivativeParams) Validate(kind DerivativeKind) error {
	switch kind {
	case KindOption, KindLeap:
		if p.CallPut != Call && p.CallPut != Put {
			return fmt.Errorf("%w: got %q", ErrInvalidCallPut, p.CallPut)
		}
	case KindBond:
		if p.Yield != nil {
			if _, err := p.Yield.Fixed(1); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidYield, err)
			}
		}
	case KindETF:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return nil
}

// ParseCallPut accepts C/P as well as call/put in any case.
func ParseCallPut(s string) (CallPut, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CALL":
		return Call, nil
	case "P", "PUT":
		return Put, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidCallPut, s)
}

// DerivativeBase derives the two-character root used for derivative
// symbols from the underlying entity's name.
func DerivativeBase(name string) string {
	return Compress(name, VariationBaseLength)
}

// FormatDerivative renders a derivative symbol on top of base:
//
//	option, leap: BASE.MONTH.YY.C
//	bond:         BASE.MON.YEAR.Y.Y
//	etf:          BASE.ETF
//
// Unknown kinds return base unchanged.
func FormatDerivative(base string, kind DerivativeKind, p DerivativeParams) string {
	switch kind {
	case KindOption, KindLeap:
		return strings.Join([]string{base, p.Month, twoDigitYear(p.Year), string(p.CallPut)}, ".")
	case KindBond:
		year := p.Year
		if year == "" {
			year = DefaultBondYear
		}
		return strings.Join([]string{base, bondMonth(p.Month), year, formatYield(p.Yield)}, ".")
	case KindETF:
		return base + ".ETF"
	default:
		return base
	}
}

func twoDigitYear(year string) string {
	if year == "" {
		return DefaultOptionYear
	}
	if len(year) <= 2 {
		return year
	}
	return year[len(year)-2:]
}

func bondMonth(month string) string {
	if month == "" {
		return DefaultBondMonth
	}
	r := []rune(strings.ToUpper(month))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

func formatYield(yield *domain.Decimal) string {
	y := DefaultBondYield
	if yield != nil {
		y = *yield
	}
	s, err := y.Fixed(1)
	if err != nil {
		slog.Warn("Unrenderable bond yield, using default", "yield", y.String(), "error", err)
		s, _ = DefaultBondYield.Fixed(1)
	}
	return s
}
