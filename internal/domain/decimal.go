package domain

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Decimal wraps apd.Decimal so coupon yields and other quoted figures keep
// their exact textual form through JSON and symbol rendering.
type Decimal struct {
	apd.Decimal
}

// DefaultContext is used for rounding operations.
var DefaultContext = apd.BaseContext.WithPrecision(20)

// Zero constant for convenience
var Zero = NewDecimalFromInt(0)

// NewDecimalFromInt creates a Decimal from an int64
func NewDecimalFromInt(v int64) Decimal {
	d := Decimal{}
	d.SetInt64(v)
	return d
}

// NewDecimalFromString creates a Decimal from a string
func NewDecimalFromString(v string) (Decimal, error) {
	d := Decimal{}
	_, _, err := d.SetString(v)
	if err != nil {
		return d, fmt.Errorf("invalid decimal string %s: %w", v, err)
	}
	return d, nil
}

// MustDecimal is NewDecimalFromString for literals known to be valid.
func MustDecimal(v string) Decimal {
	d, err := NewDecimalFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

// String implements the fmt.Stringer interface.
func (d Decimal) String() string {
	return d.Decimal.String()
}

func (d Decimal) IsZero() bool {
	return d.Decimal.IsZero()
}

func (d Decimal) Equal(other Decimal) bool {
	return d.Decimal.Cmp(&other.Decimal) == 0
}

func (d Decimal) Cmp(other Decimal) int {
	return d.Decimal.Cmp(&other.Decimal)
}

// MarshalJSON implements the json.Marshaler interface.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts both bare numbers and quoted strings.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	_, _, err := d.SetString(s)
	return err
}

// maxRoundPrecision bounds the digits Round will produce.
const maxRoundPrecision = 1000

// Round rounds half-up to the given number of places. The result keeps
// exactly that many fractional digits, so 5 rounded to 1 place is "5.0".
// Precision grows with the integer part, so large values round too.
func (d Decimal) Round(places int32) (Decimal, error) {
	res := Decimal{}
	if d.Form != apd.Finite {
		return res, fmt.Errorf("cannot round non-finite value %s", d.String())
	}

	precision := int64(DefaultContext.Precision)
	if need := d.NumDigits() + int64(d.Exponent) + int64(places) + 1; need > precision {
		precision = need
	}
	if precision > maxRoundPrecision {
		return res, fmt.Errorf("value %s needs %d digits, more than %d", d.String(), precision, maxRoundPrecision)
	}

	ctx := DefaultContext.WithPrecision(uint32(precision))
	ctx.Rounding = apd.RoundHalfUp

	if _, err := ctx.Quantize(&res.Decimal, &d.Decimal, -places); err != nil {
		return res, fmt.Errorf("quantize operation failed: %w", err)
	}
	return res, nil
}

// Fixed renders the value with exactly the given number of fractional digits.
func (d Decimal) Fixed(places int32) (string, error) {
	r, err := d.Round(places)
	if err != nil {
		return "", err
	}
	return r.Text('f'), nil
}
