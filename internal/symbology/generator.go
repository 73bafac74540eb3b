package symbology

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// BaseLength is the length of a plain ticker.
	BaseLength = 4
	// VariationBaseLength is the length of the root of a NAME.HINT ticker.
	VariationBaseLength = 2
	// MaxCollisionAttempts bounds the mutations tried once a base is taken.
	MaxCollisionAttempts = 100
)

// ErrTickerSpaceExhausted is returned by TryGenerate when the base and all
// of its collision mutations are already in use.
var ErrTickerSpaceExhausted = errors.New("ticker space exhausted")

// Generator assigns tickers against a Registry.
type Generator struct {
	registry *Registry
}

func NewGenerator(registry *Registry) *Generator {
	return &Generator{registry: registry}
}

func (g *Generator) Registry() *Registry {
	return g.registry
}

// Generate returns a ticker for name. When the ticker space of the base is
// exhausted it still returns the last mutation tried, which may duplicate an
// existing symbol; use TryGenerate to detect that case.
func (g *Generator) Generate(name, variationHint string) string {
	symbol, err := g.TryGenerate(name, variationHint)
	if err != nil {
		slog.Warn("Returning possibly duplicate ticker", "name", name, "symbol", symbol, "error", err)
	}
	return symbol
}

// TryGenerate is Generate with exhaustion reported as ErrTickerSpaceExhausted.
// The candidate is returned alongside the error and is not reserved.
//
// A non-empty variationHint produces BASE2.HINT2 without consulting or
// updating the registry.
func (g *Generator) TryGenerate(name, variationHint string) (string, error) {
	if variationHint != "" {
		return VariationSymbol(name, variationHint), nil
	}

	base := Compress(name, BaseLength)

	g.registry.mu.Lock()
	defer g.registry.mu.Unlock()

	if g.registry.reserveLocked(base) {
		return base, nil
	}

	var candidate string
	for attempt := 1; attempt <= MaxCollisionAttempts; attempt++ {
		candidate = CollisionCandidate(base, attempt)
		if g.registry.reserveLocked(candidate) {
			return candidate, nil
		}
	}
	return candidate, fmt.Errorf("%w: base %s after %d attempts", ErrTickerSpaceExhausted, base, MaxCollisionAttempts)
}

// VariationSymbol renders BASE2.HINT2 where HINT2 is the first two
// alphanumerics of the hint, uppercased.
func VariationSymbol(name, variationHint string) string {
	suffix := cleanAlnum(variationHint)
	if len(suffix) > VariationBaseLength {
		suffix = suffix[:VariationBaseLength]
	}
	return Compress(name, VariationBaseLength) + "." + suffix
}

// CollisionCandidate returns the mutation of base tried at the given attempt:
// 1-9 replace the 4th character with the digit, 10-35 with A-Z, and later
// attempts use the first two characters followed by the zero-padded attempt.
func CollisionCandidate(base string, attempt int) string {
	base = pad(base, BaseLength)
	switch {
	case attempt >= 1 && attempt <= 9:
		return base[:3] + string(rune('0'+attempt))
	case attempt >= 10 && attempt <= 35:
		return base[:3] + string(rune('A'+attempt-10))
	default:
		return base[:2] + fmt.Sprintf("%02d", attempt)
	}
}

// NormalizeSymbol trims and uppercases a user-supplied symbol for lookups.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
