package domain

import "strings"

// SymbolSeparator joins the base and suffix segments of a rendered symbol.
const SymbolSeparator = "."

// Symbol is a generated ticker split into its root and dotted suffixes,
// e.g. BATM.40.V1.#404 has base BATM and suffixes [40 V1 #404].
type Symbol struct {
	Base           string   `json:"base"`
	SuffixSegments []string `json:"suffix_segments,omitempty"`
}

func NewSymbol(base string, suffixes ...string) Symbol {
	return Symbol{Base: base, SuffixSegments: suffixes}
}

// ParseSymbol splits a rendered symbol on its separators. Empty segments
// are preserved so that Rendered() reproduces the input exactly.
func ParseSymbol(rendered string) Symbol {
	parts := strings.Split(rendered, SymbolSeparator)
	if len(parts) == 1 {
		return Symbol{Base: parts[0]}
	}
	return Symbol{Base: parts[0], SuffixSegments: parts[1:]}
}

// Rendered returns the full dotted form stored in the registry.
func (s Symbol) Rendered() string {
	if len(s.SuffixSegments) == 0 {
		return s.Base
	}
	return s.Base + SymbolSeparator + strings.Join(s.SuffixSegments, SymbolSeparator)
}

func (s Symbol) String() string {
	return s.Rendered()
}

// IsDotted reports whether the symbol already uses the dotted nomenclature.
func IsDotted(rendered string) bool {
	return strings.Contains(rendered, SymbolSeparator)
}
