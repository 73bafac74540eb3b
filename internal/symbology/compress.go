// Package symbology generates and formats Panel Profits ticker symbols:
// compressed base tickers with collision resolution against a registry,
// derivative instrument symbols and era-qualified comic issue symbols.
package symbology

import (
	"regexp"
	"strings"
)

// PadChar fills tickers shorter than the requested length.
const PadChar = 'X'

var (
	leadingArticle     = regexp.MustCompile(`^(?i:the |an |a )`)
	trailingPossessive = regexp.MustCompile(`(?i)'s$`)
)

// Compress reduces a free-text name to exactly n uppercase alphanumeric
// characters. It never fails; an empty or fully symbolic name yields n X's.
func Compress(name string, n int) string {
	if n <= 0 {
		return ""
	}

	s := leadingArticle.ReplaceAllString(name, "")
	s = trailingPossessive.ReplaceAllString(s, "")
	cleaned := cleanAlnum(s)

	if cleaned == "" {
		return strings.Repeat(string(PadChar), n)
	}
	if len(cleaned) <= n {
		return pad(cleaned, n)
	}

	rest := cleaned[1:]
	var consonants, vowels strings.Builder
	for i := 0; i < len(rest); i++ {
		if isVowel(rest[i]) {
			vowels.WriteByte(rest[i])
		} else {
			consonants.WriteByte(rest[i])
		}
	}

	out := cleaned[:1] + consonants.String()
	if len(out) >= n {
		return out[:n]
	}

	need := n - len(out)
	v := vowels.String()
	if len(v) > need {
		v = v[:need]
	}
	return pad(out+v, n)
}

// cleanAlnum uppercases s and drops everything outside A-Z and 0-9.
func cleanAlnum(s string) string {
	upper := strings.ToUpper(s)
	var b strings.Builder
	b.Grow(len(upper))
	for i := 0; i < len(upper); i++ {
		c := upper[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(string(PadChar), n-len(s))
}

func isVowel(c byte) bool {
	switch c {
	case 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}
