package utils

import "strings"

// StripNonDigits removes every non-digit rune from s. Used to normalize
// tax identifiers (CNPJ/CPF) before comparison or remote lookup.
func StripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FirstN returns at most the first n elements of items.
func FirstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
