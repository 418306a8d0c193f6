// Package iban contains IBAN normalization and format helpers used by
// payment validation and the BySquare encoder.
package iban

import "strings"

// Normalize strips whitespace and uppercases an IBAN
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// IsValidSlovak reports whether s is a well-formed Slovak IBAN: the SK
// prefix followed by 22 digits. Only the shape is checked; whether the
// account actually exists is between the payer and their bank.
func IsValidSlovak(s string) bool {
	s = Normalize(s)
	if len(s) != 24 {
		return false
	}
	if s[0] != 'S' || s[1] != 'K' {
		return false
	}
	for i := 2; i < 24; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
