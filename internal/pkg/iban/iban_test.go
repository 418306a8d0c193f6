package iban

import "testing"

func TestIsValidSlovak(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid", "SK8902000000000026600007", true},
		{"valid lowercase", "sk8902000000000026600007", true},
		{"valid with spaces", "SK89 0200 0000 0000 2660 0007", true},
		{"too short", "SK890200000000002660000", false},
		{"too long", "SK89020000000000266000071", false},
		{"wrong country", "CZ8902000000000026600007", false},
		{"letters in bban", "SK89020000000000266000AB", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSlovak(tt.in); got != tt.want {
				t.Errorf("IsValidSlovak(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(" sk89 0200\t0000 0000 2660 0007 "); got != "SK8902000000000026600007" {
		t.Errorf("Normalize() = %q", got)
	}
}
