package bysquare

import (
	"strings"
	"testing"
	"time"
)

func TestEncode_Deterministic(t *testing.T) {
	p := Payment{
		IBAN:           "SK8902000000000026600007",
		AmountCents:    2500,
		VariableSymbol: "1234567890",
		Note:           "Strih vlasov",
	}

	first, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if first == "" {
		t.Fatal("Encode() returned empty string")
	}

	for i := 0; i < 5; i++ {
		again, err := Encode(p)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if again != first {
			t.Errorf("Encode() not deterministic: %q != %q", again, first)
		}
	}
}

func TestEncode_NormalizesIBAN(t *testing.T) {
	clean, err := Encode(Payment{IBAN: "SK8902000000000026600007", AmountCents: 100})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	spaced, err := Encode(Payment{IBAN: "sk89 0200 0000 0000 2660 0007", AmountCents: 100})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if clean != spaced {
		t.Errorf("Encode() with spaced IBAN = %q, want %q", spaced, clean)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payment Payment
	}{
		{
			name: "haircut payment",
			payment: Payment{
				IBAN:           "SK8902000000000026600007",
				AmountCents:    2500,
				VariableSymbol: "1234567890",
				Note:           "Strih vlasov",
			},
		},
		{
			name: "minimal payment",
			payment: Payment{
				IBAN:        "SK8902000000000026600007",
				AmountCents: 1,
			},
		},
		{
			name: "full payment",
			payment: Payment{
				IBAN:            "SK8902000000000026600007",
				AmountCents:     100000000, // 1,000,000 EUR
				VariableSymbol:  "42",
				ConstantSymbol:  "0308",
				SpecificSymbol:  "99",
				Note:            "Faktúra 2024/031",
				DueDate:         time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
				BeneficiaryName: "Kaderníctvo Lujza",
			},
		},
		{
			name: "fractional amount",
			payment: Payment{
				IBAN:           "SK8902000000000026600007",
				AmountCents:    1999,
				VariableSymbol: "7",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.payment)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if encoded == "" {
				t.Fatal("Encode() returned empty string")
			}

			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if decoded.IBAN != tt.payment.IBAN {
				t.Errorf("IBAN = %q, want %q", decoded.IBAN, tt.payment.IBAN)
			}
			if decoded.AmountCents != tt.payment.AmountCents {
				t.Errorf("AmountCents = %d, want %d", decoded.AmountCents, tt.payment.AmountCents)
			}
			if decoded.VariableSymbol != tt.payment.VariableSymbol {
				t.Errorf("VariableSymbol = %q, want %q", decoded.VariableSymbol, tt.payment.VariableSymbol)
			}
			if decoded.Note != tt.payment.Note {
				t.Errorf("Note = %q, want %q", decoded.Note, tt.payment.Note)
			}
			if !decoded.DueDate.Equal(tt.payment.DueDate) {
				t.Errorf("DueDate = %v, want %v", decoded.DueDate, tt.payment.DueDate)
			}
			if decoded.BeneficiaryName != tt.payment.BeneficiaryName {
				t.Errorf("BeneficiaryName = %q, want %q", decoded.BeneficiaryName, tt.payment.BeneficiaryName)
			}
		})
	}
}

func TestEncode_Base32HexAlphabet(t *testing.T) {
	encoded, err := Encode(Payment{IBAN: "SK8902000000000026600007", AmountCents: 2500})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUV"
	for _, r := range encoded {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("Encode() output contains %q outside base32hex alphabet", r)
		}
	}
}

func TestDecode_Garbage(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not base32hex", input: "!!!!"},
		{name: "truncated", input: "0004"},
		{name: "random", input: "ABCDEFGH01234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.input); err == nil {
				t.Errorf("Decode(%q) expected error, got nil", tt.input)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{2500, "25"},
		{2550, "25.5"},
		{1999, "19.99"},
		{1, "0.01"},
		{100000000, "1000000"},
	}

	for _, tt := range tests {
		if got := formatAmount(tt.cents); got != tt.want {
			t.Errorf("formatAmount(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
