package token

import (
	"errors"
	"math/big"
	"testing"

	"tokenRelay/internal/model"
)

func TestParseUnits(t *testing.T) {
	cases := []struct {
		amount   string
		decimals uint8
		want     string
	}{
		{"5", 18, "5000000000000000000"},
		{"0.5", 18, "500000000000000000"},
		{"1.25", 2, "125"},
		{"1.2500", 2, "125"},
		{"1000000", 0, "1000000"},
		{"0.000000000000000001", 18, "1"},
	}

	for _, tc := range cases {
		got, err := ParseUnits(tc.amount, tc.decimals)
		if err != nil {
			t.Fatalf("ParseUnits(%q, %d): %v", tc.amount, tc.decimals, err)
		}
		if got.String() != tc.want {
			t.Fatalf("ParseUnits(%q, %d) = %s, want %s", tc.amount, tc.decimals, got, tc.want)
		}
	}
}

func TestParseUnitsRejects(t *testing.T) {
	inputs := []struct {
		amount   string
		decimals uint8
	}{
		{"0", 18},
		{"0.0", 18},
		{"-5", 18},
		{"abc", 18},
		{"1e18", 18},
		{"", 18},
		{"1.123", 2},
	}

	for _, in := range inputs {
		_, err := ParseUnits(in.amount, in.decimals)
		if !errors.Is(err, model.ErrInvalidAmount) {
			t.Fatalf("ParseUnits(%q, %d) expected invalid amount, got %v", in.amount, in.decimals, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	for _, ok := range []string{"1", "0.5", " 42 ", "1.123456789012345678901"} {
		if err := ValidateAmount(ok); err != nil {
			t.Fatalf("ValidateAmount(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "0", "0.000", "-1", "1.", ".5", "1e3"} {
		if err := ValidateAmount(bad); !errors.Is(err, model.ErrInvalidAmount) {
			t.Fatalf("ValidateAmount(%q) expected invalid amount, got %v", bad, err)
		}
	}
}

func TestFormatUnits(t *testing.T) {
	oneToken := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	if got := FormatUnits(oneToken, 18); got != "1.0" {
		t.Fatalf("FormatUnits(1e18) = %s", got)
	}
	if got := FormatUnits(big.NewInt(1500), 3); got != "1.5" {
		t.Fatalf("FormatUnits(1500, 3) = %s", got)
	}
	if got := FormatUnits(big.NewInt(42), 0); got != "42.0" {
		t.Fatalf("FormatUnits(42, 0) = %s", got)
	}
	if got := FormatUnits(nil, 18); got != "0.0" {
		t.Fatalf("FormatUnits(nil) = %s", got)
	}
	if got := FormatEther(big.NewInt(1)); got != "0.000000000000000001" {
		t.Fatalf("FormatEther(1) = %s", got)
	}
}
