package token

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"tokenRelay/internal/model"
)

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ValidateAmount checks that amount is a positive decimal without touching the chain.
// Precision against the token's decimals is checked by ParseUnits.
func ValidateAmount(amount string) error {
	amount = strings.TrimSpace(amount)
	if !amountPattern.MatchString(amount) {
		return model.NewError(model.ErrInvalidAmount, "Invalid amount")
	}
	value, err := decimal.NewFromString(amount)
	if err != nil || !value.IsPositive() {
		return model.NewError(model.ErrInvalidAmount, "Invalid amount")
	}
	return nil
}

// ParseUnits converts a human-readable decimal amount into base units.
// The amount must be strictly positive and carry no more fractional digits than decimals.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	if idx := strings.IndexByte(amount, '.'); idx >= 0 {
		fraction := strings.TrimRight(amount[idx+1:], "0")
		if len(fraction) > int(decimals) {
			return nil, model.Errorf(model.ErrInvalidAmount, "Invalid amount: too many decimals for %d-decimal token", decimals)
		}
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, model.WrapError(model.ErrInvalidAmount, err)
	}
	return value.Shift(int32(decimals)).BigInt(), nil
}

// FormatUnits renders base units as a decimal string, always keeping one fractional digit.
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0.0"
	}
	text := decimal.NewFromBigInt(value, -int32(decimals)).String()
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

// FormatEther renders wei as ether.
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, 18)
}
