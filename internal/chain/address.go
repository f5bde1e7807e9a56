package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"tokenRelay/internal/model"
)

// NormalizeAddress is the single comparison form for account addresses:
// lower-case with a 0x prefix.
func NormalizeAddress(address string) string {
	address = strings.ToLower(strings.TrimSpace(address))
	if !strings.HasPrefix(address, "0x") {
		address = "0x" + address
	}
	return address
}

// SameAddress compares two address strings case-insensitively.
func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}

// IsAddress reports whether input is a 20-byte hex address. Mixed-case input must carry
// a valid EIP-55 checksum.
func IsAddress(input string) bool {
	if !common.IsHexAddress(input) {
		return false
	}
	body := strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	if strings.ToLower(body) == body || strings.ToUpper(body) == body {
		return true
	}
	return common.HexToAddress(input).Hex()[2:] == body
}

// ParseAddress validates and converts an address string.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !IsAddress(input) {
		return common.Address{}, model.Errorf(model.ErrInvalidAddress, "Invalid address")
	}
	return common.HexToAddress(input), nil
}

// ParseTxHash converts a 0x-prefixed 32-byte hash string.
func ParseTxHash(input string) (common.Hash, error) {
	data, err := hexutil.Decode(strings.TrimSpace(input))
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid hash %q: %w", input, err)
	}
	if len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid hash length: %d", len(data))
	}
	return common.BytesToHash(data), nil
}
