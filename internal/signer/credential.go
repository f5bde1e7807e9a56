package signer

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"tokenRelay/internal/chain"
)

// Credential binds an account address to the key that signs for it.
type Credential struct {
	Address common.Address
	Key     *ecdsa.PrivateKey
}

// NewCredential parses a hex private key (with or without 0x) and checks it against address.
// An empty address is derived from the key.
func NewCredential(address, privateKeyHex string) (Credential, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if privateKeyHex == "" {
		return Credential{}, fmt.Errorf("private key is required")
	}

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return Credential{}, fmt.Errorf("parse private key: %w", err)
	}
	derived := crypto.PubkeyToAddress(key.PublicKey)

	if strings.TrimSpace(address) == "" {
		return Credential{Address: derived, Key: key}, nil
	}

	configured, err := chain.ParseAddress(address)
	if err != nil {
		return Credential{}, fmt.Errorf("wallet address %q: %w", address, err)
	}
	if configured != derived {
		return Credential{}, fmt.Errorf("wallet address %s does not match private key (%s)", configured.Hex(), derived.Hex())
	}

	return Credential{Address: derived, Key: key}, nil
}
