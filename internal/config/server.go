package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ServerConfig holds configuration for the signing server.
type ServerConfig struct {
	RPCURL      string
	Contract    string
	WalletA     Wallet
	WalletB     Wallet
	Listen      string
	Network     string
	JournalPath string
	PGDSN       string
	LogLevel    string
}

// LoadServer merges .env, config file, environment variables, and flags into ServerConfig.
func LoadServer(cfgFile string, flags *pflag.FlagSet) (ServerConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"rpc":       defaultRPCURL,
		"port":      "3000",
		"network":   "Giwa Sepolia",
		"log-level": "info",
	}, "rpc", "contract", "wallet-address-a", "private-key-a", "wallet-address-b", "private-key-b", "port")
	if err != nil {
		return ServerConfig{}, err
	}

	cfg := ServerConfig{
		RPCURL:   v.GetString("rpc"),
		Contract: v.GetString("contract"),
		WalletA: Wallet{
			Address:    v.GetString("wallet-address-a"),
			PrivateKey: v.GetString("private-key-a"),
		},
		WalletB: Wallet{
			Address:    v.GetString("wallet-address-b"),
			PrivateKey: v.GetString("private-key-b"),
		},
		Listen:      listenAddr(v),
		Network:     v.GetString("network"),
		JournalPath: v.GetString("journal"),
		PGDSN:       v.GetString("pg-dsn"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the values required to start the server.
func (c ServerConfig) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.Contract == "" {
		return fmt.Errorf("contract address is required")
	}
	if c.WalletA.PrivateKey == "" || c.WalletB.PrivateKey == "" {
		return fmt.Errorf("private keys for wallets A and B are required")
	}
	if c.JournalPath != "" && c.PGDSN != "" {
		return fmt.Errorf("journal and pg-dsn are mutually exclusive")
	}
	return nil
}
