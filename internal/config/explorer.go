package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ExplorerConfig holds configuration for the read-only explorer.
type ExplorerConfig struct {
	RPCURL   string
	Contract string
	Listen   string
	Network  string
	LogLevel string
}

// LoadExplorer merges .env, config file, environment variables, and flags into ExplorerConfig.
func LoadExplorer(cfgFile string, flags *pflag.FlagSet) (ExplorerConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"port":      "4000",
		"network":   "Giwa Sepolia",
		"log-level": "info",
	}, "rpc", "contract")
	if err != nil {
		return ExplorerConfig{}, err
	}

	cfg := ExplorerConfig{
		RPCURL:   v.GetString("rpc"),
		Contract: v.GetString("contract"),
		Listen:   listenAddr(v),
		Network:  v.GetString("network"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the values required to start the explorer.
func (c ExplorerConfig) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.Contract == "" {
		return fmt.Errorf("contract address is required")
	}
	return nil
}
