package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// DeployConfig holds configuration for contract deployment.
type DeployConfig struct {
	RPCURL        string
	Deployer      Wallet
	Artifact      string
	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply uint64
	ConfirmDelay  time.Duration
	LogLevel      string
}

// LoadDeploy merges .env, config file, environment variables, and flags into DeployConfig.
func LoadDeploy(cfgFile string, flags *pflag.FlagSet) (DeployConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"rpc":            defaultRPCURL,
		"artifact":       "./artifacts/contracts/SimpleToken.sol/SimpleToken.json",
		"name":           "MyToken",
		"symbol":         "MTK",
		"decimals":       18,
		"initial-supply": uint64(1000000),
		"confirm-delay":  3 * time.Second,
		"log-level":      "info",
	}, "rpc", "wallet-address-a", "private-key-a")
	if err != nil {
		return DeployConfig{}, err
	}

	decimals := v.GetUint("decimals")
	if decimals > 255 {
		return DeployConfig{}, fmt.Errorf("decimals out of range: %d", decimals)
	}

	cfg := DeployConfig{
		RPCURL: v.GetString("rpc"),
		Deployer: Wallet{
			Address:    v.GetString("wallet-address-a"),
			PrivateKey: v.GetString("private-key-a"),
		},
		Artifact:      v.GetString("artifact"),
		Name:          v.GetString("name"),
		Symbol:        v.GetString("symbol"),
		Decimals:      uint8(decimals),
		InitialSupply: v.GetUint64("initial-supply"),
		ConfirmDelay:  v.GetDuration("confirm-delay"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the values required to deploy.
func (c DeployConfig) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.Deployer.PrivateKey == "" {
		return fmt.Errorf("deployer private key is required")
	}
	if c.Artifact == "" {
		return fmt.Errorf("artifact path is required")
	}
	return nil
}
