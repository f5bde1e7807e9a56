package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultRPCURL = "https://sepolia-rpc.giwa.io"

// Wallet is a configured signing account.
type Wallet struct {
	Address    string
	PrivateKey string
}

// envAliases maps config keys to the environment names used by existing deployments.
var envAliases = map[string][]string{
	"rpc":              {"GIWA_RPC_URL", "RPC_URL"},
	"contract":         {"CONTRACT_ADDRESS"},
	"wallet-address-a": {"WALLET_ADDRESS_A"},
	"private-key-a":    {"PRIVATE_KEY_A"},
	"wallet-address-b": {"WALLET_ADDRESS_B"},
	"private-key-b":    {"PRIVATE_KEY_B"},
	"port":             {"PORT"},
}

// newViper builds a viper instance with defaults, env bindings and flags, then reads the
// optional config file. Values from a .env file in the working directory are loaded first;
// variables already set in the environment win.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}, keys ...string) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TOKENRELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	for _, key := range keys {
		aliases, ok := envAliases[key]
		if !ok {
			continue
		}
		if err := v.BindEnv(append([]string{key}, aliases...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func listenAddr(v *viper.Viper) string {
	if listen := strings.TrimSpace(v.GetString("listen")); listen != "" {
		return listen
	}
	return ":" + strings.TrimSpace(v.GetString("port"))
}
