package cli

import (
	"fmt"
	"strings"
	"time"

	"bridge_gateway/internal/infrastructure/lifi"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the bridgectl settings resolved from flags, environment and config file.
type Config struct {
	APIBase        string
	IntentsBase    string
	APIKey         string
	Timeout        time.Duration
	WalletKey      string
	InitialChain   string
	RPCCallTimeout time.Duration
	LogLevel       string
}

// LoadConfig merges the config file, BRIDGE_* environment variables and flags.
// Without cfgFile, .bridgectl.yaml is looked up in the working and home directories; a missing file is fine.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// the gateway's variable names are honoured too
	_ = v.BindEnv("api-base", "BRIDGE_API_BASE", "LI_FI_API_BASE")
	_ = v.BindEnv("intents-base", "BRIDGE_INTENTS_BASE", "LI_FI_INTENTS_BASE")
	_ = v.BindEnv("api-key", "BRIDGE_API_KEY", "LI_FI_API_KEY")
	_ = v.BindEnv("wallet-key", "BRIDGE_WALLET_KEY", "BRIDGE_WALLET_PRIVATE_KEY")

	v.SetDefault("api-base", lifi.DefaultAPIBase)
	v.SetDefault("intents-base", lifi.DefaultIntentsBase)
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("initial-chain", "ethereum")
	v.SetDefault("rpc-timeout", 10*time.Second)
	v.SetDefault("log-level", "warn")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName(".bridgectl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		APIBase:        v.GetString("api-base"),
		IntentsBase:    v.GetString("intents-base"),
		APIKey:         v.GetString("api-key"),
		Timeout:        v.GetDuration("timeout"),
		WalletKey:      v.GetString("wallet-key"),
		InitialChain:   v.GetString("initial-chain"),
		RPCCallTimeout: v.GetDuration("rpc-timeout"),
		LogLevel:       v.GetString("log-level"),
	}
	if v.GetBool("verbose") {
		cfg.LogLevel = "debug"
	}

	if !strings.HasPrefix(cfg.APIBase, "http://") && !strings.HasPrefix(cfg.APIBase, "https://") {
		return Config{}, fmt.Errorf("invalid api base %q", cfg.APIBase)
	}
	return cfg, nil
}
