package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvAPIBase      = "LI_FI_API_BASE"
	EnvIntentsBase  = "LI_FI_INTENTS_BASE"
	EnvAPIKey       = "LI_FI_API_KEY"
	EnvPort         = "PORT"
	EnvWalletKey    = "BRIDGE_WALLET_PRIVATE_KEY"
	EnvLogLevel     = "LOG_LEVEL"
	DefaultPath     = "config/config.yml"
	defaultAPIBase  = "https://li.quest/v1"
	defaultIntents  = "https://intents.li.fi/v1"
	defaultPort     = "8080"
	defaultLogLevel = "info"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int      `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int      `yaml:"idleTimeoutSeconds"`
	CORSAllowOrigins    []string `yaml:"corsAllowOrigins"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// LiFiConfig holds the upstream aggregator endpoints.
type LiFiConfig struct {
	APIBase              string `yaml:"apiBase"`
	IntentsBase          string `yaml:"intentsBase"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// CacheConfig holds the revalidate windows of the cached proxy routes.
type CacheConfig struct {
	ChainsSeconds      int `yaml:"chainsSeconds"`
	TokensSeconds      int `yaml:"tokensSeconds"`
	IntegratorsSeconds int `yaml:"integratorsSeconds"`
}

// RateLimitConfig limits outbound requests to the aggregator.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// WalletConfig configures the optional local signing wallet.
type WalletConfig struct {
	PrivateKey            string             `yaml:"privateKey"`
	InitialChainID        int64              `yaml:"initialChainId"`
	RPCCallTimeoutSeconds int                `yaml:"rpcCallTimeoutSeconds"`
	RPCOverrides          map[int64][]string `yaml:"rpcOverrides"`
}

// DebugConfig toggles diagnostic endpoints.
type DebugConfig struct {
	Pprof bool `yaml:"pprof"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	LiFi      LiFiConfig      `yaml:"lifi"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Debug     DebugConfig     `yaml:"debug"`
}

// RequestTimeout returns the upstream request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.LiFi.RequestTimeoutMillis) * time.Millisecond
}

// Windows returns the revalidate window of each cached path.
func (c *Config) Windows() map[string]time.Duration {
	return map[string]time.Duration{
		"chains":      time.Duration(c.Cache.ChainsSeconds) * time.Second,
		"tokens":      time.Duration(c.Cache.TokensSeconds) * time.Second,
		"integrators": time.Duration(c.Cache.IntegratorsSeconds) * time.Second,
	}
}

// LoadDotEnv loads variables from the given .env files, or ".env" when none are given.
// Missing files are ignored and existing variables are never overwritten.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logrus.Warnf("Failed to load env file %s: %v", f, err)
		}
	}
}

// PathFromEnv returns CONFIG_PATH, or the default config path.
func PathFromEnv() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the YAML configuration file from path, applies environment overrides and defaults.
// A missing file is not an error: the configuration is then built from environment and defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using environment and defaults", path)
	case err != nil:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvAPIBase, &cfg.LiFi.APIBase},
		{EnvIntentsBase, &cfg.LiFi.IntentsBase},
		{EnvAPIKey, &cfg.LiFi.APIKey},
		{EnvPort, &cfg.Server.Port},
		{EnvWalletKey, &cfg.Wallet.PrivateKey},
		{EnvLogLevel, &cfg.Logging.Level},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && strings.TrimSpace(v) != "" {
			*o.dst = strings.TrimSpace(v)
			logrus.Debugf("%s overridden from environment", o.env)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = defaultPort
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}
	if len(cfg.Server.CORSAllowOrigins) == 0 {
		cfg.Server.CORSAllowOrigins = []string{"*"}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.LiFi.APIBase == "" {
		cfg.LiFi.APIBase = defaultAPIBase
		logrus.Infof("LiFi.APIBase not set, defaulting to %s", cfg.LiFi.APIBase)
	}
	if cfg.LiFi.IntentsBase == "" {
		cfg.LiFi.IntentsBase = defaultIntents
		logrus.Infof("LiFi.IntentsBase not set, defaulting to %s", cfg.LiFi.IntentsBase)
	}
	if cfg.LiFi.RequestTimeoutMillis <= 0 {
		cfg.LiFi.RequestTimeoutMillis = 15000
	}

	if cfg.Cache.ChainsSeconds == 0 {
		cfg.Cache.ChainsSeconds = 60
	}
	if cfg.Cache.TokensSeconds == 0 {
		cfg.Cache.TokensSeconds = 60
	}
	if cfg.Cache.IntegratorsSeconds == 0 {
		cfg.Cache.IntegratorsSeconds = 300
	}

	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = int(cfg.RateLimit.RequestsPerSecond) + 1
	}

	if cfg.Wallet.InitialChainID == 0 {
		cfg.Wallet.InitialChainID = 1
	}
	if cfg.Wallet.RPCCallTimeoutSeconds <= 0 {
		cfg.Wallet.RPCCallTimeoutSeconds = 10
	}
}

func validate(cfg *Config) error {
	if _, err := strconv.Atoi(strings.TrimPrefix(cfg.Server.Port, ":")); err != nil {
		return fmt.Errorf("invalid server port %q", cfg.Server.Port)
	}
	for _, base := range []string{cfg.LiFi.APIBase, cfg.LiFi.IntentsBase} {
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return fmt.Errorf("invalid upstream base URL %q", base)
		}
	}
	if cfg.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rateLimit.requestsPerSecond must not be negative")
	}
	return nil
}
