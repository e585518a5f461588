package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bridge_gateway/internal/infrastructure/lifi"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func clearCLIEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BRIDGE_API_BASE", "LI_FI_API_BASE", "BRIDGE_INTENTS_BASE", "LI_FI_INTENTS_BASE",
		"BRIDGE_API_KEY", "LI_FI_API_KEY", "BRIDGE_WALLET_KEY", "BRIDGE_WALLET_PRIVATE_KEY",
		"BRIDGE_TIMEOUT", "BRIDGE_LOG_LEVEL", "BRIDGE_VERBOSE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearCLIEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	require.Equal(t, lifi.DefaultAPIBase, cfg.APIBase)
	require.Equal(t, lifi.DefaultIntentsBase, cfg.IntentsBase)
	require.Equal(t, 15*time.Second, cfg.Timeout)
	require.Equal(t, "ethereum", cfg.InitialChain)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Empty(t, cfg.WalletKey)
}

func TestLoadConfigPrecedence(t *testing.T) {
	clearCLIEnv(t)

	path := filepath.Join(t.TempDir(), "bridgectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api-base: https://file.example/v1\napi-key: from-file\ntimeout: 3s\ninitial-chain: 137\n"), 0o600))

	t.Setenv("LI_FI_API_KEY", "from-gateway-env")
	t.Setenv("BRIDGE_WALLET_PRIVATE_KEY", "0xkey")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-base", "", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--api-base", "https://flag.example/v1", "--verbose"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	require.Equal(t, "https://flag.example/v1", cfg.APIBase)
	require.Equal(t, "from-gateway-env", cfg.APIKey)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.Equal(t, "137", cfg.InitialChain)
	require.Equal(t, "0xkey", cfg.WalletKey)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigErrors(t *testing.T) {
	clearCLIEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.ErrorContains(t, err, "read config")

	t.Setenv("BRIDGE_API_BASE", "li.quest/v1")
	t.Chdir(t.TempDir())
	_, err = LoadConfig("", nil)
	require.ErrorContains(t, err, "invalid api base")
}
