package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"Error": slog.LevelError,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}

	got, ok := ParseLevel("verbose")
	require.False(t, ok)
	require.Equal(t, slog.LevelInfo, got)
}

func TestInstanceAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Debug("quote fetched", "chainId", 137)
	l.Error("bridge failed", "error", "rejected")

	out := buf.String()
	require.Contains(t, out, "quote fetched")
	require.Contains(t, out, "chainId=137")
	require.Contains(t, out, "level=ERROR")
}

func TestNewZapAndInit(t *testing.T) {
	z, err := NewZap("debug", "json")
	require.NoError(t, err)
	Init(z, "debug")
	require.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}
