package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.DBPath)
	require.Equal(t, 30*time.Second, cfg.QueryTimeout)
	require.Equal(t, 100.0, cfg.RateLimitRPS)
	require.Equal(t, 200, cfg.RateLimitBurst)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QUERY_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://canvas.local, https://other.local")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, 5*time.Second, cfg.QueryTimeout)
	require.Equal(t, []string{"https://canvas.local", "https://other.local"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnv_BadTimeout(t *testing.T) {
	t.Setenv("QUERY_TIMEOUT", "nonsense")
	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	} {
		cfg := &Config{LogLevel: in}
		require.Equal(t, want, cfg.SlogLevel(), "level %q", in)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"# comment\nLISTEN_ADDR=:7070\nLOG_LEVEL=\"warn\"\n\nnot a pair\n"), 0o600))

	t.Setenv("LISTEN_ADDR", ":1111") // env wins over .env
	t.Setenv("LOG_LEVEL", "")

	require.NoError(t, LoadDotEnv(path))
	require.Equal(t, ":1111", os.Getenv("LISTEN_ADDR"))
	require.Equal(t, "warn", os.Getenv("LOG_LEVEL"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
