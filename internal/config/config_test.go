package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, resolved, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.False(t, exists)
	require.NotEmpty(t, resolved)

	require.Equal(t, "https://webapi.legistar.com/v1/columbus", cfg.API.BaseURL)
	require.Equal(t, 27, cfg.API.BodyID)
	require.Equal(t, 30*time.Second, cfg.API.Timeout())
	require.Equal(t, 5, cfg.API.RetryCount)
	require.Equal(t, 250*time.Millisecond, cfg.API.RequestInterval())
	require.Equal(t, 500*time.Millisecond, cfg.Web.PageInterval())
	require.Equal(t, "Columbus-OH", cfg.Output.Prefix)
	require.Equal(t, ".", cfg.Output.Dir)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "councilvotes.toml")
	content := `
[api]
base_url = "https://webapi.legistar.com/v1/cleveland"
body_id = 42
request_interval_ms = 100

[output]
prefix = "Cleveland-OH"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, resolved, exists, err := Load(path)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, path, resolved)

	require.Equal(t, "https://webapi.legistar.com/v1/cleveland", cfg.API.BaseURL)
	require.Equal(t, 42, cfg.API.BodyID)
	require.Equal(t, 100*time.Millisecond, cfg.API.RequestInterval())
	require.Equal(t, "Cleveland-OH", cfg.Output.Prefix)

	// untouched sections keep their defaults
	require.Equal(t, 5, cfg.API.RetryCount)
	require.Equal(t, "https://columbus.legistar.com", cfg.Web.BaseURL)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not = [valid toml"), 0o644))

	_, _, exists, err := Load(path)
	require.Error(t, err)
	require.True(t, exists)
}
