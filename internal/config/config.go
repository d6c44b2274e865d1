package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the config file looked for in the working directory
// when no --config path is given.
const DefaultFileName = "councilvotes.toml"

// API contains Legistar Web API connection settings.
type API struct {
	BaseURL           string `toml:"base_url"`
	BodyID            int    `toml:"body_id"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	RetryCount        int    `toml:"retry_count"`
	RequestIntervalMS int    `toml:"request_interval_ms"`
}

// Web contains settings for the Legistar public web UI used by the
// full-text scraper.
type Web struct {
	BaseURL        string `toml:"base_url"`
	PageIntervalMS int    `toml:"page_interval_ms"`
}

// Output contains output file naming settings.
type Output struct {
	Dir    string `toml:"dir"`
	Prefix string `toml:"prefix"`
}

// Config holds the full run configuration for the extractor.
type Config struct {
	API    API    `toml:"api"`
	Web    Web    `toml:"web"`
	Output Output `toml:"output"`
}

// Default returns the configuration used when no config file exists.
// The defaults target the Columbus, OH Legistar instance; body id 27 is
// the City Council.
func Default() Config {
	return Config{
		API: API{
			BaseURL:           "https://webapi.legistar.com/v1/columbus",
			BodyID:            27,
			TimeoutSeconds:    30,
			RetryCount:        5,
			RequestIntervalMS: 250,
		},
		Web: Web{
			BaseURL:        "https://columbus.legistar.com",
			PageIntervalMS: 500,
		},
		Output: Output{
			Dir:    ".",
			Prefix: "Columbus-OH",
		},
	}
}

// Load reads configuration from path, or from DefaultFileName in the
// working directory when path is empty. A missing file is not an error:
// the defaults are returned with exists=false. The resolved path is
// returned either way.
func Load(path string) (Config, string, bool, error) {
	cfg := Default()

	resolved := path
	if resolved == "" {
		resolved = DefaultFileName
	}
	resolved, err := filepath.Abs(resolved)
	if err != nil {
		return cfg, resolved, false, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, resolved, false, nil
	}
	if err != nil {
		return cfg, resolved, false, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, resolved, true, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, resolved, true, nil
}

// Timeout returns the per-request timeout as a duration
func (a API) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RequestInterval returns the minimum delay between API requests
func (a API) RequestInterval() time.Duration {
	return time.Duration(a.RequestIntervalMS) * time.Millisecond
}

// PageInterval returns the minimum delay between page visits
func (w Web) PageInterval() time.Duration {
	return time.Duration(w.PageIntervalMS) * time.Millisecond
}
