package config

import (
	"testing"
	"time"

	"github.com/pevans/replidata/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestDefault verifies the built-in defaults
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultIndexURL, cfg.IndexURL)
	assert.Equal(t, []string{"#reports-tab", "#economicsBtn"}, cfg.Listing.Clicks)
	assert.Equal(t, "#articles-container .col-md-6.mb-4", cfg.Listing.CardSelector)
	assert.Equal(t, "metadata/osf", cfg.Metadata.Suffix)
	assert.Equal(t, browser.EngineChrome, cfg.Fetch.Engine)
	assert.Equal(t, 120*time.Second, cfg.Fetch.NavigationTimeout.Std())
	assert.Equal(t, 20, cfg.CheckpointInterval)
	assert.Empty(t, cfg.SkipURLs, "skip list should be empty by default")
	assert.Equal(t, "input/metadatabasePublic.csv", cfg.Paths.Reference)
	assert.NoError(t, cfg.Validate())
}

// TestValidate verifies each rejected value
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty index url", mutate: func(c *Config) { c.IndexURL = "" }},
		{name: "empty card selector", mutate: func(c *Config) { c.Listing.CardSelector = "" }},
		{name: "unknown engine", mutate: func(c *Config) { c.Fetch.Engine = "lynx" }},
		{name: "zero rate", mutate: func(c *Config) { c.Fetch.RatePerSecond = 0 }},
		{name: "negative checkpoint interval", mutate: func(c *Config) { c.CheckpointInterval = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

// TestValidate_ZeroCheckpointInterval verifies checkpoints can be disabled
func TestValidate_ZeroCheckpointInterval(t *testing.T) {
	cfg := Default()
	cfg.CheckpointInterval = 0
	assert.NoError(t, cfg.Validate())
}

// TestDuration_YAML verifies durations read and write as strings
func TestDuration_YAML(t *testing.T) {
	var holder struct {
		D Duration `yaml:"d"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("d: 2m30s\n"), &holder))
	assert.Equal(t, 150*time.Second, holder.D.Std())

	out, err := yaml.Marshal(holder)
	require.NoError(t, err)
	assert.Equal(t, "d: 2m30s\n", string(out))

	err = yaml.Unmarshal([]byte("d: soon\n"), &holder)
	assert.Error(t, err)
}

// TestBrowserOptions verifies fetch settings are carried over
func TestBrowserOptions(t *testing.T) {
	cfg := Default()
	cfg.Fetch.Engine = browser.EngineHTTP
	cfg.Fetch.SettleDelay = Duration(4 * time.Second)

	opts := cfg.BrowserOptions()

	assert.Equal(t, browser.EngineHTTP, opts.Engine)
	assert.Equal(t, 4*time.Second, opts.SettleDelay)
	assert.Equal(t, 10*time.Second, opts.ReadyTimeout)
	assert.Equal(t, 1.0, opts.RatePerSecond)
	assert.True(t, opts.Headless)
}

// TestLoggingOptions verifies empty settings fall back to logger defaults
func TestLoggingOptions(t *testing.T) {
	cfg := Default()
	cfg.Logging = LoggingConfig{Level: "debug"}

	opts := cfg.LoggingOptions()

	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, "console", opts.Format)
}

// TestYAML_RoundTrip verifies the rendered config loads back identically
func TestYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.SkipURLs = []string{"https://example.com/article1"}

	data, err := cfg.YAML()
	require.NoError(t, err)

	loaded := &Config{}
	require.NoError(t, yaml.Unmarshal(data, loaded))
	assert.Equal(t, cfg, loaded)
}
