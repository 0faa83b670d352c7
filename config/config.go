package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/pevans/replidata/browser"
	"github.com/pevans/replidata/logging"
	"github.com/pevans/replidata/scraper"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultIndexURL is the discussion paper index scraped by default.
const DefaultIndexURL = "https://i4replication.org/discussion_paper.html"

// Config holds everything the pipeline needs: the index to scrape, how to
// read each page, how pages are fetched, and where results go.
type Config struct {
	IndexURL           string                 `yaml:"index_url"`
	Listing            scraper.ListingConfig  `yaml:"listing"`
	Detail             scraper.DetailConfig   `yaml:"detail"`
	Metadata           scraper.MetadataConfig `yaml:"metadata"`
	Fetch              FetchConfig            `yaml:"fetch"`
	SkipURLs           []string               `yaml:"skip_urls"`
	CheckpointInterval int                    `yaml:"checkpoint_interval"`
	Paths              PathsConfig            `yaml:"paths"`
	Logging            LoggingConfig          `yaml:"logging"`
}

// FetchConfig controls how pages are loaded.
type FetchConfig struct {
	Engine            string   `yaml:"engine"`
	Headless          bool     `yaml:"headless"`
	NavigationTimeout Duration `yaml:"navigation_timeout"`
	ReadyTimeout      Duration `yaml:"ready_timeout"`
	SettleDelay       Duration `yaml:"settle_delay"`
	ClickDelay        Duration `yaml:"click_delay"`
	RatePerSecond     float64  `yaml:"rate_per_second"`
	UserAgent         string   `yaml:"user_agent"`
}

// PathsConfig holds input and output locations.
type PathsConfig struct {
	OutputDir string `yaml:"output_dir"`
	Reference string `yaml:"reference"`
	Ledger    string `yaml:"ledger"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a time.Duration that reads and writes as a Go duration string
// such as "1s" or "2m30s".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		IndexURL: DefaultIndexURL,
		Listing:  scraper.NewListingConfig(),
		Detail:   scraper.NewDetailConfig(),
		Metadata: scraper.NewMetadataConfig(),
		Fetch: FetchConfig{
			Engine:            browser.EngineChrome,
			Headless:          true,
			NavigationTimeout: Duration(120 * time.Second),
			ReadyTimeout:      Duration(10 * time.Second),
			ClickDelay:        Duration(1 * time.Second),
			RatePerSecond:     1,
			UserAgent:         "replidata/1.0 (replication metadata scraper)",
		},
		SkipURLs:           []string{},
		CheckpointInterval: 20,
		Paths: PathsConfig{
			OutputDir: "output",
			Reference: "input/metadatabasePublic.csv",
			Ledger:    "output/runs.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.IndexURL == "" {
		return fmt.Errorf("%w: index_url is required", ErrInvalidConfig)
	}
	if c.Listing.CardSelector == "" {
		return fmt.Errorf("%w: listing.card_selector is required", ErrInvalidConfig)
	}
	if c.Fetch.Engine != browser.EngineChrome && c.Fetch.Engine != browser.EngineHTTP {
		return fmt.Errorf("%w: fetch.engine must be %s or %s, got %q",
			ErrInvalidConfig, browser.EngineChrome, browser.EngineHTTP, c.Fetch.Engine)
	}
	if c.Fetch.RatePerSecond <= 0 {
		return fmt.Errorf("%w: fetch.rate_per_second must be positive", ErrInvalidConfig)
	}
	if c.CheckpointInterval < 0 {
		return fmt.Errorf("%w: checkpoint_interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// BrowserOptions converts the fetch settings into fetcher options.
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Engine:            c.Fetch.Engine,
		Headless:          c.Fetch.Headless,
		NavigationTimeout: c.Fetch.NavigationTimeout.Std(),
		ReadyTimeout:      c.Fetch.ReadyTimeout.Std(),
		SettleDelay:       c.Fetch.SettleDelay.Std(),
		ClickDelay:        c.Fetch.ClickDelay.Std(),
		UserAgent:         c.Fetch.UserAgent,
		RatePerSecond:     c.Fetch.RatePerSecond,
	}
}

// LoggingOptions converts the logging settings into logger options.
func (c *Config) LoggingOptions() logging.Config {
	cfg := logging.DefaultConfig()
	if c.Logging.Level != "" {
		cfg.Level = c.Logging.Level
	}
	if c.Logging.Format != "" {
		cfg.Format = c.Logging.Format
	}
	return cfg
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
