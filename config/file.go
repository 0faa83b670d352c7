package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file read when no path is given.
const DefaultFile = "replidata.yaml"

// EnvFile names the environment variable that overrides DefaultFile.
const EnvFile = "REPLIDATA_CONFIG"

// ResolvePath picks the configuration file to load: the explicit path if
// given, then $REPLIDATA_CONFIG, then DefaultFile.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(EnvFile); env != "" {
		return env
	}
	return DefaultFile
}

// LoadFile loads configuration from path on top of Default. A missing file is
// not an error; the defaults are returned. Keys absent from the file keep
// their default values. The result is validated.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	// Check if file exists
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
