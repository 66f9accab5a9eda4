package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = ".gomdscan.yaml"

// ErrConfig marks configuration loading and validation failures.
var ErrConfig = errors.New("invalid configuration")

// Config holds CLI configuration loaded from .gomdscan.yaml.
// Command-line flags override file values.
type Config struct {
	TabWidth int    `yaml:"tab_width"`
	Color    string `yaml:"color"`
	Format   string `yaml:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{TabWidth: 4, Color: "auto", Format: "text"}
}

// LoadConfig loads configuration from explicitPath, or from .gomdscan.yaml
// in workDir when explicitPath is empty. A missing discovered file is not an
// error; a missing explicit file is.
func LoadConfig(explicitPath, workDir string) (Config, error) {
	cfg := DefaultConfig()

	path := explicitPath
	if path == "" {
		path = filepath.Join(workDir, configFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicitPath == "" && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("%w: read %s: %v", ErrConfig, path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", ErrConfig, path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.TabWidth != 4 && c.TabWidth != 8 {
		return fmt.Errorf("%w: tab_width must be 4 or 8, got %d", ErrConfig, c.TabWidth)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: color must be auto, always, or never, got %q", ErrConfig, c.Color)
	}

	switch c.Format {
	case "text", "table", "json":
	default:
		return fmt.Errorf("%w: format must be text, table, or json, got %q", ErrConfig, c.Format)
	}

	return nil
}
