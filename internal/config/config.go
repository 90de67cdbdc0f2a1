package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

const (
	defaultSanitizedPath = "sanitized-mbpp.json"
	defaultOriginalPath  = "mbpp.jsonl"
	defaultSanitizedDir  = "sanitized"
	defaultOriginalDir   = "original"
	defaultPlotsDir      = "plots"
	defaultReportsDir    = "reports"
)

type Config struct {
	Datasets DatasetsConfig `yaml:"datasets"`
	Output   OutputConfig   `yaml:"output"`
	Storage  StorageConfig  `yaml:"storage"`
}

type DatasetsConfig struct {
	SanitizedPath string `yaml:"sanitized_path,omitempty"`
	OriginalPath  string `yaml:"original_path,omitempty"`
}

type OutputConfig struct {
	SanitizedDir string `yaml:"sanitized_dir,omitempty"`
	OriginalDir  string `yaml:"original_dir,omitempty"`
	PlotsDir     string `yaml:"plots_dir,omitempty"`
	ReportsDir   string `yaml:"reports_dir,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

// Load reads the YAML config at path. The default path is allowed to be
// absent; an explicitly named file that is missing is an error.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if path == DefaultPath && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

// Default returns the built-in configuration with environment overrides
// applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Datasets.SanitizedPath) == "" {
		c.Datasets.SanitizedPath = defaultSanitizedPath
	}
	if strings.TrimSpace(c.Datasets.OriginalPath) == "" {
		c.Datasets.OriginalPath = defaultOriginalPath
	}
	if strings.TrimSpace(c.Output.SanitizedDir) == "" {
		c.Output.SanitizedDir = defaultSanitizedDir
	}
	if strings.TrimSpace(c.Output.OriginalDir) == "" {
		c.Output.OriginalDir = defaultOriginalDir
	}
	if strings.TrimSpace(c.Output.PlotsDir) == "" {
		c.Output.PlotsDir = defaultPlotsDir
	}
	if strings.TrimSpace(c.Output.ReportsDir) == "" {
		c.Output.ReportsDir = defaultReportsDir
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("MBPP_SANITIZED_PATH")); v != "" {
		c.Datasets.SanitizedPath = v
	}
	if v := strings.TrimSpace(os.Getenv("MBPP_ORIGINAL_PATH")); v != "" {
		c.Datasets.OriginalPath = v
	}
	if v := strings.TrimSpace(os.Getenv("MBPP_DB_PATH")); v != "" {
		c.Storage.Path = v
	}
}
