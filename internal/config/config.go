package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the full extraction configuration. The pipeline
// treats a loaded, validated Config as read-only input.
type Config struct {
	Repo         string          `yaml:"repo"`
	State        string          `yaml:"state"`
	Range        []int           `yaml:"range"`
	OutputDir    string          `yaml:"output_dir"`
	CommitFields []string        `yaml:"commit_fields"`
	IssueFields  []string        `yaml:"issue_fields"`
	PRFields     []string        `yaml:"pr_fields"`
	Auth         AuthConfig      `yaml:"auth"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
	SkipMissing  *bool           `yaml:"skip_missing"`
}

// AuthConfig contains API authentication settings.
type AuthConfig struct {
	// Token supports ${VAR} expansion; when empty, the ambient gh
	// credentials are used.
	Token string `yaml:"token"`
}

// RateLimitConfig contains throttling settings.
type RateLimitConfig struct {
	RequestsPerSecond   float64 `yaml:"requests_per_second"`
	MinRemaining        int     `yaml:"min_remaining"`
	SafetyMarginSeconds int     `yaml:"safety_margin_seconds"`
}

// Load reads and parses config from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// FindConfigPath looks for config in common locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		"gh-miner.yaml",
		"gh-miner.yml",
		".github/gh-miner.yaml",
		".github/gh-miner.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "gh-miner", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields.
func applyDefaults(cfg *Config) {
	if cfg.State == "" {
		cfg.State = "all"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 1.2
	}
	if cfg.RateLimit.MinRemaining == 0 {
		cfg.RateLimit.MinRemaining = 5
	}
	if cfg.RateLimit.SafetyMarginSeconds == 0 {
		cfg.RateLimit.SafetyMarginSeconds = 3
	}
	if cfg.SkipMissing == nil {
		skip := true
		cfg.SkipMissing = &skip
	}
}

// RangeLow returns the inclusive lower bound of the item range.
func (cfg *Config) RangeLow() int {
	if len(cfg.Range) == 0 {
		return 0
	}
	return cfg.Range[0]
}

// RangeHigh returns the inclusive upper bound of the item range.
func (cfg *Config) RangeHigh() int {
	if len(cfg.Range) < 2 {
		return cfg.RangeLow()
	}
	return cfg.Range[1]
}

// SkipMissingItems reports whether missing items are skipped with a
// diagnostic instead of failing the run.
func (cfg *Config) SkipMissingItems() bool {
	return cfg.SkipMissing == nil || *cfg.SkipMissing
}

// SafetyMargin returns the extra wait added after a quota reset time.
func (cfg *Config) SafetyMargin() time.Duration {
	return time.Duration(cfg.RateLimit.SafetyMarginSeconds) * time.Second
}
