package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var DefaultProdPatterns = []string{"prod", "production", "prd", "live"}

const (
	defaultRefreshInterval = 10 * time.Second
	defaultPodsTTL         = 5 * time.Second
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
)

// AppConfig holds all configuration for podtree.
type AppConfig struct {
	Namespace       string        `yaml:"namespace"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	ProdPatterns    []string      `yaml:"prod_patterns"`
	Cache           CacheConfig   `yaml:"cache"`
	Log             LogConfig     `yaml:"log"`
	Metrics         MetricsConfig `yaml:"metrics"`
}

// CacheConfig holds TTL settings for cached resources.
type CacheConfig struct {
	PodsTTL time.Duration `yaml:"pods"`
}

// LogConfig selects where and how diagnostics are logged. The terminal
// belongs to the TUI, so logs always go to a file.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		RefreshInterval: defaultRefreshInterval,
		ProdPatterns:    DefaultProdPatterns,
		Cache: CacheConfig{
			PodsTTL: defaultPodsTTL,
		},
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File:   defaultLogFile(),
		},
	}
}

// DefaultPath is ~/.config/podtree/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "podtree", "config.yaml")
}

// LoadConfig loads from DefaultPath.
func LoadConfig() (*AppConfig, error) {
	path := DefaultPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom loads config from a specific file path.
// Returns defaults if the file does not exist.
func LoadConfigFrom(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Apply defaults for zero values
	if len(cfg.ProdPatterns) == 0 {
		cfg.ProdPatterns = DefaultProdPatterns
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.Cache.PodsTTL == 0 {
		cfg.Cache.PodsTTL = defaultPodsTTL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaultLogFormat
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile()
	}

	return cfg, nil
}

func defaultLogFile() string {
	return filepath.Join(os.TempDir(), "podtree.log")
}

// IsProdNamespace checks if a namespace name matches production patterns.
// Matching is done by segment (split on -._) to avoid false positives
// like "product-api" matching "prod".
func IsProdNamespace(namespace string, patterns []string) bool {
	if len(patterns) == 0 {
		patterns = DefaultProdPatterns
	}
	segments := splitSegments(strings.ToLower(namespace))

	for _, p := range patterns {
		p = strings.ToLower(p)
		for _, seg := range segments {
			if seg == p {
				return true
			}
		}
	}
	return false
}

// splitSegments splits a namespace name on common separators.
func splitSegments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '.' || r == '_'
	})
}
