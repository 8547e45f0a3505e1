// Package config handles the global refdiff configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/refdiff/config.yml.
// Zero values mean "use the default".
type Config struct {
	Threshold  float64 `yaml:"threshold,omitempty"`   // fuzzy similarity cutoff
	Listen     string  `yaml:"listen,omitempty"`      // serve listen address
	UploadsDir string  `yaml:"uploads_dir,omitempty"` // where serve stores uploads
	LogLevel   string  `yaml:"log_level,omitempty"`   // zap level for serve
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "refdiff"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// DefaultThreshold is the fuzzy similarity cutoff when unset.
	DefaultThreshold = 0.90
	// DefaultListen is the serve listen address when unset.
	DefaultListen = ":8080"
	// DefaultLogLevel is the serve log level when unset.
	DefaultLogLevel = "info"
)

// Keys lists the settable configuration keys.
var Keys = []string{"threshold", "listen", "uploads_dir", "log_level"}

// cache holds the loaded config for the process lifetime.
var cache *Config

// Path returns the path to the global config file. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/refdiff/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the global configuration. A missing file yields defaults, not
// an error. Environment variables REFDIFF_LISTEN, REFDIFF_UPLOADS_DIR,
// REFDIFF_THRESHOLD and REFDIFF_LOG_LEVEL override file values.
func Load() (*Config, error) {
	if cache != nil {
		return cache, nil
	}

	cfg := &Config{}
	path := Path()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	cache = cfg
	return cfg, nil
}

// Save writes the configuration to the global config file, creating the
// directory if needed.
func Save(cfg *Config) error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	cache = nil // force reload after write
	return nil
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "threshold":
		return strconv.FormatFloat(c.Threshold, 'g', -1, 64), nil
	case "listen":
		return c.Listen, nil
	case "uploads_dir":
		return c.UploadsDir, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid: %v)", key, Keys)
	}
}

// Set updates a configuration key from a string value.
func (c *Config) Set(key, value string) error {
	switch key {
	case "threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 || f > 1 {
			return fmt.Errorf("threshold must be a number in (0, 1], got %q", value)
		}
		c.Threshold = f
	case "listen":
		c.Listen = value
	case "uploads_dir":
		c.UploadsDir = value
	case "log_level":
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %v)", key, Keys)
	}
	return nil
}

// DataDir returns the directory for server state (session database,
// uploads). Respects XDG_CACHE_HOME, defaults to ~/.cache/refdiff.
func DataDir() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), ConfigDir)
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, ConfigDir)
}

// SessionDBPath returns the path of the session database.
func SessionDBPath() string {
	return filepath.Join(DataDir(), "sessions.db")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("REFDIFF_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("REFDIFF_UPLOADS_DIR"); v != "" {
		cfg.UploadsDir = v
	}
	if v := os.Getenv("REFDIFF_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("REFDIFF_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.Threshold = f
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.UploadsDir == "" {
		cfg.UploadsDir = filepath.Join(DataDir(), "uploads")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// ResetCache clears the cached config. Only used by tests.
func ResetCache() {
	cache = nil
}
