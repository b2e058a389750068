// Package config loads the tmenu configuration from the XDG config
// directory, layering the file over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/kk-code-lab/tmenu/internal/engine"
)

// Scroll method names accepted in the configuration.
const (
	ScrollPaged      = "paged"
	ScrollContinuous = "continuous"
)

const (
	defaultLines       = 15
	defaultColumns     = 1
	defaultPrompt      = ">"
	defaultCacheTTL    = 5 * time.Minute
	defaultHistorySize = 100
)

type Config struct {
	Modes         []string            `mapstructure:"modes"`
	Lines         int                 `mapstructure:"lines"`
	Columns       int                 `mapstructure:"columns"`
	Prompt        string              `mapstructure:"prompt"`
	CaseSensitive bool                `mapstructure:"case-sensitive"`
	Sort          bool                `mapstructure:"sort"`
	AutoSelect    bool                `mapstructure:"auto-select"`
	Cycle         bool                `mapstructure:"cycle"`
	FixedNumLines bool                `mapstructure:"fixed-num-lines"`
	Scroll        string              `mapstructure:"scroll"`
	Threads       int                 `mapstructure:"threads"`
	Terminal      string              `mapstructure:"terminal"`
	CacheTTL      time.Duration       `mapstructure:"cache-ttl"`
	HistorySize   int                 `mapstructure:"history-size"`
	Keys          map[string][]string `mapstructure:"keys"`
}

func defaultConfig() *Config {
	return &Config{
		Modes:       []string{"apps", "run"},
		Lines:       defaultLines,
		Columns:     defaultColumns,
		Prompt:      defaultPrompt,
		Cycle:       true,
		Scroll:      ScrollPaged,
		Terminal:    defaultTerminal(),
		CacheTTL:    defaultCacheTTL,
		HistorySize: defaultHistorySize,
	}
}

func defaultTerminal() string {
	if term := os.Getenv("TERMINAL"); term != "" {
		return term
	}
	return "xterm"
}

// Load reads the configuration. With an empty path the file is searched in
// $XDG_CONFIG_HOME/tmenu and ~/.config/tmenu and is optional; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "tmenu"))
		}
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tmenu"))
	}

	v.SetDefault("modes", cfg.Modes)
	v.SetDefault("lines", cfg.Lines)
	v.SetDefault("columns", cfg.Columns)
	v.SetDefault("prompt", cfg.Prompt)
	v.SetDefault("cycle", cfg.Cycle)
	v.SetDefault("scroll", cfg.Scroll)
	v.SetDefault("terminal", cfg.Terminal)
	v.SetDefault("cache-ttl", cfg.CacheTTL)
	v.SetDefault("history-size", cfg.HistorySize)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
		// No config file anywhere: defaults apply.
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine or layout cannot work with.
func (c *Config) Validate() error {
	if len(c.Modes) == 0 {
		return errors.New("config: at least one mode is required")
	}
	if c.Lines < 1 {
		return fmt.Errorf("config: lines must be positive, got %d", c.Lines)
	}
	if c.Columns < 1 {
		return fmt.Errorf("config: columns must be positive, got %d", c.Columns)
	}
	if c.Threads < 0 {
		return fmt.Errorf("config: threads must not be negative, got %d", c.Threads)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("config: history-size must not be negative, got %d", c.HistorySize)
	}
	switch c.Scroll {
	case ScrollPaged, ScrollContinuous:
	default:
		return fmt.Errorf("config: unknown scroll method %q", c.Scroll)
	}
	return nil
}

// ScrollMethod converts the configured scroll name to the engine's enum.
func (c *Config) ScrollMethod() engine.ScrollMethod {
	if c.Scroll == ScrollContinuous {
		return engine.ScrollContinuous
	}
	return engine.ScrollPaged
}

// CacheDir returns the directory holding per-mode history files.
func CacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tmenu"), nil
}
