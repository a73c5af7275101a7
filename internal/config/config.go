package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"stackcanvas/internal/history"
	"stackcanvas/internal/logging"
)

// Config is the on-disk configuration.
type Config struct {
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

type HistoryConfig struct {
	// MaxSize bounds the number of undoable entries.
	MaxSize int `yaml:"max_size"`
	// MergeThreshold is the window in which moves of the same block are
	// coalesced into one entry. Zero disables merging.
	MergeThreshold time.Duration `yaml:"merge_threshold"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		History: HistoryConfig{
			MaxSize:        history.DefaultMaxSize,
			MergeThreshold: history.DefaultMergeThreshold,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not
// an error; the defaults are returned.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.History.MaxSize < 1 {
		return fmt.Errorf("config: history.max_size must be at least 1, got %d", c.History.MaxSize)
	}
	if c.History.MergeThreshold < 0 {
		return fmt.Errorf("config: history.merge_threshold must not be negative, got %s", c.History.MergeThreshold)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// HistoryOptions converts the history section into engine options.
func (c Config) HistoryOptions() []history.Option {
	return []history.Option{
		history.WithMaxSize(c.History.MaxSize),
		history.WithMergeThreshold(c.History.MergeThreshold),
	}
}
