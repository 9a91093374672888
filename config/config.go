// ABOUTME: Configuration management for ranking engine defaults
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

// Package config loads the albumseq TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EngineConfig holds tunable defaults for the CLI and the ranking engine
type EngineConfig struct {
	ContextPath   string `toml:"context_path"`   // Context file used when --context is not given
	DefaultCount  int    `toml:"default_count"`  // Proposals to show when --count is not given
	Workers       int    `toml:"workers"`        // Parallel evaluation workers, 0 = one per CPU, 1 = sequential
	MaxTracks     int    `toml:"max_tracks"`     // Refuse exhaustive search above this many tracks, 0 = no limit
	BatchSize     int    `toml:"batch_size"`     // Orderings per worker task
	ProgressEvery int    `toml:"progress_every"` // Orderings between progress updates
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/albumseq/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./albumseq.toml"); err == nil {
		return "./albumseq.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./albumseq.toml"
	}

	return filepath.Join(home, ".config", "albumseq", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist, returns default config. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}

		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config EngineConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() EngineConfig {
	return EngineConfig{
		ContextPath:   "context.json",
		DefaultCount:  15,
		Workers:       0,
		MaxTracks:     10,
		BatchSize:     512,
		ProgressEvery: 5000,
	}
}

// Validate rejects negative values
func (c EngineConfig) Validate() error {
	switch {
	case c.DefaultCount < 0:
		return fmt.Errorf("invalid config: default_count must be >= 0, got %d", c.DefaultCount)
	case c.Workers < 0:
		return fmt.Errorf("invalid config: workers must be >= 0, got %d", c.Workers)
	case c.MaxTracks < 0:
		return fmt.Errorf("invalid config: max_tracks must be >= 0, got %d", c.MaxTracks)
	case c.BatchSize < 0:
		return fmt.Errorf("invalid config: batch_size must be >= 0, got %d", c.BatchSize)
	case c.ProgressEvery < 0:
		return fmt.Errorf("invalid config: progress_every must be >= 0, got %d", c.ProgressEvery)
	}

	return nil
}
