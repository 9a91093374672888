// ABOUTME: Tests for configuration load/save functionality
// ABOUTME: Validates TOML parsing and default config fallback behavior

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultCount != 15 {
		t.Errorf("Expected DefaultCount 15, got %d", cfg.DefaultCount)
	}

	if cfg.MaxTracks != 10 {
		t.Errorf("Expected MaxTracks 10, got %d", cfg.MaxTracks)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albumseq.toml")

	cfg := DefaultConfig()
	cfg.Workers = 3
	cfg.ContextPath = "/tmp/albums.json"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded != cfg {
		t.Errorf("Config mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albumseq.toml")
	if err := os.WriteFile(path, []byte("max_tracks = 8\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.MaxTracks != 8 {
		t.Errorf("Expected MaxTracks 8, got %d", cfg.MaxTracks)
	}

	// Unset keys keep defaults
	if cfg.DefaultCount != 15 {
		t.Errorf("Expected default DefaultCount, got %d", cfg.DefaultCount)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albumseq.toml")

	for _, content := range []string{"workers = -1\n", "not toml ==="} {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err == nil {
			t.Errorf("Expected error for %q", content)
		}

		if cfg != DefaultConfig() {
			t.Errorf("Expected defaults on error, got %+v", cfg)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}

	if cfg != DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}
