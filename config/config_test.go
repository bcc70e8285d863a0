package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExportAndLoad(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "config.hcl")

	// Test Export
	defaultCfg := DefaultConfig()
	defaultCfg.ListenAddr = ":9090"
	defaultCfg.DefaultMode = "append"
	err = Export(configPath, defaultCfg)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Test Load
	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loadedCfg.ListenAddr != ":9090" {
		t.Errorf("expected ListenAddr :9090, got %s", loadedCfg.ListenAddr)
	}
	if loadedCfg.DefaultMode != "append" {
		t.Errorf("expected DefaultMode append, got %s", loadedCfg.DefaultMode)
	}
}

func TestLoadDefaults(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test_empty")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "empty.hcl")
	err = os.WriteFile(configPath, []byte(""), 0644)
	if err != nil {
		t.Fatalf("failed to write empty config: %v", err)
	}

	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loadedCfg.DefaultMode != "overwrite" {
		t.Errorf("expected default mode overwrite, got %s", loadedCfg.DefaultMode)
	}
	if loadedCfg.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr :8080, got %s", loadedCfg.ListenAddr)
	}
}
