package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test output defaults
	if cfg.Output.Dir != "" {
		t.Errorf("expected empty output dir, got %s", cfg.Output.Dir)
	}

	// Test mesh defaults
	if cfg.Mesh.AllowCountMismatch {
		t.Error("expected allow_count_mismatch to be false by default")
	}

	// Test texture defaults
	if !cfg.Textures.Enabled {
		t.Error("expected textures to be enabled by default")
	}
	if cfg.Textures.MaxSize != 0 {
		t.Errorf("expected max size 0, got %d", cfg.Textures.MaxSize)
	}
	if cfg.Textures.WebPPreview {
		t.Error("expected webp_preview to be false by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
output:
  dir: "/tmp/baked"

mesh:
  allow_count_mismatch: true

textures:
  enabled: false
  max_size: 512
  webp_preview: true
  fail_on_error: true

logging:
  level: "debug"
  log_file: "bake.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Output.Dir != "/tmp/baked" {
		t.Errorf("expected output dir /tmp/baked, got %s", cfg.Output.Dir)
	}
	if !cfg.Mesh.AllowCountMismatch {
		t.Error("expected allow_count_mismatch to be true")
	}
	if cfg.Textures.Enabled {
		t.Error("expected textures to be disabled")
	}
	if cfg.Textures.MaxSize != 512 {
		t.Errorf("expected max size 512, got %d", cfg.Textures.MaxSize)
	}
	if !cfg.Textures.WebPPreview {
		t.Error("expected webp_preview to be true")
	}
	if !cfg.Textures.FailOnError {
		t.Error("expected fail_on_error to be true")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "bake.log" {
		t.Errorf("expected log file 'bake.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	if err := os.WriteFile(configPath, []byte("textures:\n  max_size: 256\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Keys absent from the file keep their defaults
	if cfg.Textures.MaxSize != 256 {
		t.Errorf("expected max size 256 from file, got %d", cfg.Textures.MaxSize)
	}
	if !cfg.Textures.Enabled {
		t.Error("expected textures to stay enabled")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
textures:
  max_size: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/assetbake.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFileEmptyPath(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create assetbake.yaml in current directory
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("textures:\n  max_size: 64\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find assetbake.yaml in current directory")
	}
}

func TestOutputDir(t *testing.T) {
	cfg := Default()

	dir, err := cfg.OutputDir()
	if err != nil {
		t.Fatalf("OutputDir failed: %v", err)
	}
	if filepath.Base(dir) != "output" {
		t.Errorf("expected default dir to end in 'output', got %s", dir)
	}

	cfg.Output.Dir = t.TempDir()
	dir, err = cfg.OutputDir()
	if err != nil {
		t.Fatalf("OutputDir failed: %v", err)
	}
	if dir != cfg.Output.Dir {
		t.Errorf("expected configured dir %s, got %s", cfg.Output.Dir, dir)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Textures.MaxSize = 1024
	cfg.Logging.Level = "warn"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}
