package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig should not return nil")
	}

	// Verify transpile defaults
	if config.Transpile.Format != "umd" {
		t.Errorf("Expected Format 'umd', got '%s'", config.Transpile.Format)
	}
	if !config.Transpile.Strict {
		t.Error("Strict should be true by default")
	}
	if config.Transpile.AMDModuleIDs {
		t.Error("AMDModuleIDs should be false by default")
	}

	// Verify performance defaults
	if config.Performance.MaxGoroutines != 4 {
		t.Errorf("Expected MaxGoroutines 4, got %d", config.Performance.MaxGoroutines)
	}
	if config.Performance.TimeoutSeconds != 300 {
		t.Errorf("Expected TimeoutSeconds 300, got %d", config.Performance.TimeoutSeconds)
	}

	// Verify output defaults
	if config.Output.Format != "text" {
		t.Errorf("Expected Format 'text', got '%s'", config.Output.Format)
	}

	// Verify analysis defaults
	if !config.Analysis.Recursive {
		t.Error("Recursive should be true by default")
	}
	if len(config.Analysis.IncludePatterns) == 0 {
		t.Error("IncludePatterns should not be empty")
	}
	if len(config.Analysis.ExcludePatterns) == 0 {
		t.Error("ExcludePatterns should not be empty")
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	config := DefaultConfig()

	err := config.Validate()
	if err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidTranspileFormat(t *testing.T) {
	config := DefaultConfig()
	config.Transpile.Format = "esm"

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for invalid transpile format")
	}
}

func TestConfig_Validate_InvalidMaxGoroutines(t *testing.T) {
	config := DefaultConfig()
	config.Performance.MaxGoroutines = -1

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for negative max_goroutines")
	}
}

func TestConfig_Validate_InvalidTimeoutSeconds(t *testing.T) {
	config := DefaultConfig()
	config.Performance.TimeoutSeconds = -1

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for negative timeout_seconds")
	}
}

func TestConfig_Validate_InvalidOutputFormat(t *testing.T) {
	config := DefaultConfig()
	config.Output.Format = "xml"

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for invalid output format")
	}
}

func TestConfig_Validate_EmptyIncludePatterns(t *testing.T) {
	config := DefaultConfig()
	config.Analysis.IncludePatterns = []string{}

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for empty include patterns")
	}
}

func TestLoadConfig_Default(t *testing.T) {
	// Load with empty path should return default
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path failed: %v", err)
	}
	if config == nil {
		t.Fatal("Config should not be nil")
	}

	// Verify it matches default
	defaultCfg := DefaultConfig()
	if config.Transpile.Format != defaultCfg.Transpile.Format {
		t.Error("Loaded config should match default")
	}
}

func TestLoadConfig_NonExistent(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-existent config file")
	}
}

func TestSearchConfigInDirectory(t *testing.T) {
	// Create temp directory with config file
	tempDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Create a config file
	configPath := filepath.Join(tempDir, "esperanto.yaml")
	err = os.WriteFile(configPath, []byte("transpile:\n  format: cjs"), 0644)
	if err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Search for config
	candidates := []string{"esperanto.yaml", "esperanto.yml"}
	result := searchConfigInDirectory(tempDir, candidates)

	if result != configPath {
		t.Errorf("Expected %s, got %s", configPath, result)
	}

	// Search in empty directory
	emptyDir, _ := os.MkdirTemp("", "empty_test")
	defer os.RemoveAll(emptyDir)

	result = searchConfigInDirectory(emptyDir, candidates)
	if result != "" {
		t.Error("Expected empty string for directory without config")
	}
}

func TestConfig_ValidOutputFormats(t *testing.T) {
	config := DefaultConfig()
	validFormats := []string{"text", "json", "yaml", "csv", "html", "dot"}

	for _, format := range validFormats {
		config.Output.Format = format
		err := config.Validate()
		if err != nil {
			t.Errorf("Format '%s' should be valid, got error: %v", format, err)
		}
	}
}

func TestConfig_ValidTranspileFormats(t *testing.T) {
	config := DefaultConfig()
	validFormats := []string{"amd", "cjs", "umd"}

	for _, format := range validFormats {
		config.Transpile.Format = format
		err := config.Validate()
		if err != nil {
			t.Errorf("Transpile format '%s' should be valid, got error: %v", format, err)
		}
	}
}

func TestLoadConfigWithTarget_EmptyPaths(t *testing.T) {
	// Both paths empty - should use defaults
	config, err := LoadConfigWithTarget("", "")
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}
	if config == nil {
		t.Fatal("Config should not be nil")
	}
}

func TestAnalysisConfig_Defaults(t *testing.T) {
	config := DefaultConfig()

	// Check include patterns
	hasJsPattern := false
	for _, pattern := range config.Analysis.IncludePatterns {
		if pattern == "**/*.js" {
			hasJsPattern = true
			break
		}
	}
	if !hasJsPattern {
		t.Error("Include patterns should contain **/*.js")
	}

	// Check exclude patterns
	hasNodeModules := false
	for _, pattern := range config.Analysis.ExcludePatterns {
		if pattern == "node_modules" {
			hasNodeModules = true
			break
		}
	}
	if !hasNodeModules {
		t.Error("Exclude patterns should contain node_modules")
	}
}

func TestSaveConfig(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_save_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "esperanto.yaml")
	cfg := DefaultConfig()
	cfg.Transpile.Format = "cjs"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Transpile.Format != "cjs" {
		t.Errorf("Expected Format 'cjs', got '%s'", loaded.Transpile.Format)
	}
}
