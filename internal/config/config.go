package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jvdl/esperanto/internal/constants"
	"github.com/spf13/viper"
)

// Config represents the main configuration structure
type Config struct {
	// Transpile holds ES-module-to-legacy-module transpile/bundle defaults
	Transpile TranspileConfig `json:"transpile,omitempty" mapstructure:"transpile" yaml:"transpile"`

	// Performance holds concurrency and timeout tuning for parallel file I/O
	Performance PerformanceConfig `json:"performance,omitempty" mapstructure:"performance" yaml:"performance"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds general analysis configuration
	Analysis AnalysisConfig `json:"analysis,omitempty" mapstructure:"analysis" yaml:"analysis"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: json, yaml, text, csv
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to show detailed breakdown
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// Directory specifies the output directory for reports (empty = stdout)
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file/directory patterns deps' file walk
	// (collectJSFiles) skips; a bundle's loader does not consult them
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// FollowSymlinks controls whether to follow symbolic links
	FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
}

// PerformanceConfig tunes service.ParallelExecutorImpl's bounded-concurrency
// worker pool and the internal/transpile loader's concurrent file reads used
// for a bundle's multi-file load.
type PerformanceConfig struct {
	// MaxGoroutines caps concurrent file loads; <= 0 falls back to
	// runtime.NumCPU() / service.DefaultMaxConcurrency.
	MaxGoroutines int `json:"maxGoroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a single Execute call; <= 0 falls back to
	// service.DefaultTimeout.
	TimeoutSeconds int `json:"timeoutSeconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// TranspileConfig holds the project-wide defaults for the transpile and
// bundle commands (spec §4.9), overridable per-invocation by CLI flags.
type TranspileConfig struct {
	// Format is the default wrapper template: amd, cjs, or umd.
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Strict enables named/namespace import and export support (spec §7's
	// strict-mode violation check); false restricts a module to a single
	// default export and plain default/side-effect imports.
	Strict bool `json:"strict" mapstructure:"strict" yaml:"strict"`

	// AMDModuleIDs includes a module's own id as the first define() argument.
	AMDModuleIDs bool `json:"amdModuleIds" mapstructure:"amd_module_ids" yaml:"amd_module_ids"`

	// SourceMap enables source-map-v3 generation alongside the output.
	SourceMap bool `json:"sourceMap" mapstructure:"source_map" yaml:"source_map"`

	// NameOverrides pins specific module ids to an explicit output name
	// (domain.BundleRequest.NameOverrides), keyed by module id.
	NameOverrides map[string]string `json:"nameOverrides,omitempty" mapstructure:"name_overrides" yaml:"name_overrides"`

	// Skip lists module ids to always treat as external, never resolved
	// from disk, even when a matching file exists.
	Skip []string `json:"skip,omitempty" mapstructure:"skip" yaml:"skip"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Transpile: TranspileConfig{
			Format:       "umd",
			Strict:       true,
			AMDModuleIDs: false,
			SourceMap:    false,
		},

		Performance: PerformanceConfig{
			MaxGoroutines:  4,
			TimeoutSeconds: 300,
		},

		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{
				"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx",
				"**/*.mjs", "**/*.cjs", "**/*.mts", "**/*.cts",
			},
			ExcludePatterns: []string{
				// Package managers and dependencies
				"node_modules",
				"vendor",
				// Build outputs
				"dist",
				"build",
				"out",
				".output",
				// Framework-specific
				".next",
				".nuxt",
				".vercel",
				// Cache directories
				".cache",
				".turbo",
				"coverage",
				// Version control
				".git",
				// Minified and bundled files
				"*.min.js",
				"*.min.mjs",
				"*.min.cjs",
				"*.bundle.js",
				// Source maps
				"*.map",
			},
			Recursive:      true,
			FollowSymlinks: false,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// discoverConfigFile finds the appropriate config file path
// Single responsibility: configuration file discovery only
func discoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// loadConfigFromFile reads and parses a configuration file
// Single responsibility: file loading and parsing only
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context
// Orchestrates discovery and loading but delegates specific concerns
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	// If no config path specified, discover one
	if configPath == "" {
		configPath = discoverConfigFile(targetPath)
	}

	// Load the configuration from the determined path
	return loadConfigFromFile(configPath)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations
// targetPath is the path being transpiled or bundled (file or directory)
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		"esperanto.yaml",
		"esperanto.yml",
		constants.ConfigFileName,
		".esperanto.yml",
		"esperanto.json",
		".esperanto.json",
	}

	// If targetPath is provided, search from there upward
	if targetPath != "" {
		// Convert to absolute path
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			// Search from target directory up to root with robust termination
			// Handle Windows edge cases: volume roots (C:\), UNC paths (\\server\share), long paths
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				// Robust termination conditions for cross-platform compatibility
				parent := filepath.Dir(dir)
				if parent == dir || // Unix-style root reached (/), Windows UNC root (\\server)
					dir == volume || // Windows volume root reached (C:\)
					(volume != "" && dir == volume+string(filepath.Separator)) { // Alternative volume root format
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory (Linux/Mac standard)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	// Check ~/.config/esperanto/ (XDG default)
	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}

		// Check home directory (backward compatibility)
		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	// Check ESPERANTO_CONFIG environment variable as fallback
	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"amd": true,
		"cjs": true,
		"umd": true,
	}
	if !validFormats[c.Transpile.Format] {
		return fmt.Errorf("invalid transpile.format '%s', must be one of: amd, cjs, umd", c.Transpile.Format)
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}

	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	// Validate output format
	validOutputFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
		"html": true,
		"dot":  true,
	}

	if !validOutputFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv, html, dot", c.Output.Format)
	}

	// Validate include patterns (at least one must be specified)
	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set all config values in viper
	v.Set("transpile", config.Transpile)
	v.Set("performance", config.Performance)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}
