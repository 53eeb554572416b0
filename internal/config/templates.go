package config

// ProjectType represents the type of JavaScript/TypeScript project
type ProjectType string

const (
	ProjectTypeGeneric     ProjectType = "generic"
	ProjectTypeReact       ProjectType = "react"
	ProjectTypeVue         ProjectType = "vue"
	ProjectTypeNodeBackend ProjectType = "node"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds configuration presets for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	LowThreshold    int
	MediumThreshold int
	MaxComplexity   int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{
				"**/*.js",
				"**/*.ts",
				"**/*.jsx",
				"**/*.tsx",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
		},
		ProjectTypeReact: {
			IncludePatterns: []string{
				"**/*.js",
				"**/*.ts",
				"**/*.jsx",
				"**/*.tsx",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/.next/**",
				"**/coverage/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
		},
		ProjectTypeVue: {
			IncludePatterns: []string{
				"**/*.js",
				"**/*.ts",
				"**/*.jsx",
				"**/*.tsx",
				"**/*.vue",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/.nuxt/**",
				"**/coverage/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
		},
		ProjectTypeNodeBackend: {
			IncludePatterns: []string{
				"**/*.js",
				"**/*.ts",
				"**/*.mjs",
				"**/*.cjs",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/test/**",
				"**/tests/**",
				"**/__tests__/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			LowThreshold:    15,
			MediumThreshold: 30,
			MaxComplexity:   0, // No limit
		},
		StrictnessStandard: {
			LowThreshold:    10,
			MediumThreshold: 20,
			MaxComplexity:   0, // No limit
		},
		StrictnessStrict: {
			LowThreshold:    5,
			MediumThreshold: 10,
			MaxComplexity:   15,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as JSONC
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	projectPresets := GetProjectPresets()
	preset := projectPresets[projectType]

	// Build include patterns string
	includePatterns := formatJSONArray(preset.IncludePatterns)
	excludePatterns := formatJSONArray(preset.ExcludePatterns)

	strictBool := "true"
	if strictness == StrictnessRelaxed {
		strictBool = "false"
	}

	return `{
  // esperanto Configuration
  // Documentation: https://github.com/jvdl/esperanto

  // ============================================================================
  // TRANSPILE / BUNDLE DEFAULTS
  // ============================================================================
  // Defaults for the transpile and bundle commands, overridable per invocation
  // by CLI flags.
  "transpile": {
    // Output wrapper format: "amd", "cjs", "umd"
    "format": "umd",

    // Support named/namespace imports and exports. Disable for a smaller,
    // default-export-only wrapper.
    "strict": ` + strictBool + `,

    // Include each module's own id as the first define() argument in AMD
    // output
    "amdModuleIds": false,

    // Generate a source map alongside the output
    "sourceMap": false,

    // Per-module id overrides for the names assigned to a bundle's modules
    "nameOverrides": {},

    // Module ids to always treat as external during a bundle, even if they
    // resolve on disk
    "skip": []
  },

  // ============================================================================
  // PERFORMANCE
  // ============================================================================
  "performance": {
    // Maximum number of goroutines used to load a bundle's files concurrently
    "maxGoroutines": 4,

    // Parallel executor timeout, in seconds (bundle loads do not use it)
    "timeoutSeconds": 300
  },

  // ============================================================================
  // OUTPUT SETTINGS
  // ============================================================================
  "output": {
    // Output format for CLI reports: "text", "json", "yaml", "csv"
    "format": "text",

    // Show detailed breakdown of results
    "showDetails": true
  },

  // ============================================================================
  // ANALYSIS SCOPE
  // ============================================================================
  // Controls which files the deps command walks
  "analysis": {
    // File patterns to include (glob patterns)
    "include": ` + includePatterns + `,

    // File patterns to exclude (glob patterns)
    "exclude": ` + excludePatterns + `,

    // Follow symlinks while walking directories
    "followSymlinks": false
  }
}
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `{
  // esperanto Configuration (minimal)
  // See full options: https://github.com/jvdl/esperanto

  "transpile": {
    "format": "umd",
    "strict": true
  },

  "performance": {
    "maxGoroutines": 4
  },

  "analysis": {
    "include": ["**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx"],
    "exclude": ["**/node_modules/**", "**/dist/**"]
  }
}
`
}

// formatJSONArray formats a string slice as a JSON array with proper indentation
func formatJSONArray(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	result := "[\n"
	for i, item := range items {
		result += `      "` + item + `"`
		if i < len(items)-1 {
			result += ","
		}
		result += "\n"
	}
	result += "    ]"
	return result
}
