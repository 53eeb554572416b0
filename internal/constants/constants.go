package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "esperanto"

	// ConfigFileName is the default config file name
	ConfigFileName = ".esperanto.toml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "ESPERANTO"
)

