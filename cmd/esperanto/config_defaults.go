package main

import (
	"github.com/jvdl/esperanto/internal/config"
	"github.com/spf13/cobra"
)

// loadProjectConfig discovers and loads a project config file relative to
// targetPath (spec §4.9 config precedence: CLI flags win, config file fills
// in anything left at its flag default). A discovery miss returns
// config.DefaultConfig(), never an error, so transpile/bundle stay usable
// with no config file present.
func loadProjectConfig(targetPath string) *config.Config {
	cfg, err := config.LoadConfigWithTarget("", targetPath)
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// flagUnchanged reports whether the named flag was left at its registered
// default, i.e. the user never passed it on the command line.
func flagUnchanged(cmd *cobra.Command, name string) bool {
	return !cmd.Flags().Changed(name)
}
