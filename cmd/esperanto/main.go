package main

import (
	"fmt"
	"os"

	"github.com/jvdl/esperanto/internal/constants"
	"github.com/jvdl/esperanto/internal/version"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

func main() {
	rootCmd := &cobra.Command{
		Use:   constants.ToolName,
		Short: "esperanto - ES module to legacy module transpiler",
		Long: `esperanto rewrites JavaScript/TypeScript ES module import/export syntax
into AMD, CommonJS, or UMD wrappers, either one file at a time or bundled
across a whole module graph.`,
		Version: Version,
	}

	// Add subcommands
	rootCmd.AddCommand(transpileCmd())
	rootCmd.AddCommand(bundleCmd())
	rootCmd.AddCommand(depsCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("esperanto version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
