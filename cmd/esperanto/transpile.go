package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jvdl/esperanto/app"
	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/service"
	"github.com/spf13/cobra"
)

var (
	transpileFormat        string
	transpileName          string
	transpileStrict        bool
	transpileAMDModuleIDs  bool
	transpileOutput        string
	transpileBanner        string
	transpileFooter        string
	transpileSourceMap     bool
	transpileSourceMapFile string
)

func transpileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transpile <file>",
		Short: "Rewrite one ES module's import/export syntax into a legacy module wrapper",
		Long: `Rewrite a single ES module's import and export statements into an AMD,
CommonJS, or UMD wrapper, leaving every other import specifier as an opaque
external dependency.

Examples:
  esperanto transpile --format cjs src/widget.js
  esperanto transpile --format umd --name widget -o dist/widget.js src/widget.js`,
		Args: cobra.ExactArgs(1),
		RunE: runTranspile,
	}

	cmd.Flags().StringVarP(&transpileFormat, "format", "f", "umd",
		"Output wrapper format: amd, cjs, umd")
	cmd.Flags().StringVar(&transpileName, "name", "",
		"Module name (required for umd without an inferable file name)")
	cmd.Flags().BoolVar(&transpileStrict, "strict", true,
		"Support named/namespace imports and exports")
	cmd.Flags().BoolVar(&transpileAMDModuleIDs, "amd-module-ids", false,
		"Include this module's own id as the first define() argument")
	cmd.Flags().StringVarP(&transpileOutput, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVar(&transpileBanner, "banner", "",
		"Text to prepend to the output")
	cmd.Flags().StringVar(&transpileFooter, "footer", "",
		"Text to append to the output")
	cmd.Flags().BoolVar(&transpileSourceMap, "source-map", false,
		"Generate a source map alongside the output")
	cmd.Flags().StringVar(&transpileSourceMapFile, "source-map-file", "",
		"Source map output path (required when --source-map is set)")

	return cmd
}

func runTranspile(cmd *cobra.Command, args []string) error {
	uc := app.NewTranspileUseCase(service.NewTranspileService())

	projectCfg := loadProjectConfig(args[0])
	if flagUnchanged(cmd, "format") {
		transpileFormat = projectCfg.Transpile.Format
	}
	if flagUnchanged(cmd, "strict") {
		transpileStrict = projectCfg.Transpile.Strict
	}
	if flagUnchanged(cmd, "amd-module-ids") {
		transpileAMDModuleIDs = projectCfg.Transpile.AMDModuleIDs
	}
	if flagUnchanged(cmd, "source-map") {
		transpileSourceMap = projectCfg.Transpile.SourceMap
	}

	cfg := app.TranspileConfig{
		TranspileOptions: domain.TranspileOptions{
			Format:       domain.Format(transpileFormat),
			Name:         transpileName,
			AMDModuleIDs: transpileAMDModuleIDs,
			Strict:       transpileStrict,
			Banner:       transpileBanner,
			Footer:       transpileFooter,
			SourceMap:    transpileSourceMap,
		},
		InputPath:     args[0],
		OutputPath:    transpileOutput,
		SourceMapFile: transpileSourceMapFile,
	}

	result, err := uc.Execute(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("transpile failed: %w", err)
	}

	if transpileOutput == "" {
		fmt.Fprintln(os.Stdout, result.Code)
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return nil
}
