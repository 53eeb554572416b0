package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jvdl/esperanto/app"
	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/service"
	"github.com/spf13/cobra"
)

var (
	bundleBase          string
	bundleFormat        string
	bundleName          string
	bundleStrict        bool
	bundleAMDModuleIDs  bool
	bundleSkip          []string
	bundleOutput        string
	bundleBanner        string
	bundleFooter        string
	bundleSourceMap     bool
	bundleSourceMapFile string
	bundleMaxGoroutines int
)

func bundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle <entry>",
		Short: "Discover an ES module graph and emit one legacy-module wrapper",
		Long: `Discover every module reachable from an entry file, flatten the entry's
export surface across re-export chains, and emit one AMD, CommonJS, or UMD
wrapper covering the whole graph.

Examples:
  esperanto bundle --format cjs -o dist/bundle.js src/index.js
  esperanto bundle --format umd --name myLib src/index.js`,
		Args: cobra.ExactArgs(1),
		RunE: runBundle,
	}

	cmd.Flags().StringVar(&bundleBase, "base", "",
		"Base directory module ids are resolved relative to (default: entry's directory)")
	cmd.Flags().StringVarP(&bundleFormat, "format", "f", "umd",
		"Output wrapper format: amd, cjs, umd")
	cmd.Flags().StringVar(&bundleName, "name", "",
		"Module name (required for umd)")
	cmd.Flags().BoolVar(&bundleStrict, "strict", true,
		"Support named/namespace imports and exports")
	cmd.Flags().BoolVar(&bundleAMDModuleIDs, "amd-module-ids", false,
		"Include the bundle's own name as the first define() argument")
	cmd.Flags().StringSliceVar(&bundleSkip, "skip", nil,
		"Module ids to always treat as external")
	cmd.Flags().StringVarP(&bundleOutput, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVar(&bundleBanner, "banner", "",
		"Text to prepend to the output")
	cmd.Flags().StringVar(&bundleFooter, "footer", "",
		"Text to append to the output")
	cmd.Flags().BoolVar(&bundleSourceMap, "source-map", false,
		"Generate a source map alongside the output")
	cmd.Flags().StringVar(&bundleSourceMapFile, "source-map-file", "",
		"Source map output path (required when --source-map is set)")
	cmd.Flags().IntVar(&bundleMaxGoroutines, "max-goroutines", 0,
		"Maximum concurrent file loads (default: the project config's performance setting, 4 unless configured)")

	return cmd
}

func runBundle(cmd *cobra.Command, args []string) error {
	uc := app.NewBundleUseCase(service.NewBundleService())

	base := bundleBase
	if base == "" {
		base = filepath.Dir(args[0])
	}

	projectCfg := loadProjectConfig(args[0])
	if flagUnchanged(cmd, "format") {
		bundleFormat = projectCfg.Transpile.Format
	}
	if flagUnchanged(cmd, "strict") {
		bundleStrict = projectCfg.Transpile.Strict
	}
	if flagUnchanged(cmd, "amd-module-ids") {
		bundleAMDModuleIDs = projectCfg.Transpile.AMDModuleIDs
	}
	if flagUnchanged(cmd, "source-map") {
		bundleSourceMap = projectCfg.Transpile.SourceMap
	}
	if flagUnchanged(cmd, "skip") {
		bundleSkip = append(bundleSkip, projectCfg.Transpile.Skip...)
	}
	if flagUnchanged(cmd, "max-goroutines") {
		bundleMaxGoroutines = projectCfg.Performance.MaxGoroutines
	}

	cfg := app.BundleConfig{
		BundleRequest: domain.BundleRequest{
			Entry:         args[0],
			Base:          base,
			Format:        domain.Format(bundleFormat),
			Name:          bundleName,
			Strict:        bundleStrict,
			AMDModuleIDs:  bundleAMDModuleIDs,
			Banner:        bundleBanner,
			Footer:        bundleFooter,
			SourceMap:     bundleSourceMap,
			Skip:          bundleSkip,
			MaxGoroutines: bundleMaxGoroutines,
			NameOverrides: projectCfg.Transpile.NameOverrides,
		},
		OutputPath:    bundleOutput,
		SourceMapFile: bundleSourceMapFile,
	}

	result, err := uc.Execute(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("bundle failed: %w", err)
	}

	if bundleOutput == "" {
		fmt.Fprintln(os.Stdout, result.Code)
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return nil
}
