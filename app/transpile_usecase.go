package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/internal/transpile"
	"github.com/jvdl/esperanto/service"
)

// TranspileConfig holds configuration for the single-file transpile use
// case: domain.TranspileOptions plus the file-I/O concerns a pure DTO layer
// deliberately omits (spec §6's `sourceMapFile`/`sourceMapSource`).
type TranspileConfig struct {
	domain.TranspileOptions

	// InputPath is the source file to read. Empty means read from Source
	// directly (e.g. already in memory).
	InputPath string
	Source    string

	// OutputPath, if set, writes Code there instead of returning it only
	// in-memory; empty means the caller handles Code itself.
	OutputPath string

	// SourceMapFile is where the generated map is written. Required
	// whenever TranspileOptions.SourceMap is true (spec §7's "Missing
	// source-map config").
	SourceMapFile string

	// SourceMapSource becomes the map's single "sources" entry
	// (spec §6); defaults to InputPath when empty.
	SourceMapSource string
}

// TranspileUseCase orchestrates a single-file transpile end to end: read,
// transpile, write.
type TranspileUseCase struct {
	service *service.TranspileServiceImpl
}

// NewTranspileUseCase creates a new transpile use case.
func NewTranspileUseCase(svc *service.TranspileServiceImpl) *TranspileUseCase {
	return &TranspileUseCase{service: svc}
}

// Execute reads cfg.InputPath (or uses cfg.Source directly), transpiles it,
// and writes the result to cfg.OutputPath/cfg.SourceMapFile when set.
func (uc *TranspileUseCase) Execute(ctx context.Context, cfg TranspileConfig) (*domain.TranspileResult, error) {
	if cfg.SourceMap && cfg.SourceMapFile == "" {
		return nil, transpile.NewMissingSourceMapConfigError(cfg.InputPath)
	}

	source := cfg.Source
	if cfg.InputPath != "" {
		data, err := os.ReadFile(cfg.InputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", cfg.InputPath, err)
		}
		source = string(data)
	}

	opts := cfg.TranspileOptions
	if opts.Name == "" && cfg.InputPath != "" {
		opts.Name = baseModuleName(cfg.InputPath)
	}

	result, err := uc.service.Transpile(ctx, source, opts)
	if err != nil {
		return nil, err
	}

	if cfg.OutputPath != "" {
		if err := os.WriteFile(cfg.OutputPath, []byte(result.Code), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", cfg.OutputPath, err)
		}
	}

	if cfg.SourceMap && result.Map != nil {
		sourceFile := cfg.SourceMapSource
		if sourceFile == "" {
			sourceFile = cfg.InputPath
		}
		result.Map.Sources = []string{sourceFile}
		if err := writeSourceMap(cfg.SourceMapFile, result.Map); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// baseModuleName derives a default module name from a file path, stripping
// its extension, for when TranspileOptions.Name is left unset (required for
// AMD/UMD wrapping).
func baseModuleName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// writeSourceMap serializes m as JSON to path, following spec §6's "standard
// source-map-v3 object" contract.
func writeSourceMap(path string, m *domain.Map) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal source map: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
