package app

import (
	"context"
	"fmt"
	"os"

	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/internal/transpile"
	"github.com/jvdl/esperanto/service"
)

// BundleConfig holds configuration for the bundle use case:
// domain.BundleRequest plus the output-file concerns domain deliberately
// omits.
type BundleConfig struct {
	domain.BundleRequest

	OutputPath    string
	SourceMapFile string
}

// BundleUseCase orchestrates a full bundle operation end to end: discover,
// rewrite, wrap, write.
type BundleUseCase struct {
	service *service.BundleServiceImpl
}

// NewBundleUseCase creates a new bundle use case.
func NewBundleUseCase(svc *service.BundleServiceImpl) *BundleUseCase {
	return &BundleUseCase{service: svc}
}

// Execute runs cfg.BundleRequest through the bundle service and writes the
// result to cfg.OutputPath/cfg.SourceMapFile when set.
func (uc *BundleUseCase) Execute(ctx context.Context, cfg BundleConfig) (*domain.BundleResult, error) {
	if cfg.SourceMap && cfg.SourceMapFile == "" {
		return nil, transpile.NewMissingSourceMapConfigError(cfg.Entry)
	}

	result, err := uc.service.Bundle(ctx, cfg.BundleRequest)
	if err != nil {
		return nil, err
	}

	if cfg.OutputPath != "" {
		if err := os.WriteFile(cfg.OutputPath, []byte(result.Code), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", cfg.OutputPath, err)
		}
	}

	if cfg.SourceMap && result.Map != nil {
		if err := writeSourceMap(cfg.SourceMapFile, result.Map); err != nil {
			return nil, err
		}
	}

	return result, nil
}
