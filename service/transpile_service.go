package service

import (
	"context"

	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/internal/transpile"
)

// TranspileServiceImpl implements single-file transpilation (spec §6's
// `transpile(source, options)`), wrapping one module's own syntax without
// following its imports onto disk: every import is treated as external,
// the same contract service/dependency_graph_service.go's Analyze gives
// analysis requests, reworked from "produce a report" to "produce rewritten
// code."
type TranspileServiceImpl struct{}

// NewTranspileService creates a new transpile service.
func NewTranspileService() *TranspileServiceImpl {
	return &TranspileServiceImpl{}
}

// Transpile rewrites source's import/export syntax into the requested
// legacy-module wrapper, per spec §4.6-§4.8.
func (s *TranspileServiceImpl) Transpile(ctx context.Context, source string, opts domain.TranspileOptions) (*domain.TranspileResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return transpile.Single(source, opts)
}
