package service

import (
	"context"

	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/internal/transpile"
)

// BundleServiceImpl implements multi-file bundling (spec §6's
// `bundle({entry, ...}).toAmd/toCjs/toUmd`), following the orchestration
// shape of dependency_graph_service.go's Analyze: accumulate warnings
// across stages and return one response object rather than failing fast on
// the first recoverable issue, while still treating every spec §7 error as
// fatal to the whole operation.
type BundleServiceImpl struct{}

// NewBundleService creates a new bundle service.
func NewBundleService() *BundleServiceImpl {
	return &BundleServiceImpl{}
}

// Bundle discovers every module reachable from req.Entry and emits one
// combined legacy-module wrapper, per spec §4.4-§4.8.
func (s *BundleServiceImpl) Bundle(ctx context.Context, req domain.BundleRequest) (*domain.BundleResult, error) {
	return transpile.Bundle(ctx, req)
}
