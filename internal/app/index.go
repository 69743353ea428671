package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/ports"
)

// Index snapshots available versions from remote repositories into a
// package index file that lock and export run against.
func (s Service) Index(ctx context.Context, req IndexRequest) (IndexResult, error) {
	output := strings.TrimSpace(req.Output)
	if output == "" {
		return IndexResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is required")
	}
	if strings.TrimSpace(req.PyPIIndex) == "" {
		return IndexResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("pypi index is required")
	}
	index, err := s.IndexBuilder.Build(ctx, ports.IndexBuildRequest{
		PyPIIndex:        req.PyPIIndex,
		PyPIUser:         req.PyPIUser,
		PyPIAPIKey:       req.PyPIAPIKey,
		Packages:         req.Packages,
		MaxPackages:      req.MaxPackages,
		Workers:          req.Workers,
		DebianEndpoint:   req.DebianEndpoint,
		DebianSuite:      req.DebianSuite,
		DebianComponent:  req.DebianComponent,
		DebianArch:       req.DebianArch,
		HTTPTimeoutSec:   req.HTTPTimeoutSec,
		HTTPRetries:      req.HTTPRetries,
		HTTPRetryDelayMs: req.HTTPRetryDelayMs,
	})
	if err != nil {
		return IndexResult{}, err
	}
	if err := s.IndexWriter.Write(output, index); err != nil {
		return IndexResult{}, err
	}
	return IndexResult{
		OutputPath:  output,
		PyPICount:   len(index.PyPI),
		DebianCount: len(index.Debian),
	}, nil
}
