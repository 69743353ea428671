package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/adapters"
)

// Inspect summarizes previously written lock artifacts.
func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	locks, err := s.OutputReader.ReadLock(filepath.Join(outputDir, adapters.LockFileName))
	if err != nil {
		return InspectResult{}, err
	}
	records, err := s.OutputReader.ReadResolutionReport(filepath.Join(outputDir, adapters.ResolutionReportFileName))
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{
		LockCount:         len(locks),
		Locks:             locks,
		ResolutionRecords: records,
	}, nil
}
