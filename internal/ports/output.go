package ports

import "reqlock/internal/types"

// OutputPort writes lock artifacts into an output directory.
type OutputPort interface {
	WriteLock(entries []types.LockEntry) error
	WriteResolutionReport(report types.ResolutionReport) error
	WriteEvaluationReport(report types.EvaluationReport) error
	WriteDebianExport(entries []types.DebianExportEntry) error
}

// OutputReaderPort reads lock artifacts back, for inspection.
type OutputReaderPort interface {
	ReadLock(path string) ([]types.LockEntry, error)
	ReadResolutionReport(path string) ([]types.ResolutionRecord, error)
}
