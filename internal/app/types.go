package app

import "reqlock/internal/types"

type ValidateRequest struct {
	ManifestPath  string
	OverridesPath string
}

type ValidateResult struct {
	ManifestPath     string
	DeclarationCount int
	IncludeCount     int
}

type EvaluateRequest struct {
	ManifestPath    string
	EnvironmentFile string
	OutputDir       string
}

type EvaluateResult struct {
	Applicable int
	Skipped    int
	OutputDir  string
}

type LockRequest struct {
	ManifestPath    string
	EnvironmentFile string
	PackageIndex    string
	OverridesPath   string
	OutputDir       string
}

type LockResult struct {
	LockedCount int
	OutputDir   string
}

type FmtRequest struct {
	ManifestPath string
	Write        bool
}

type FmtResult struct {
	ManifestPath string
	Formatted    string
	Changed      bool
}

type InspectRequest struct {
	OutputDir string
}

type InspectResult struct {
	LockCount         int
	Locks             []types.LockEntry
	ResolutionRecords []types.ResolutionRecord
}

type IndexRequest struct {
	Output           string
	PyPIIndex        string
	PyPIUser         string
	PyPIAPIKey       string
	Packages         []string
	MaxPackages      int
	Workers          int
	DebianEndpoint   string
	DebianSuite      string
	DebianComponent  string
	DebianArch       string
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

type IndexResult struct {
	OutputPath  string
	PyPICount   int
	DebianCount int
}

type ExportRequest struct {
	ManifestPath    string
	EnvironmentFile string
	PackageIndex    string
	MappingFiles    []string
	OutputDir       string
	AllowUnmapped   bool
}

type ExportResult struct {
	ExportedCount int
	Unmapped      []string
	OutputDir     string
}
