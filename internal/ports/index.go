package ports

import (
	"context"

	"reqlock/internal/types"
)

// PackageIndexPort answers which versions of a package a repository
// offers, sorted ascending in ecosystem ordering.
type PackageIndexPort interface {
	AvailableVersions(ecosystem types.Ecosystem, name string) ([]string, error)
}

// IndexBuildRequest carries the remote sources an index snapshot is
// built from.
type IndexBuildRequest struct {
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

type IndexBuilderPort interface {
	Build(ctx context.Context, request IndexBuildRequest) (types.PackageIndexFile, error)
}

type IndexWriterPort interface {
	Write(path string, index types.PackageIndexFile) error
}
