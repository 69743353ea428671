//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"reqlock/internal/adapters"
	"reqlock/internal/app"
	"reqlock/internal/types"
)

// TestIndexAgainstContainerRepositories builds a package index against a
// containerized PyPI simple index and Debian repository, then locks a
// manifest using the snapshot it produced.
func TestIndexAgainstContainerRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers integration in short mode")
	}

	ctx := t.Context()
	endpoint, cleanup := startRepositoryServer(ctx, t)
	t.Cleanup(cleanup)

	outDir := t.TempDir()
	indexPath := filepath.Join(outDir, "package-index.yaml")

	service := app.NewService()
	indexResult, err := service.Index(ctx, app.IndexRequest{
		Output:           indexPath,
		PyPIIndex:        endpoint,
		DebianEndpoint:   endpoint,
		DebianSuite:      "noble",
		DebianComponent:  "main",
		DebianArch:       "amd64",
		Workers:          2,
		HTTPTimeoutSec:   10,
		HTTPRetries:      1,
		HTTPRetryDelayMs: 100,
	})
	require.NoError(t, err)
	require.Equal(t, 2, indexResult.PyPICount)
	require.Equal(t, 1, indexResult.DebianCount)
	require.FileExists(t, indexPath)

	index := adapters.NewPackageIndexFileAdapter(indexPath)
	versions, err := index.AvailableVersions(types.EcosystemPyPI, "alpha-lib")
	require.NoError(t, err)
	require.Equal(t, []string{"1.0.0", "1.2.0"}, versions)

	versions, err = index.AvailableVersions(types.EcosystemDebian, "python3-alpha-lib")
	require.NoError(t, err)
	require.Equal(t, []string{"1.0.0-1", "1.2.0-1"}, versions)

	// The snapshot is a usable lock input.
	manifestPath := filepath.Join(outDir, "requirements.txt")
	writeRequirements(t, manifestPath, "alpha-lib >= 1.1\nbeta-tool\n")

	lockResult, err := service.Lock(ctx, app.LockRequest{
		ManifestPath: manifestPath,
		PackageIndex: indexPath,
		OutputDir:    outDir,
	})
	require.NoError(t, err)
	require.Equal(t, 2, lockResult.LockedCount)
	require.FileExists(t, filepath.Join(outDir, "requirements.lock"))
}

// TestIndexScopedToRequestedPackages verifies the package filter skips
// index discovery and only snapshots the requested names.
func TestIndexScopedToRequestedPackages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers integration in short mode")
	}

	ctx := t.Context()
	endpoint, cleanup := startRepositoryServer(ctx, t)
	t.Cleanup(cleanup)

	indexPath := filepath.Join(t.TempDir(), "package-index.yaml")
	service := app.NewService()
	result, err := service.Index(ctx, app.IndexRequest{
		Output:           indexPath,
		PyPIIndex:        endpoint,
		Packages:         []string{"beta-tool"},
		HTTPTimeoutSec:   10,
		HTTPRetries:      1,
		HTTPRetryDelayMs: 100,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.PyPICount)
	require.Equal(t, 0, result.DebianCount)
}

func writeRequirements(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// startRepositoryServer runs a container serving a minimal PyPI simple
// index and a Debian Packages file from the same endpoint.
func startRepositoryServer(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "python:3.12-alpine",
		ExposedPorts: []string{"8080/tcp"},
		Cmd:          []string{"python", "-c", repositoryServerScript},
		WaitingFor:   wait.ForListeningPort("8080/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return endpoint, cleanup
}

const repositoryServerScript = `
import os

root = "/srv/repo"

packages = {
    "alpha-lib": ["alpha_lib-1.0.0-py3-none-any.whl", "alpha_lib-1.2.0-py3-none-any.whl"],
    "beta-tool": ["beta-tool-0.5.0.tar.gz"],
}

simple = os.path.join(root, "simple")
os.makedirs(simple, exist_ok=True)
with open(os.path.join(simple, "index.html"), "w") as f:
    for name in sorted(packages):
        f.write('<a href="/simple/%s/">%s</a>\n' % (name, name))

for name, files in packages.items():
    pkg_dir = os.path.join(simple, name)
    os.makedirs(pkg_dir, exist_ok=True)
    with open(os.path.join(pkg_dir, "index.html"), "w") as f:
        for filename in files:
            f.write('<a href="/files/%s">%s</a>\n' % (filename, filename))

apt_path = os.path.join(root, "dists", "noble", "main", "binary-amd64")
os.makedirs(apt_path, exist_ok=True)
with open(os.path.join(apt_path, "Packages"), "w") as f:
    f.write("Package: python3-alpha-lib\nVersion: 1.0.0-1\n\n")
    f.write("Package: python3-alpha-lib\nVersion: 1.2.0-1\n\n")

os.execvp("python", ["python", "-m", "http.server", "8080", "--directory", root])
`
