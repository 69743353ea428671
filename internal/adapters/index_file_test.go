package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"reqlock/internal/types"
)

func writeIndex(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package-index.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPackageIndexFileAvailableVersions(t *testing.T) {
	path := writeIndex(t, `pypi:
  numpy:
    - "1.24.4"
    - "1.26.4"
debian:
  python3-numpy:
    - "1:1.24.2-1"
`)
	adapter := NewPackageIndexFileAdapter(path)

	versions, err := adapter.AvailableVersions(types.EcosystemPyPI, "numpy")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"1.24.4", "1.26.4"}, versions); diff != "" {
		t.Fatalf("unexpected versions (-want +got):\n%s", diff)
	}

	versions, err = adapter.AvailableVersions(types.EcosystemDebian, "python3-numpy")
	require.NoError(t, err)
	require.Len(t, versions, 1)
}

func TestPackageIndexFileNormalizedFallback(t *testing.T) {
	path := writeIndex(t, `pypi:
  pyqt5:
    - "5.15.11"
`)
	adapter := NewPackageIndexFileAdapter(path)

	versions, err := adapter.AvailableVersions(types.EcosystemPyPI, "PyQt5")
	require.NoError(t, err)
	require.Equal(t, []string{"5.15.11"}, versions)
}

func TestPackageIndexFileUnknownPackage(t *testing.T) {
	path := writeIndex(t, "pypi: {}\n")
	adapter := NewPackageIndexFileAdapter(path)

	versions, err := adapter.AvailableVersions(types.EcosystemPyPI, "absent")
	require.NoError(t, err)
	require.Empty(t, versions)
}

func TestPackageIndexFileMissing(t *testing.T) {
	adapter := NewPackageIndexFileAdapter(filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := adapter.AvailableVersions(types.EcosystemPyPI, "numpy")
	require.Error(t, err)
}

func TestPackageIndexFileMalformed(t *testing.T) {
	path := writeIndex(t, "pypi: [not, a, map]\n")
	adapter := NewPackageIndexFileAdapter(path)
	_, err := adapter.AvailableVersions(types.EcosystemPyPI, "numpy")
	require.Error(t, err)
}
