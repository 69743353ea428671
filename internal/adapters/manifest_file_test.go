package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestManifestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "requirements.txt", `# header comment
--index-url https://pypi.org/simple
--trusted-host pypi.org

numpy >= 1.12    # array backend
PyQt5 ; sys_platform != "darwin"
`)

	manifest, err := NewManifestFileAdapter().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://pypi.org/simple", manifest.Options.IndexURL)
	assert.Equal(t, []string{"pypi.org"}, manifest.Options.TrustedHosts)

	require.Len(t, manifest.Declarations, 2)
	assert.Equal(t, "numpy", manifest.Declarations[0].Name)
	assert.Equal(t, "array backend", manifest.Declarations[0].Comment)
	assert.Equal(t, path+":5", manifest.Declarations[0].Source)
	assert.Equal(t, "pyqt5", manifest.Declarations[1].Name)
	assert.Equal(t, `sys_platform != "darwin"`, manifest.Declarations[1].Marker)
}

func TestManifestLoadContinuations(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "requirements.txt", `matplotlib >= 1.2.0, \
    < 4.0
`)

	manifest, err := NewManifestFileAdapter().Load(path)
	require.NoError(t, err)
	require.Len(t, manifest.Declarations, 1)
	require.Len(t, manifest.Declarations[0].Constraints, 2)
	assert.Equal(t, path+":1", manifest.Declarations[0].Source)
}

func TestManifestLoadIncludes(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "gui.txt", "qtconsole\n")
	path := writeManifest(t, dir, "requirements.txt", `numpy
-r gui.txt
`)

	manifest, err := NewManifestFileAdapter().Load(path)
	require.NoError(t, err)

	names := []string{manifest.Declarations[0].Name, manifest.Declarations[1].Name}
	if diff := cmp.Diff([]string{"numpy", "qtconsole"}, names); diff != "" {
		t.Fatalf("unexpected declarations (-want +got):\n%s", diff)
	}
	require.Len(t, manifest.Includes, 1)
	assert.Equal(t, filepath.Join(dir, "gui.txt"), manifest.Includes[0].Path)
	assert.Equal(t, path, manifest.Includes[0].From)
	assert.Equal(t, "gui.txt", manifest.Includes[0].Ref)
}

func TestManifestLoadIncludeRelativeToIncludingFile(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeManifest(t, sub, "nested.txt", "mako\n")
	writeManifest(t, sub, "mid.txt", "-r nested.txt\n")
	path := writeManifest(t, dir, "requirements.txt", "-r sub/mid.txt\n")

	manifest, err := NewManifestFileAdapter().Load(path)
	require.NoError(t, err)
	require.Len(t, manifest.Declarations, 1)
	assert.Equal(t, "mako", manifest.Declarations[0].Name)
}

func TestManifestLoadIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a.txt", "-r b.txt\n")
	writeManifest(t, dir, "b.txt", "-r a.txt\n")

	_, err := NewManifestFileAdapter().Load(filepath.Join(dir, "a.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle detected")
}

func TestManifestLoadMissingInclude(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "requirements.txt", "-r missing.txt\n")

	_, err := NewManifestFileAdapter().Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestManifestLoadInterpolatesEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "requirements.txt",
		"--index-url https://${PIP_INDEX_HOST}/simple\nnumpy\n")

	adapter := NewManifestFileAdapter()
	adapter.LookupEnv = func(name string) (string, bool) {
		if name == "PIP_INDEX_HOST" {
			return "pypi.internal", true
		}
		return "", false
	}

	manifest, err := adapter.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://pypi.internal/simple", manifest.Options.IndexURL)
}

func TestManifestLoadAnnotatesParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "requirements.txt", "numpy\n>=broken\n")

	_, err := NewManifestFileAdapter().Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path+":2")
}

func TestManifestLoadMissingFile(t *testing.T) {
	_, err := NewManifestFileAdapter().Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
