package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentDetect(t *testing.T) {
	env := NewEnvironmentAdapter().Detect()

	assert.NotEmpty(t, env.PythonVersion)
	assert.NotEmpty(t, env.SysPlatform)
	assert.NotEmpty(t, env.OSName)
	assert.Equal(t, "cpython", env.ImplementationName)
}

func TestEnvironmentLoadFileMergesOverBase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "environment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`sys_platform: win32
os_name: nt
python_version: "3.11"
`), 0o644))

	adapter := NewEnvironmentAdapter()
	base := adapter.Detect()
	merged, err := adapter.LoadFile(path, base)
	require.NoError(t, err)

	assert.Equal(t, "win32", merged.SysPlatform)
	assert.Equal(t, "nt", merged.OSName)
	assert.Equal(t, "3.11", merged.PythonVersion)
	// Fields absent from the file keep the base value.
	assert.Equal(t, base.ImplementationName, merged.ImplementationName)
	assert.Equal(t, base.PlatformMachine, merged.PlatformMachine)
}

func TestEnvironmentLoadFileErrors(t *testing.T) {
	adapter := NewEnvironmentAdapter()

	_, err := adapter.LoadFile("", adapter.Detect())
	require.Error(t, err)

	_, err = adapter.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), adapter.Detect())
	require.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sys_platform: [not, scalar]\n"), 0o644))
	_, err = adapter.LoadFile(bad, adapter.Detect())
	require.Error(t, err)
}

func TestPlatformMachine(t *testing.T) {
	assert.Equal(t, "x86_64", platformMachine("amd64"))
	assert.Equal(t, "aarch64", platformMachine("arm64"))
	assert.Equal(t, "riscv64", platformMachine("riscv64"))
}
