package integration

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqlock/internal/adapters"
	"reqlock/internal/core"
	"reqlock/tests/testutil"
)

// TestGoldenLock performs a full lock using the sample fixtures and
// compares the outputs against committed golden files. If the golden
// files do not exist yet (first run), they are written so they can be
// committed.
//
// To update golden files after an intentional change, delete the
// testdata/golden/ directory and re-run the test.
func TestGoldenLock(t *testing.T) {
	root := testutil.RepoRoot(t)
	goldenDir := filepath.Join(root, "tests", "integration", "testdata", "golden")

	manifests := adapters.NewManifestFileAdapter()
	manifest, err := manifests.Load(testutil.Fixture(t, "requirements.txt"))
	require.NoError(t, err)
	require.NoError(t, core.NewManifestValidator().ValidateManifest(t.Context(), manifest))

	envAdapter := adapters.NewEnvironmentAdapter()
	env, err := envAdapter.LoadFile(testutil.Fixture(t, "environment-linux.yaml"), envAdapter.Detect())
	require.NoError(t, err)

	evaluation, err := core.NewEvaluator().Evaluate(t.Context(), manifest, env)
	require.NoError(t, err)

	overrides, err := adapters.NewOverridesFileAdapter().LoadOverrides(testutil.Fixture(t, "overrides.yaml"))
	require.NoError(t, err)

	locker := core.NewLockerCore(adapters.NewPackageIndexFileAdapter(testutil.Fixture(t, "package-index.yaml")))
	result, err := locker.Lock(t.Context(), evaluation.Applicable, overrides)
	require.NoError(t, err)

	outDir := t.TempDir()
	output := adapters.NewOutputFileAdapter(outDir)
	require.NoError(t, output.WriteLock(result.Locks))
	require.NoError(t, output.WriteResolutionReport(result.Report))
	require.NoError(t, output.WriteEvaluationReport(evaluation.Report))

	// Compare each output against golden file
	goldenFiles := map[string]string{
		adapters.LockFileName:             filepath.Join(outDir, adapters.LockFileName),
		adapters.ResolutionReportFileName: filepath.Join(outDir, adapters.ResolutionReportFileName),
		adapters.EvaluationReportFileName: filepath.Join(outDir, adapters.EvaluationReportFileName),
	}

	for name, actualPath := range goldenFiles {
		t.Run(name, func(t *testing.T) {
			actual, err := os.ReadFile(actualPath)
			require.NoError(t, err)

			goldenPath := filepath.Join(goldenDir, name)
			if _, statErr := os.Stat(goldenPath); os.IsNotExist(statErr) {
				// Golden file doesn't exist yet -- write it.
				require.NoError(t, os.MkdirAll(goldenDir, 0o755))
				require.NoError(t, os.WriteFile(goldenPath, actual, 0o644))
				t.Logf("golden file written: %s (commit it)", goldenPath)
				return
			}

			expected, err := os.ReadFile(goldenPath)
			require.NoError(t, err)
			assert.Equal(t, string(expected), string(actual),
				"golden mismatch for %s -- delete testdata/golden/ and re-run to regenerate", name)
		})
	}
}

// TestGoldenLockStructure verifies the structural properties of the
// lock output independent of exact values -- counts, names present,
// ordering.
func TestGoldenLockStructure(t *testing.T) {
	manifests := adapters.NewManifestFileAdapter()
	manifest, err := manifests.Load(testutil.Fixture(t, "requirements.txt"))
	require.NoError(t, err)

	envAdapter := adapters.NewEnvironmentAdapter()
	env, err := envAdapter.LoadFile(testutil.Fixture(t, "environment-linux.yaml"), envAdapter.Detect())
	require.NoError(t, err)

	evaluation, err := core.NewEvaluator().Evaluate(t.Context(), manifest, env)
	require.NoError(t, err)

	overrides, err := adapters.NewOverridesFileAdapter().LoadOverrides(testutil.Fixture(t, "overrides.yaml"))
	require.NoError(t, err)

	locker := core.NewLockerCore(adapters.NewPackageIndexFileAdapter(testutil.Fixture(t, "package-index.yaml")))
	result, err := locker.Lock(t.Context(), evaluation.Applicable, overrides)
	require.NoError(t, err)

	t.Run("locks are sorted", func(t *testing.T) {
		names := make([]string, 0, len(result.Locks))
		for _, entry := range result.Locks {
			names = append(names, entry.Package)
		}
		sorted := make([]string, len(names))
		copy(sorted, names)
		sort.Strings(sorted)
		assert.Equal(t, sorted, names, "locks must be sorted by package name")
	})

	t.Run("expected packages locked", func(t *testing.T) {
		locked := map[string]string{}
		for _, entry := range result.Locks {
			locked[entry.Package] = entry.Version
		}
		// numpy >= 1.12 picks the highest available.
		assert.Equal(t, "1.26.4", locked["numpy"])
		// fabio is forced to 0.14.0 by the overrides fixture.
		assert.Equal(t, "0.14.0", locked["fabio"])
		// matplotlib >= 1.2.0 excludes the 1.1.0 release.
		assert.Equal(t, "3.9.1", locked["matplotlib"])
		assert.Contains(t, locked, "pyqt5")
		assert.Contains(t, locked, "pyopencl")
	})

	t.Run("markers survive into the lock", func(t *testing.T) {
		markers := map[string]string{}
		for _, entry := range result.Locks {
			markers[entry.Package] = entry.Marker
		}
		assert.Equal(t, `sys_platform != "darwin"`, markers["pyqt5"])
		assert.Empty(t, markers["numpy"])
	})

	t.Run("override is recorded", func(t *testing.T) {
		found := false
		for _, record := range result.Report.Records {
			if record.Dependency == "fabio" {
				found = true
				assert.Equal(t, "force", record.Action)
				assert.Equal(t, "0.14.0", record.Value)
				assert.Equal(t, "data-platform", record.Owner)
			}
		}
		assert.True(t, found, "resolution report should record the fabio override")
	})
}

// TestGoldenDebianExport verifies the Debian export flow end to end on
// the same fixtures.
func TestGoldenDebianExport(t *testing.T) {
	manifests := adapters.NewManifestFileAdapter()
	manifest, err := manifests.Load(testutil.Fixture(t, "requirements.txt"))
	require.NoError(t, err)

	envAdapter := adapters.NewEnvironmentAdapter()
	env, err := envAdapter.LoadFile(testutil.Fixture(t, "environment-linux.yaml"), envAdapter.Detect())
	require.NoError(t, err)

	evaluation, err := core.NewEvaluator().Evaluate(t.Context(), manifest, env)
	require.NoError(t, err)

	mapping := adapters.NewDebianMappingAdapter()
	require.NoError(t, mapping.LoadMapping(testutil.Fixture(t, "debian-mapping.yaml")))

	exporter := core.NewExporterCore(adapters.NewPackageIndexFileAdapter(testutil.Fixture(t, "package-index.yaml")), mapping)
	result, err := exporter.Export(t.Context(), evaluation.Applicable)
	require.NoError(t, err)

	exported := map[string]string{}
	for _, entry := range result.Entries {
		exported[entry.Package] = entry.Version
	}
	assert.Equal(t, "1:1.26.4+ds-6ubuntu1", exported["python3-numpy"])
	assert.Equal(t, "3.6.3-1ubuntu5", exported["python3-matplotlib"])
	assert.Contains(t, exported, "python3-mako")

	// GUI-only packages without a Debian mapping are reported, not dropped.
	assert.Contains(t, result.Unmapped, "ipython")
	assert.Contains(t, result.Unmapped, "qtconsole")
	assert.NotContains(t, result.Unmapped, "numpy")
}
