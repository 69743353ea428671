package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqlock/internal/types"
)

type testMapping map[string]types.DebianMapping

func (m testMapping) LoadMapping(string) error { return nil }

func (m testMapping) Resolve(name string) (types.DebianMapping, bool) {
	mapping, ok := m[name]
	return mapping, ok
}

func TestExporterMapsAndPins(t *testing.T) {
	index := testPackageIndex{
		debian: map[string][]string{
			"python3-numpy":      {"1:1.24.2-1", "1:1.26.4+ds-6ubuntu1"},
			"python3-matplotlib": {"3.6.3-1ubuntu5"},
		},
	}
	mapping := testMapping{
		"numpy":      {Package: "python3-numpy"},
		"matplotlib": {Package: "python3-matplotlib", Version: ">=3.0"},
	}
	exporter := NewExporterCore(index, mapping)

	decls := []types.Declaration{
		{Name: "numpy"},
		{Name: "matplotlib"},
	}

	result, err := exporter.Export(t.Context(), decls)
	require.NoError(t, err)
	want := []types.DebianExportEntry{
		{Package: "python3-matplotlib", Version: "3.6.3-1ubuntu5"},
		{Package: "python3-numpy", Version: "1:1.26.4+ds-6ubuntu1"},
	}
	if diff := cmp.Diff(want, result.Entries); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
	assert.Empty(t, result.Unmapped)
}

func TestExporterReportsUnmapped(t *testing.T) {
	index := testPackageIndex{debian: map[string][]string{}}
	exporter := NewExporterCore(index, testMapping{})

	decls := []types.Declaration{{Name: "pyopencl"}}
	result, err := exporter.Export(t.Context(), decls)
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.Equal(t, []string{"pyopencl"}, result.Unmapped)
}

func TestExporterMappingConstraintConflict(t *testing.T) {
	index := testPackageIndex{
		debian: map[string][]string{
			"python3-matplotlib": {"2.2.0-1"},
		},
	}
	mapping := testMapping{
		"matplotlib": {Package: "python3-matplotlib", Version: ">=3.0"},
	}
	exporter := NewExporterCore(index, mapping)

	_, err := exporter.Export(t.Context(), []types.Declaration{{Name: "matplotlib"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no compatible version")
}
