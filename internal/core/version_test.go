package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqlock/internal/types"
)

// ---------------------------------------------------------------------------
// versionSelector memoization
// ---------------------------------------------------------------------------

func TestVersionSelectorPepVersion(t *testing.T) {
	selector := newVersionSelector(types.EcosystemPyPI)

	v1, err := selector.pepVersion("1.2.3")
	require.NoError(t, err)

	// Second call should hit cache
	v2, err := selector.pepVersion("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestVersionSelectorPepVersionInvalid(t *testing.T) {
	selector := newVersionSelector(types.EcosystemPyPI)
	_, err := selector.pepVersion("not-a-pep440!!!")
	require.Error(t, err)
}

func TestVersionSelectorPepSpec(t *testing.T) {
	selector := newVersionSelector(types.EcosystemPyPI)

	s1, err := selector.pepSpec(">=1.0,<2.0")
	require.NoError(t, err)

	s2, err := selector.pepSpec(">=1.0,<2.0")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestVersionSelectorDebVersion(t *testing.T) {
	selector := newVersionSelector(types.EcosystemDebian)

	v1, err := selector.debVersion("1:1.26.4+ds-6ubuntu1")
	require.NoError(t, err)

	v2, err := selector.debVersion("1:1.26.4+ds-6ubuntu1")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

// ---------------------------------------------------------------------------
// versionSelector.compare
// ---------------------------------------------------------------------------

func TestVersionSelectorComparePyPI(t *testing.T) {
	selector := newVersionSelector(types.EcosystemPyPI)

	assert.Equal(t, -1, selector.compare("1.0.0", "2.0.0"))
	assert.Equal(t, 0, selector.compare("1.0.0", "1.0.0"))
	assert.Equal(t, 1, selector.compare("2.0.0", "1.0.0"))
	// PEP 440: pre-releases sort below the final release.
	assert.Equal(t, -1, selector.compare("2.0.0rc1", "2.0.0"))
}

func TestVersionSelectorCompareDebian(t *testing.T) {
	selector := newVersionSelector(types.EcosystemDebian)

	assert.Equal(t, -1, selector.compare("1.0.0", "2.0.0"))
	// Epochs dominate the upstream version.
	assert.Equal(t, 1, selector.compare("1:0.5", "2.0"))
}

func TestVersionSelectorCompareUnknownEcosystem(t *testing.T) {
	selector := newVersionSelector("unknown")
	assert.Equal(t, 0, selector.compare("1.0.0", "2.0.0"))
}

// ---------------------------------------------------------------------------
// versionSelector.Pick
// ---------------------------------------------------------------------------

func TestVersionSelectorPickNoAvailable(t *testing.T) {
	_, err := newVersionSelector(types.EcosystemPyPI).Pick("libfoo", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no available versions")
}

func TestVersionSelectorPickNoConstraints(t *testing.T) {
	version, err := newVersionSelector(types.EcosystemPyPI).Pick("libfoo", nil,
		[]string{"1.0.0", "2.0.0", "0.5.0"})
	require.NoError(t, err)
	// Should pick the highest
	assert.Equal(t, "2.0.0", version)
}

func TestVersionSelectorPickWithConstraints(t *testing.T) {
	constraints := []types.Constraint{
		{Name: "libfoo", Op: types.ConstraintOpGte, Version: "1.0"},
		{Name: "libfoo", Op: types.ConstraintOpLt, Version: "2.0"},
	}
	version, err := newVersionSelector(types.EcosystemPyPI).Pick("libfoo", constraints,
		[]string{"0.9.0", "1.2.0", "1.9.9", "2.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.9.9", version)
}

func TestVersionSelectorPickConflict(t *testing.T) {
	constraints := []types.Constraint{
		{Name: "libfoo", Op: types.ConstraintOpGte, Version: "2.0"},
		{Name: "libfoo", Op: types.ConstraintOpLt, Version: "2.0"},
	}
	_, err := newVersionSelector(types.EcosystemPyPI).Pick("libfoo", constraints,
		[]string{"1.0.0", "2.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no compatible version")
}

func TestVersionSelectorPickDebian(t *testing.T) {
	constraints := []types.Constraint{
		{Name: "python3-numpy", Op: types.ConstraintOpGte, Version: "1:1.24"},
	}
	version, err := newVersionSelector(types.EcosystemDebian).Pick("python3-numpy", constraints,
		[]string{"1:1.24.2-1", "1:1.26.4+ds-6ubuntu1"})
	require.NoError(t, err)
	assert.Equal(t, "1:1.26.4+ds-6ubuntu1", version)
}

func TestVersionSelectorPickDebianExact(t *testing.T) {
	constraints := []types.Constraint{
		{Name: "python3-h5py", Op: types.ConstraintOpEq, Version: "3.10.0-1"},
	}
	version, err := newVersionSelector(types.EcosystemDebian).Pick("python3-h5py", constraints,
		[]string{"3.9.0-1", "3.10.0-1"})
	require.NoError(t, err)
	assert.Equal(t, "3.10.0-1", version)
}

func TestToPep440Spec(t *testing.T) {
	// Single "=" is treated as "==".
	spec := toPep440Spec(types.Constraint{Op: types.ConstraintOpEq, Version: "1.2.3"})
	assert.Equal(t, "== 1.2.3", spec)

	spec = toPep440Spec(types.Constraint{Op: types.ConstraintOpCompat, Version: "2.3"})
	assert.Equal(t, "~= 2.3", spec)
}
