package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqlock/internal/types"
)

func validManifest() types.Manifest {
	return types.Manifest{
		Path: "requirements.txt",
		Options: types.InstallerOptions{
			IndexURL:     "https://pypi.org/simple",
			TrustedHosts: []string{"pypi.org"},
		},
		Declarations: []types.Declaration{
			{
				Name: "numpy",
				Constraints: []types.Constraint{
					{Name: "numpy", Op: types.ConstraintOpGte, Version: "1.12"},
				},
			},
			{Name: "pyqt5", Marker: `sys_platform != "darwin"`},
		},
	}
}

func TestValidateManifest(t *testing.T) {
	err := NewManifestValidator().ValidateManifest(t.Context(), validManifest())
	require.NoError(t, err)
}

func TestValidateManifestDuplicate(t *testing.T) {
	manifest := validManifest()
	manifest.Declarations = append(manifest.Declarations, types.Declaration{
		Name:   "numpy",
		Source: "requirements.txt:9",
	})
	err := NewManifestValidator().ValidateManifest(t.Context(), manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate declaration")
}

func TestValidateManifestDuplicateDistinctMarkersAllowed(t *testing.T) {
	manifest := validManifest()
	manifest.Declarations = append(manifest.Declarations, types.Declaration{
		Name:   "pyqt5",
		Marker: `sys_platform == "win32"`,
	})
	err := NewManifestValidator().ValidateManifest(t.Context(), manifest)
	require.NoError(t, err)
}

func TestValidateManifestBadSpecifier(t *testing.T) {
	manifest := validManifest()
	manifest.Declarations[0].Constraints[0].Version = "not a version"
	err := NewManifestValidator().ValidateManifest(t.Context(), manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid specifier")
}

func TestValidateManifestBadIndexURL(t *testing.T) {
	manifest := validManifest()
	manifest.Options.IndexURL = "ftp://mirror/simple"
	err := NewManifestValidator().ValidateManifest(t.Context(), manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be http(s)")
}

func TestValidateManifestBadBinaryPattern(t *testing.T) {
	manifest := validManifest()
	manifest.Options.OnlyBinary = []string{":bogus:"}
	err := NewManifestValidator().ValidateManifest(t.Context(), manifest)
	require.Error(t, err)
}

func TestValidateOverrides(t *testing.T) {
	overrides := []types.OverrideDirective{
		{
			Dependency: "fabio",
			Action:     "force",
			Value:      "0.14.0",
			Reason:     "2024.x drops the edf writer",
			Owner:      "data-platform",
		},
		{
			Dependency: "pycrypto",
			Action:     "block",
			Reason:     "unmaintained",
			Owner:      "security",
		},
	}
	err := NewManifestValidator().ValidateOverrides(t.Context(), overrides)
	require.NoError(t, err)
}

func TestValidateOverridesErrors(t *testing.T) {
	tests := []types.OverrideDirective{
		{Action: "force", Value: "1.0", Reason: "r", Owner: "o"},          // no dependency
		{Dependency: "x", Reason: "r", Owner: "o"},                        // no action
		{Dependency: "x", Action: "pin", Reason: "r", Owner: "o"},         // unknown action
		{Dependency: "x", Action: "force", Reason: "r", Owner: "o"},       // force without value
		{Dependency: "x", Action: "replace", Reason: "r", Owner: "o"},     // replace without value
		{Dependency: "x", Action: "relax", Owner: "o"},                    // no reason
		{Dependency: "x", Action: "relax", Reason: "r"},                   // no owner
	}
	validator := NewManifestValidator()
	for _, directive := range tests {
		err := validator.ValidateOverrides(t.Context(), []types.OverrideDirective{directive})
		require.Error(t, err, "directive: %+v", directive)
	}
}
