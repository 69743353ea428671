package ports

import "reqlock/internal/types"

// DebianMappingPort resolves pip package names to Debian packages via
// layered mapping files.
type DebianMappingPort interface {
	// LoadMapping merges one mapping file; later loads override
	// earlier ones per key.
	LoadMapping(path string) error

	// Resolve maps a normalized pip name. The bool reports whether a
	// mapping exists.
	Resolve(name string) (types.DebianMapping, bool)
}

// OverridesPort loads override directives for locking.
type OverridesPort interface {
	LoadOverrides(path string) ([]types.OverrideDirective, error)
}
