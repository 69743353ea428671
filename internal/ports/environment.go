package ports

import "reqlock/internal/types"

// EnvironmentPort produces the target environment markers are evaluated
// against.
type EnvironmentPort interface {
	// Detect returns a host-shaped default environment.
	Detect() types.Environment

	// LoadFile reads an environment YAML file and merges it over the
	// given base, file values winning per field.
	LoadFile(path string, base types.Environment) (types.Environment, error)
}
