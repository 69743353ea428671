package types

// LockEntry pins a package to the exact version selected during
// locking. The marker is carried over so the lock file stays valid for
// the environments the declaration was gated on.
type LockEntry struct {
	Package string
	Version string
	Marker  string
}

// DebianExportEntry is one line of the Debian export: the system
// package mapped from a pip declaration plus the selected version.
type DebianExportEntry struct {
	Package string
	Version string
}

// ResolutionRecord is the audit trail entry written whenever an
// override directive changes how a declaration was locked, or when a
// declaration was skipped (inapplicable marker, direct URL).
type ResolutionRecord struct {
	Dependency string
	Action     string
	Value      string
	Reason     string
	Owner      string
	ExpiresAt  string
}

type ResolutionReport struct {
	Records []ResolutionRecord
}

// EvaluationEntry records the outcome of checking one declaration's
// marker against a target environment. Format is set when a
// --only-binary / --no-binary option restricts the package's
// distribution format.
type EvaluationEntry struct {
	Package    string
	Marker     string
	Applicable bool
	Format     string
}

type EvaluationReport struct {
	Environment Environment
	Entries     []EvaluationEntry
}

// OverrideDirective is a reviewed policy exception applied during
// locking. Actions: force (pin to Value), relax (drop constraints),
// replace (rename to Value), block (hard error).
type OverrideDirective struct {
	Dependency string `yaml:"dependency"`
	Action     string `yaml:"action"`
	Value      string `yaml:"value,omitempty"`
	Reason     string `yaml:"reason"`
	Owner      string `yaml:"owner"`
	ExpiresAt  string `yaml:"expires_at,omitempty"`
}

// OverridesFile is the top-level structure of an overrides.yaml file.
type OverridesFile struct {
	Overrides []OverrideDirective `yaml:"overrides"`
}
