package types

// Constraint is a single version comparison from a declaration's
// specifier set, e.g. ">=1.2.0" from "numpy >=1.2.0,<2.0".
type Constraint struct {
	Name    string
	Op      ConstraintOp
	Version string
	Source  string
}

// Declaration is one dependency declaration from a requirements
// manifest: a package name, an optional specifier set, an optional
// environment marker gating whether the declaration applies, and an
// optional trailing comment. Declarations are independent of each
// other; file order is preserved for rendering only.
type Declaration struct {
	// Name is the PEP 503 normalized package name.
	Name string

	// RawName is the name exactly as written in the manifest.
	RawName string

	// Extras lists requested extras, e.g. ["socks"] from
	// "requests[socks]".
	Extras []string

	Constraints []Constraint

	// Marker is the raw environment marker text after ";", empty when
	// the declaration is unconditional.
	Marker string

	// DirectURL holds the URL of a "name @ url" direct reference.
	DirectURL string

	// Comment is the trailing "#" comment text, without the marker.
	Comment string

	// Source records provenance as "path:line".
	Source string
}

// InstallerOptions collects the "--"-prefixed option lines of a
// manifest. They configure the external installer and carry no
// resolution semantics beyond binary format control.
type InstallerOptions struct {
	IndexURL        string
	ExtraIndexURLs  []string
	TrustedHosts    []string
	FindLinks       []string
	OnlyBinary      []string
	NoBinary        []string
	ConstraintFiles []string
}

// Include is a single -r reference encountered while loading a
// manifest tree.
type Include struct {
	// Path is the resolved path of the included file.
	Path string

	// From is the file whose -r line pulled it in.
	From string

	// Ref is the reference exactly as written after -r.
	Ref string
}

// Manifest is a parsed requirements file plus everything pulled in via
// "-r" includes.
type Manifest struct {
	Path         string
	Options      InstallerOptions
	Declarations []Declaration

	// Includes lists all -r references, in the order they were
	// processed.
	Includes []Include
}
