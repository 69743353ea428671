package ports

import "reqlock/internal/types"

// ManifestPort loads a requirements manifest from disk, following
// "-r" includes.
type ManifestPort interface {
	Load(path string) (types.Manifest, error)
}

// ManifestWriterPort renders a manifest back to its canonical textual
// form.
type ManifestWriterPort interface {
	Write(path string, manifest types.Manifest) error
	Render(manifest types.Manifest) (string, error)
}
