package adapters

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/ports"
	"reqlock/internal/types"
)

// ManifestWriterAdapter renders a manifest in canonical form: options
// first, then declarations sorted by normalized name, one specifier
// space after the name, comments preserved.
type ManifestWriterAdapter struct{}

func NewManifestWriterAdapter() ManifestWriterAdapter {
	return ManifestWriterAdapter{}
}

func (a ManifestWriterAdapter) Write(path string, manifest types.Manifest) error {
	rendered, err := a.Render(manifest)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write manifest").
			WithCause(err)
	}
	return nil
}

func (a ManifestWriterAdapter) Render(manifest types.Manifest) (string, error) {
	var lines []string
	lines = append(lines, renderOptions(manifest.Options)...)

	// Includes are rendered as written; their declarations stay in the
	// included file and must not be inlined here.
	var body []string
	for _, include := range manifest.Includes {
		if include.From == manifest.Path {
			body = append(body, "-r "+include.Ref)
		}
	}

	ordered := make([]types.Declaration, 0, len(manifest.Declarations))
	for _, decl := range manifest.Declarations {
		if file := sourceFile(decl.Source); file != "" && file != manifest.Path {
			continue
		}
		ordered = append(ordered, decl)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].Marker < ordered[j].Marker
	})
	for _, decl := range ordered {
		body = append(body, renderDeclaration(decl))
	}

	if len(lines) > 0 && len(body) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, body...)
	return strings.Join(lines, "\n") + "\n", nil
}

// sourceFile extracts the file part of a "path:line" provenance
// string, or "" when there is none.
func sourceFile(source string) string {
	i := strings.LastIndex(source, ":")
	if i <= 0 {
		return ""
	}
	return source[:i]
}

func renderOptions(opts types.InstallerOptions) []string {
	var lines []string
	if opts.IndexURL != "" {
		lines = append(lines, "--index-url "+opts.IndexURL)
	}
	for _, url := range opts.ExtraIndexURLs {
		lines = append(lines, "--extra-index-url "+url)
	}
	for _, host := range opts.TrustedHosts {
		lines = append(lines, "--trusted-host "+host)
	}
	for _, link := range opts.FindLinks {
		lines = append(lines, "--find-links "+link)
	}
	for _, pattern := range opts.OnlyBinary {
		lines = append(lines, "--only-binary "+pattern)
	}
	for _, pattern := range opts.NoBinary {
		lines = append(lines, "--no-binary "+pattern)
	}
	for _, file := range opts.ConstraintFiles {
		lines = append(lines, "--constraint "+file)
	}
	return lines
}

func renderDeclaration(decl types.Declaration) string {
	var b strings.Builder
	b.WriteString(decl.Name)
	if len(decl.Extras) > 0 {
		b.WriteString("[" + strings.Join(decl.Extras, ",") + "]")
	}
	if decl.DirectURL != "" {
		b.WriteString(" @ " + decl.DirectURL)
	}
	if len(decl.Constraints) > 0 {
		var specs []string
		for _, constraint := range decl.Constraints {
			if constraint.Op == types.ConstraintOpNone {
				continue
			}
			specs = append(specs, fmt.Sprintf("%s%s", constraint.Op, constraint.Version))
		}
		if len(specs) > 0 {
			b.WriteString(" " + strings.Join(specs, ","))
		}
	}
	if decl.Marker != "" {
		b.WriteString(" ; " + decl.Marker)
	}
	if decl.Comment != "" {
		b.WriteString("  # " + decl.Comment)
	}
	return b.String()
}

var _ ports.ManifestWriterPort = ManifestWriterAdapter{}
