package adapters

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/core"
	"reqlock/internal/ports"
	"reqlock/internal/types"
)

// ManifestFileAdapter loads requirements manifests from disk, joining
// backslash continuations, interpolating ${VAR} references, and
// following "-r" includes relative to the including file.
type ManifestFileAdapter struct {
	// LookupEnv is swappable for tests; defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{LookupEnv: os.LookupEnv}
}

func (a ManifestFileAdapter) Load(path string) (types.Manifest, error) {
	manifest := types.Manifest{Path: path}
	visited := map[string]struct{}{}
	if err := a.loadInto(&manifest, path, visited); err != nil {
		return types.Manifest{}, err
	}
	return manifest, nil
}

func (a ManifestFileAdapter) loadInto(manifest *types.Manifest, path string, visited map[string]struct{}) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, seen := visited[abs]; seen {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("include cycle detected at %s", path))
	}
	visited[abs] = struct{}{}

	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("manifest file not found: " + path).
			WithCause(err)
	}

	lookup := a.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, logical := range joinContinuations(strings.Split(string(data), "\n")) {
		line := core.InterpolateEnv(logical.text, lookup)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		source := fmt.Sprintf("%s:%d", path, logical.line)
		if core.IsOptionLine(trimmed) {
			option, err := core.ParseOption(trimmed)
			if err != nil {
				return annotate(err, source)
			}
			if err := a.applyOption(manifest, option, path, visited); err != nil {
				return annotate(err, source)
			}
			continue
		}
		decl, err := core.ParseDeclaration(line, source)
		if err != nil {
			return annotate(err, source)
		}
		manifest.Declarations = append(manifest.Declarations, decl)
	}
	return nil
}

func (a ManifestFileAdapter) applyOption(manifest *types.Manifest, option core.Option, fromPath string, visited map[string]struct{}) error {
	switch option.Kind {
	case core.OptionIndexURL:
		manifest.Options.IndexURL = option.Value
	case core.OptionExtraIndexURL:
		manifest.Options.ExtraIndexURLs = append(manifest.Options.ExtraIndexURLs, option.Value)
	case core.OptionTrustedHost:
		manifest.Options.TrustedHosts = append(manifest.Options.TrustedHosts, option.Value)
	case core.OptionFindLinks:
		manifest.Options.FindLinks = append(manifest.Options.FindLinks, option.Value)
	case core.OptionOnlyBinary:
		manifest.Options.OnlyBinary = append(manifest.Options.OnlyBinary, option.Value)
	case core.OptionNoBinary:
		manifest.Options.NoBinary = append(manifest.Options.NoBinary, option.Value)
	case core.OptionConstraint:
		manifest.Options.ConstraintFiles = append(manifest.Options.ConstraintFiles, option.Value)
	case core.OptionRequirement:
		include := option.Value
		if !filepath.IsAbs(include) {
			include = filepath.Join(filepath.Dir(fromPath), include)
		}
		manifest.Includes = append(manifest.Includes, types.Include{
			Path: include,
			From: fromPath,
			Ref:  option.Value,
		})
		return a.loadInto(manifest, include, visited)
	}
	return nil
}

// logicalLine is a physical-line run joined on trailing backslashes.
type logicalLine struct {
	text string
	line int
}

func joinContinuations(lines []string) []logicalLine {
	var out []logicalLine
	for i := 0; i < len(lines); i++ {
		start := i
		text := lines[i]
		for strings.HasSuffix(strings.TrimRight(text, " \t"), "\\") && i+1 < len(lines) {
			text = strings.TrimSuffix(strings.TrimRight(text, " \t"), "\\")
			i++
			text += " " + strings.TrimSpace(lines[i])
		}
		out = append(out, logicalLine{text: text, line: start + 1})
	}
	return out
}

func annotate(err error, source string) error {
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return err
	}
	if !strings.Contains(builder.Msg, source) {
		return errbuilder.New().
			WithCode(errbuilder.CodeOf(err)).
			WithMsg(builder.Msg + " (" + source + ")").
			WithCause(err)
	}
	return err
}

var _ ports.ManifestPort = ManifestFileAdapter{}
