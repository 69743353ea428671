package app

import (
	"context"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/core"
)

// Fmt renders a manifest into canonical form: options first, then
// declarations sorted by name, one logical line each.
func (s Service) Fmt(ctx context.Context, req FmtRequest) (FmtResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return FmtResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	manifest, err := s.Manifests.Load(manifestPath)
	if err != nil {
		return FmtResult{}, err
	}
	if err := core.NewManifestValidator().ValidateManifest(ctx, manifest); err != nil {
		return FmtResult{}, err
	}
	formatted, err := s.ManifestWriter.Render(manifest)
	if err != nil {
		return FmtResult{}, err
	}
	original, err := os.ReadFile(manifestPath)
	if err != nil {
		return FmtResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read manifest").
			WithCause(err)
	}
	changed := string(original) != formatted
	if req.Write && changed {
		if err := s.ManifestWriter.Write(manifestPath, manifest); err != nil {
			return FmtResult{}, err
		}
	}
	return FmtResult{
		ManifestPath: manifestPath,
		Formatted:    formatted,
		Changed:      changed,
	}, nil
}
