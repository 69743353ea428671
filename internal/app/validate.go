package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/core"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	manifest, err := s.Manifests.Load(manifestPath)
	if err != nil {
		return ValidateResult{}, err
	}
	validator := core.NewManifestValidator()
	if err := validator.ValidateManifest(ctx, manifest); err != nil {
		return ValidateResult{}, err
	}
	if overridesPath := strings.TrimSpace(req.OverridesPath); overridesPath != "" {
		overrides, err := s.Overrides.LoadOverrides(overridesPath)
		if err != nil {
			return ValidateResult{}, err
		}
		if err := validator.ValidateOverrides(ctx, overrides); err != nil {
			return ValidateResult{}, err
		}
		s.warnExpiredOverrides(ctx, overrides)
	}
	return ValidateResult{
		ManifestPath:     manifestPath,
		DeclarationCount: len(manifest.Declarations),
		IncludeCount:     len(manifest.Includes),
	}, nil
}
