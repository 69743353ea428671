package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/adapters"
	"reqlock/internal/core"
	"reqlock/internal/types"
)

func (s Service) Lock(ctx context.Context, req LockRequest) (LockResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return LockResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	packageIndex := strings.TrimSpace(req.PackageIndex)
	if packageIndex == "" {
		return LockResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package index file is required")
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return LockResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}

	manifest, err := s.Manifests.Load(manifestPath)
	if err != nil {
		return LockResult{}, err
	}
	validator := core.NewManifestValidator()
	if err := validator.ValidateManifest(ctx, manifest); err != nil {
		return LockResult{}, err
	}

	var overrides []types.OverrideDirective
	if overridesPath := strings.TrimSpace(req.OverridesPath); overridesPath != "" {
		overrides, err = s.Overrides.LoadOverrides(overridesPath)
		if err != nil {
			return LockResult{}, err
		}
		if err := validator.ValidateOverrides(ctx, overrides); err != nil {
			return LockResult{}, err
		}
		s.warnExpiredOverrides(ctx, overrides)
	}

	env, err := s.targetEnvironment(req.EnvironmentFile)
	if err != nil {
		return LockResult{}, err
	}
	evaluation, err := core.NewEvaluator().Evaluate(ctx, manifest, env)
	if err != nil {
		return LockResult{}, err
	}

	locker := core.NewLockerCore(adapters.NewPackageIndexFileAdapter(packageIndex))
	result, err := locker.Lock(ctx, evaluation.Applicable, overrides)
	if err != nil {
		return LockResult{}, err
	}

	output := adapters.NewOutputFileAdapter(outputDir)
	if err := output.WriteLock(result.Locks); err != nil {
		return LockResult{}, err
	}
	if err := output.WriteResolutionReport(result.Report); err != nil {
		return LockResult{}, err
	}
	if err := output.WriteEvaluationReport(evaluation.Report); err != nil {
		return LockResult{}, err
	}
	return LockResult{
		LockedCount: len(result.Locks),
		OutputDir:   outputDir,
	}, nil
}
