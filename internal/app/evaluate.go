package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/adapters"
	"reqlock/internal/core"
	"reqlock/internal/policies"
	"reqlock/internal/types"
)

func (s Service) Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return EvaluateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return EvaluateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}

	manifest, err := s.Manifests.Load(manifestPath)
	if err != nil {
		return EvaluateResult{}, err
	}
	if err := core.NewManifestValidator().ValidateManifest(ctx, manifest); err != nil {
		return EvaluateResult{}, err
	}
	env, err := s.targetEnvironment(req.EnvironmentFile)
	if err != nil {
		return EvaluateResult{}, err
	}

	result, err := core.NewEvaluator().Evaluate(ctx, manifest, env)
	if err != nil {
		return EvaluateResult{}, err
	}

	binary, err := policies.NewBinaryPolicy(manifest.Options.OnlyBinary, manifest.Options.NoBinary)
	if err != nil {
		return EvaluateResult{}, err
	}
	for i, entry := range result.Report.Entries {
		if format := binary.FormatFor(entry.Package); format != policies.FormatAny {
			result.Report.Entries[i].Format = string(format)
		}
	}

	output := adapters.NewOutputFileAdapter(outputDir)
	if err := output.WriteEvaluationReport(result.Report); err != nil {
		return EvaluateResult{}, err
	}
	return EvaluateResult{
		Applicable: len(result.Applicable),
		Skipped:    len(result.Report.Entries) - len(result.Applicable),
		OutputDir:  outputDir,
	}, nil
}

// targetEnvironment starts from host defaults and overlays the given
// environment file when one is set.
func (s Service) targetEnvironment(file string) (types.Environment, error) {
	env := s.Environments.Detect()
	if path := strings.TrimSpace(file); path != "" {
		return s.Environments.LoadFile(path, env)
	}
	return env, nil
}
