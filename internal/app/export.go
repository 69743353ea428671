package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/adapters"
	"reqlock/internal/core"
)

// Export maps the manifest's applicable declarations to Debian
// packages and writes the install list.
func (s Service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	manifestPath := strings.TrimSpace(req.ManifestPath)
	if manifestPath == "" {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	packageIndex := strings.TrimSpace(req.PackageIndex)
	if packageIndex == "" {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package index file is required")
	}
	if len(req.MappingFiles) == 0 {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one mapping file is required")
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}

	manifest, err := s.Manifests.Load(manifestPath)
	if err != nil {
		return ExportResult{}, err
	}
	if err := core.NewManifestValidator().ValidateManifest(ctx, manifest); err != nil {
		return ExportResult{}, err
	}
	env, err := s.targetEnvironment(req.EnvironmentFile)
	if err != nil {
		return ExportResult{}, err
	}
	evaluation, err := core.NewEvaluator().Evaluate(ctx, manifest, env)
	if err != nil {
		return ExportResult{}, err
	}

	mapping := adapters.NewDebianMappingAdapter()
	for _, file := range req.MappingFiles {
		if err := mapping.LoadMapping(file); err != nil {
			return ExportResult{}, err
		}
	}

	exporter := core.NewExporterCore(adapters.NewPackageIndexFileAdapter(packageIndex), mapping)
	result, err := exporter.Export(ctx, evaluation.Applicable)
	if err != nil {
		return ExportResult{}, err
	}
	if len(result.Unmapped) > 0 && !req.AllowUnmapped {
		return ExportResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no debian mapping for: " + strings.Join(result.Unmapped, ", "))
	}

	output := adapters.NewOutputFileAdapter(outputDir)
	if err := output.WriteDebianExport(result.Entries); err != nil {
		return ExportResult{}, err
	}
	return ExportResult{
		ExportedCount: len(result.Entries),
		Unmapped:      result.Unmapped,
		OutputDir:     outputDir,
	}, nil
}
