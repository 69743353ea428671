package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"reqlock/internal/types"
)

// Evaluator partitions a manifest's declarations by whether their
// markers hold for a target environment.
type Evaluator struct{}

func NewEvaluator() Evaluator {
	return Evaluator{}
}

// EvaluationResult pairs the full report with the applicable subset,
// ready for locking.
type EvaluationResult struct {
	Report     types.EvaluationReport
	Applicable []types.Declaration
}

func (e Evaluator) Evaluate(ctx context.Context, manifest types.Manifest, env types.Environment) (EvaluationResult, error) {
	result := EvaluationResult{
		Report: types.EvaluationReport{Environment: env},
	}
	for _, decl := range manifest.Declarations {
		marker, err := ParseMarker(decl.Marker)
		if err != nil {
			return EvaluationResult{}, err
		}
		applicable, err := marker.Eval(env)
		if err != nil {
			return EvaluationResult{}, err
		}
		result.Report.Entries = append(result.Report.Entries, types.EvaluationEntry{
			Package:    decl.Name,
			Marker:     decl.Marker,
			Applicable: applicable,
		})
		if applicable {
			result.Applicable = append(result.Applicable, decl)
		}
	}
	log.Ctx(ctx).Debug().
		Int("declarations", len(manifest.Declarations)).
		Int("applicable", len(result.Applicable)).
		Msg("manifest evaluated")
	return result, nil
}
