package service

import (
	"github.com/Strob0t/Consilium/internal/domain/consensus"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
)

// SupportMetrics aggregates a set of evaluations into weighted and unweighted
// support figures, the participation rate, and the agreement band counts.
//
// The weighted figure multiplies each agreement level by the evaluator's
// expertise and weight from the matching participation record. Evaluations
// without a matching record contribute nothing to the weighted sum. When the
// total weight is zero the unweighted mean is used instead.
func SupportMetrics(evals []evaluation.Evaluation, parts []evaluation.Participation) consensus.Metrics {
	if len(evals) == 0 {
		return consensus.Metrics{}
	}

	byEvaluator := make(map[string]evaluation.Participation, len(parts))
	for _, p := range parts {
		byEvaluator[p.EvaluatorID] = p
	}

	var (
		sum         float64
		weightedSum float64
		totalWeight float64
		bands       consensus.Bands
	)
	for _, e := range evals {
		sum += e.AgreementLevel

		if p, ok := byEvaluator[e.EvaluatorID]; ok {
			w := p.Expertise * p.Weight
			weightedSum += e.AgreementLevel * w
			totalWeight += w
		}

		switch a := e.AgreementLevel; {
		case a >= 0.8:
			bands.StrongSupport++
		case a >= 0.6:
			bands.ModerateSupport++
		case a >= 0.4:
			bands.Neutral++
		case a >= 0.2:
			bands.ModerateOpposition++
		default:
			bands.StrongOpposition++
		}
	}

	unweighted := sum / float64(len(evals))
	weighted := unweighted
	if totalWeight > 0 {
		weighted = weightedSum / totalWeight
	}

	participation := 1.0
	if len(parts) > 0 {
		participation = float64(len(evals)) / float64(len(parts))
	}

	return consensus.Metrics{
		WeightedSupport:   weighted,
		UnweightedSupport: unweighted,
		ParticipationRate: participation,
		Bands:             bands,
	}
}
