package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Strob0t/Consilium/internal/domain/conflict"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
)

const (
	maxIntegratedSuggestions = 3
	maxAddressedConcerns     = 2
	supportEstimateCeiling   = 0.95
	criticalPenaltyPerItem   = 0.05
	criticalPenaltyCap       = 0.15
)

// SelectResolutionMethod picks a strategy from the detected conflict mix.
// Priority order: a majority of shared concerns favors integrating the
// feedback directly, polarization calls for a structured debate, role gaps
// for expertise-weighted voting, and anything else falls back to gathering
// more evidence.
func SelectResolutionMethod(conflicts []conflict.Conflict) conflict.ResolutionMethod {
	var shared, polarized, roleBased int
	for _, c := range conflicts {
		switch c.Kind {
		case conflict.KindSharedConcern:
			shared++
		case conflict.KindPolarizedOpinion:
			polarized++
		case conflict.KindRoleBased:
			roleBased++
		}
	}

	switch {
	case shared > len(conflicts)/2 && shared > 0:
		return conflict.MethodIntegrative
	case polarized > 0:
		return conflict.MethodStructuredDebate
	case roleBased > 0:
		return conflict.MethodWeightedVoting
	default:
		return conflict.MethodEvidenceBased
	}
}

// ApplyResolution produces an amended copy of the recommendation according to
// the selected method. Amendments are strictly additive annotation; the
// original recommendation is never mutated. The returned summary describes
// the modification for the outcome record.
func ApplyResolution(method conflict.ResolutionMethod, rec *recommendation.Recommendation, evals []evaluation.Evaluation) (*recommendation.Recommendation, string) {
	amended := rec.Clone()

	switch method {
	case conflict.MethodIntegrative:
		applyIntegrative(amended, evals)
	case conflict.MethodWeightedVoting:
		applyWeightedVoting(amended, evals)
	case conflict.MethodStructuredDebate:
		applyStructuredDebate(amended, evals)
	default:
		amended.UncertaintyFactors = append(amended.UncertaintyFactors,
			"additional evidence required to resolve factual disagreement")
	}

	return amended, fmt.Sprintf("recommendation modified using %s resolution", method)
}

func applyIntegrative(rec *recommendation.Recommendation, evals []evaluation.Evaluation) {
	var suggestions []string
	for _, e := range evals {
		suggestions = append(suggestions, e.Suggestions...)
	}
	if len(suggestions) == 0 {
		return
	}

	highlighted := suggestions
	if len(highlighted) > maxIntegratedSuggestions {
		highlighted = highlighted[:maxIntegratedSuggestions]
	}
	note := fmt.Sprintf("modified to address concerns: %s", strings.Join(highlighted, ", "))
	if rest := len(suggestions) - len(highlighted); rest > 0 {
		note += fmt.Sprintf(" and %d more", rest)
	}
	rec.Amendments = append(rec.Amendments, recommendation.Amendment{
		Method:                conflict.MethodIntegrative,
		Note:                  note,
		IntegratedSuggestions: suggestions,
	})
}

func applyWeightedVoting(rec *recommendation.Recommendation, evals []evaluation.Evaluation) {
	type weighted struct {
		concern string
		weight  float64
	}
	totals := make(map[string]float64)
	var order []string
	for _, e := range evals {
		// Each concern carries the voice of the evaluator raising it.
		weight := e.Expertise * e.Confidence
		for _, concern := range e.Concerns {
			if _, seen := totals[concern]; !seen {
				order = append(order, concern)
			}
			totals[concern] += weight
		}
	}
	if len(totals) == 0 {
		return
	}

	ranked := make([]weighted, 0, len(order))
	for _, c := range order {
		ranked = append(ranked, weighted{concern: c, weight: totals[c]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].concern < ranked[j].concern
	})
	if len(ranked) > maxAddressedConcerns {
		ranked = ranked[:maxAddressedConcerns]
	}

	top := make([]string, len(ranked))
	for i, r := range ranked {
		top[i] = r.concern
	}
	rec.Amendments = append(rec.Amendments, recommendation.Amendment{
		Method:            conflict.MethodWeightedVoting,
		Note:              "adjusted to address the highest-weighted concerns of the most expert evaluators",
		AddressedConcerns: top,
	})
}

func applyStructuredDebate(rec *recommendation.Recommendation, evals []evaluation.Evaluation) {
	var supporting, opposing []string
	for _, e := range evals {
		switch {
		case e.AgreementLevel >= polarizedSupportFloor:
			supporting = append(supporting, e.SupportingArguments...)
		case e.AgreementLevel <= polarizedOpposeCeiling:
			opposing = append(opposing, e.Concerns...)
		}
	}
	rec.Amendments = append(rec.Amendments, recommendation.Amendment{
		Method:              conflict.MethodStructuredDebate,
		Note:                "core position retained after weighing the strongest arguments on both sides",
		SupportingArguments: supporting,
		OpposingConcerns:    opposing,
	})
}

// EstimateSupport projects the support level after applying a resolution
// method. The projection adds the method's effectiveness, subtracts a capped
// penalty per critical conflict, never exceeds the ceiling, and never falls
// below the current level.
func EstimateSupport(current float64, criticalCount int, method conflict.ResolutionMethod) float64 {
	penalty := criticalPenaltyPerItem * float64(criticalCount)
	if penalty > criticalPenaltyCap {
		penalty = criticalPenaltyCap
	}
	estimate := current + method.Effectiveness() - penalty
	if estimate > supportEstimateCeiling {
		estimate = supportEstimateCeiling
	}
	if estimate < current {
		estimate = current
	}
	return estimate
}
