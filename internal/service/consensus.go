package service

import (
	"log/slog"
	"time"

	"github.com/Strob0t/Consilium/internal/config"
	"github.com/Strob0t/Consilium/internal/domain/conflict"
	"github.com/Strob0t/Consilium/internal/domain/consensus"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
)

const (
	supportingFloor = 0.6
	opposingCeiling = 0.4
)

// ConsensusService turns one round of evaluations into a consensus outcome:
// metrics, conflict detection, one resolution pass, and the assembled record.
type ConsensusService struct {
	cfg config.Consensus
	log *slog.Logger
}

func NewConsensusService(cfg config.Consensus, log *slog.Logger) *ConsensusService {
	return &ConsensusService{cfg: cfg, log: log}
}

// Build evaluates one round. When weighted support already clears the
// acceptance threshold and no conflict is critical, the recommendation is
// returned unmodified. Otherwise a resolution method is selected and applied,
// and the outcome carries the projected support after that resolution.
func (s *ConsensusService) Build(rec *recommendation.Recommendation, evals []evaluation.Evaluation, parts []evaluation.Participation) *consensus.Outcome {
	metrics := SupportMetrics(evals, parts)
	conflicts := DetectConflicts(evals)
	criticals := conflict.Criticals(conflicts)

	if metrics.WeightedSupport >= s.cfg.Threshold && len(criticals) == 0 {
		s.log.Debug("direct consensus reached",
			slog.String("recommendation_id", rec.ID),
			slog.Float64("weighted_support", metrics.WeightedSupport))
		return s.outcome(rec, metrics, metrics.WeightedSupport, evals, nil, "direct consensus", false, "")
	}

	if len(conflicts) == 0 {
		s.log.Debug("insufficient consensus without specific conflicts",
			slog.String("recommendation_id", rec.ID),
			slog.Float64("weighted_support", metrics.WeightedSupport))
		return s.outcome(rec, metrics, metrics.WeightedSupport, evals, nil, "none", false, "")
	}

	method := SelectResolutionMethod(conflicts)
	amended, summary := ApplyResolution(method, rec, evals)
	estimated := EstimateSupport(metrics.WeightedSupport, len(criticals), method)

	s.log.Debug("resolution applied",
		slog.String("recommendation_id", rec.ID),
		slog.String("method", string(method)),
		slog.Int("conflicts", len(conflicts)),
		slog.Int("critical", len(criticals)),
		slog.Float64("weighted_support", metrics.WeightedSupport),
		slog.Float64("estimated_support", estimated))

	return s.outcome(amended, metrics, estimated, evals, criticals, string(method), true, summary)
}

func (s *ConsensusService) outcome(rec *recommendation.Recommendation, metrics consensus.Metrics, support float64, evals []evaluation.Evaluation, criticals []conflict.Conflict, method string, modified bool, summary string) *consensus.Outcome {
	var supporting, opposing, abstaining []string
	for _, e := range evals {
		switch {
		case e.AgreementLevel > supportingFloor:
			supporting = append(supporting, e.EvaluatorID)
		case e.AgreementLevel < opposingCeiling:
			opposing = append(opposing, e.EvaluatorID)
		default:
			abstaining = append(abstaining, e.EvaluatorID)
		}
	}

	return &consensus.Outcome{
		Recommendation:      rec,
		Level:               consensus.LevelFor(support),
		SupportPercentage:   support,
		Supporting:          supporting,
		Opposing:            opposing,
		Abstaining:          abstaining,
		KeyConflicts:        criticals,
		ResolutionMethod:    method,
		Modified:            modified,
		ModificationSummary: summary,
		Timestamp:           time.Now().UTC(),
		Metrics:             metrics,
	}
}
