package service

import (
	"log/slog"

	"github.com/Strob0t/Consilium/internal/domain/decision"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/domain/panel"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
)

// vetoAgreementCeiling is the agreement level below which a veto-authorized
// member's opposition blocks the decision.
const vetoAgreementCeiling = 0.2

// checkVeto scans the final round for a blocking veto: an active member with
// veto authority in one of the recommendation's analysis domains whose
// agreement falls below the ceiling. A veto forces escalation but never
// alters the computed consensus level. The first match in member order wins.
func (s *OrchestratorService) checkVeto(rec *recommendation.Recommendation, evals []evaluation.Evaluation, members []panel.Member) *decision.Veto {
	domains := rec.Domains()
	if len(domains) == 0 {
		return nil
	}

	byEvaluator := make(map[string]evaluation.Evaluation, len(evals))
	for _, e := range evals {
		byEvaluator[e.EvaluatorID] = e
	}

	for _, m := range members {
		if !m.Active || len(m.VetoRights) == 0 {
			continue
		}
		e, ok := byEvaluator[m.ID]
		if !ok || e.AgreementLevel >= vetoAgreementCeiling {
			continue
		}
		for _, d := range domains {
			if !m.HasVetoIn(d) {
				continue
			}
			s.log.Warn("decision vetoed",
				slog.String("member_id", m.ID),
				slog.String("member", m.Name),
				slog.String("domain", d),
				slog.Float64("agreement", e.AgreementLevel))
			return &decision.Veto{
				EvaluatorID:    m.ID,
				Role:           m.Role,
				Domain:         d,
				AgreementLevel: e.AgreementLevel,
				Concerns:       e.Concerns,
			}
		}
	}
	return nil
}
