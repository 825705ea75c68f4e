package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/domain/panel"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
	"github.com/Strob0t/Consilium/internal/port/evaluator"
)

// participant pairs a panel member with its priority for the decision at hand.
type participant struct {
	member   panel.Member
	priority int
}

// selectParticipants picks the members relevant to the required domains,
// highest priority first. The first entry leads the decision. With no
// relevant member the first active member is drafted at minimum priority so
// a populated panel never yields an empty round.
func selectParticipants(members []panel.Member, domains []string) []participant {
	var selected []participant
	for _, m := range members {
		if !m.Active {
			continue
		}
		if p := m.PriorityFor(domains); p > 0 {
			selected = append(selected, participant{member: m, priority: p})
		}
	}

	if len(selected) == 0 {
		for _, m := range members {
			if m.Active {
				return []participant{{member: m, priority: 1}}
			}
		}
		return nil
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].priority != selected[j].priority {
			return selected[i].priority > selected[j].priority
		}
		return selected[i].member.Name < selected[j].member.Name
	})
	return selected
}

// participationRecords builds the weight and expertise records for a round.
// The lead participates as proposer, everyone else as reviewer. Weight and
// expertise both derive from the member's domain priority on the 1..5 scale.
func participationRecords(selected []participant) ([]evaluation.Participation, error) {
	parts := make([]evaluation.Participation, 0, len(selected))
	for i, sel := range selected {
		kind := evaluation.KindReviewer
		if i == 0 {
			kind = evaluation.KindProposer
		}
		w := float64(sel.priority) / panel.MaxPriority
		p, err := evaluation.NewParticipation(sel.member.ID, sel.member.Role, kind, w, w)
		if err != nil {
			return nil, err
		}
		parts = append(parts, *p)
	}
	return parts, nil
}

func participantIDs(selected []participant) []string {
	ids := make([]string, len(selected))
	for i, sel := range selected {
		ids[i] = sel.member.ID
	}
	return ids
}

// gatherEvaluations fans the recommendation out to every reviewer under the
// concurrency limit and collects whatever arrives before the round deadline.
// A failed, timed-out or out-of-range evaluation is logged and dropped; it
// counts as non-participation, never as a round failure.
func (s *OrchestratorService) gatherEvaluations(ctx context.Context, rec *recommendation.Recommendation, selected []participant) []evaluation.Evaluation {
	ctx, cancel := context.WithTimeout(ctx, s.panelCfg.RoundTimeout)
	defer cancel()

	results := make(chan evaluation.Evaluation, len(selected))
	var wg sync.WaitGroup
	for _, sel := range selected[1:] {
		ev, ok := s.directory.Lookup(sel.member.ID)
		if !ok {
			s.log.Warn("no evaluator registered for member",
				slog.String("member_id", sel.member.ID),
				slog.String("member", sel.member.Name))
			continue
		}

		wg.Add(1)
		go func(sel participant, ev evaluator.Evaluator) {
			defer wg.Done()
			if err := s.sem.Acquire(ctx, 1); err != nil {
				s.log.Warn("round deadline reached before evaluator started",
					slog.String("member_id", sel.member.ID))
				return
			}
			defer s.sem.Release(1)

			res, err := ev.Evaluate(ctx, rec)
			if err != nil {
				s.log.Warn("evaluator did not respond",
					slog.String("member_id", sel.member.ID),
					slog.String("error", err.Error()))
				return
			}

			w := float64(sel.priority) / panel.MaxPriority
			e, err := evaluation.New(rec.ID, sel.member.ID, sel.member.Role,
				res.AgreementLevel, res.Concerns, res.Suggestions, res.SupportingArguments,
				w, res.Confidence)
			if err != nil {
				s.log.Warn("evaluator returned out-of-range values",
					slog.String("member_id", sel.member.ID),
					slog.String("error", err.Error()))
				return
			}
			results <- *e
		}(sel, ev)
	}
	wg.Wait()
	close(results)

	evals := make([]evaluation.Evaluation, 0, len(selected))
	for e := range results {
		evals = append(evals, e)
	}
	sort.Slice(evals, func(i, j int) bool { return evals[i].EvaluatorID < evals[j].EvaluatorID })
	return evals
}
