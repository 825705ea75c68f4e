package heuristic

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/Strob0t/Consilium/internal/domain/panel"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
	"github.com/Strob0t/Consilium/internal/port/evaluator"
)

const (
	biasFloor   = 0.35
	biasSpan    = 0.5
	domainSway  = 0.2
	dragPerItem = 0.05
	swayCap     = 0.15

	concernThreshold    = 0.5
	suggestionThreshold = 0.8
	argumentThreshold   = 0.7
)

// Evaluator scores recommendations for one panel member. The score combines
// a fixed per-member disposition with domain coverage, open uncertainty and
// how much prior feedback the recommendation has already absorbed, so
// repeated rounds over a revised recommendation trend upward. Scoring is
// fully deterministic for a given member and recommendation.
type Evaluator struct {
	member panel.Member
	bias   float64
}

func NewEvaluator(m panel.Member) *Evaluator {
	h := fnv.New32a()
	_, _ = h.Write([]byte(m.ID))
	bias := biasFloor + biasSpan*float64(h.Sum32()%1000)/1000
	return &Evaluator{member: m, bias: bias}
}

func (e *Evaluator) Evaluate(_ context.Context, rec *recommendation.Recommendation) (*evaluator.Result, error) {
	score := e.bias

	// Domain coverage: how many of the member's priority domains the
	// recommendation actually analyzed.
	if len(e.member.DomainPriorities) > 0 {
		covered := 0
		for d := range e.member.DomainPriorities {
			if _, ok := rec.DomainAnalyses[d]; ok {
				covered++
			}
		}
		coverage := float64(covered) / float64(len(e.member.DomainPriorities))
		score += domainSway * (coverage - 0.5)
	}

	// Open uncertainty drags the score down, absorbed feedback lifts it.
	drag := dragPerItem * float64(len(rec.UncertaintyFactors))
	if drag > swayCap {
		drag = swayCap
	}
	lift := dragPerItem * float64(len(rec.Amendments)+len(rec.SupportingEvidence))
	if lift > swayCap {
		lift = swayCap
	}
	score += lift - drag

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	res := &evaluator.Result{
		AgreementLevel: score,
		Confidence:     0.6 + 0.4*e.bias*e.bias,
	}
	if res.Confidence > 1 {
		res.Confidence = 1
	}

	if score < concernThreshold {
		res.Concerns = append(res.Concerns,
			fmt.Sprintf("insufficient supporting evidence for %s acceptance", e.member.Role))
		missing := make([]string, 0, len(e.member.DomainPriorities))
		for d := range e.member.DomainPriorities {
			if _, ok := rec.DomainAnalyses[d]; !ok {
				missing = append(missing, d)
			}
		}
		sort.Strings(missing)
		for _, d := range missing {
			res.Concerns = append(res.Concerns,
				fmt.Sprintf("no analysis provided for the %s domain", d))
		}
	}
	if score < suggestionThreshold {
		res.Suggestions = append(res.Suggestions,
			fmt.Sprintf("strengthen the evidence relevant to the %s perspective", e.member.Role))
	}
	if score >= argumentThreshold {
		res.SupportingArguments = append(res.SupportingArguments,
			fmt.Sprintf("aligned with %s priorities", e.member.Role))
	}
	return res, nil
}

// Directory maps panel member IDs to their heuristic evaluators.
type Directory struct {
	evaluators map[string]evaluator.Evaluator
}

// NewDirectory builds evaluators for every given member.
func NewDirectory(members []panel.Member) *Directory {
	d := &Directory{evaluators: make(map[string]evaluator.Evaluator, len(members))}
	for _, m := range members {
		d.evaluators[m.ID] = NewEvaluator(m)
	}
	return d
}

// Register adds or replaces the evaluator for a member.
func (d *Directory) Register(memberID string, ev evaluator.Evaluator) {
	d.evaluators[memberID] = ev
}

func (d *Directory) Lookup(memberID string) (evaluator.Evaluator, bool) {
	ev, ok := d.evaluators[memberID]
	return ev, ok
}
