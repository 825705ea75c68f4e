package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Strob0t/Consilium/internal/domain/conflict"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
)

const (
	polarizedSupportFloor  = 0.7
	polarizedOpposeCeiling = 0.3
	roleGapThreshold       = 0.4
	roleGapCriticalGap     = 0.6
)

// DetectConflicts inspects a round of evaluations and classifies the
// disagreements it finds. Detection runs three independent passes: concerns
// raised by more than one evaluator, polarization between strongly supportive
// and strongly opposed camps, and systematic gaps between role averages.
//
// Fewer than two evaluations can never conflict. Output ordering is stable
// for a given input ordering.
func DetectConflicts(evals []evaluation.Evaluation) []conflict.Conflict {
	if len(evals) < 2 {
		return nil
	}

	var conflicts []conflict.Conflict
	conflicts = append(conflicts, sharedConcernConflicts(evals)...)
	if c, ok := polarizationConflict(evals); ok {
		conflicts = append(conflicts, c)
	}
	conflicts = append(conflicts, roleConflicts(evals)...)
	return conflicts
}

type concernGroup struct {
	text       string
	evaluators []string
}

func sharedConcernConflicts(evals []evaluation.Evaluation) []conflict.Conflict {
	groups := make(map[string]*concernGroup)
	var order []string
	for _, e := range evals {
		for _, concern := range e.Concerns {
			key := strings.ToLower(strings.TrimSpace(concern))
			if key == "" {
				continue
			}
			g, ok := groups[key]
			if !ok {
				g = &concernGroup{text: concern}
				groups[key] = g
				order = append(order, key)
			}
			g.evaluators = append(g.evaluators, e.EvaluatorID)
		}
	}

	n := float64(len(evals))
	var conflicts []conflict.Conflict
	for _, key := range order {
		g := groups[key]
		count := float64(len(g.evaluators))
		if count < 2 {
			continue
		}
		severity := conflict.SeverityLow
		if count > n/3 {
			severity = conflict.SeverityMedium
		}
		conflicts = append(conflicts, conflict.Conflict{
			Kind:        conflict.KindSharedConcern,
			Description: fmt.Sprintf("multiple evaluators raised the concern: %s", g.text),
			Evaluators:  g.evaluators,
			Severity:    severity,
			Critical:    count > n/2,
		})
	}
	return conflicts
}

func polarizationConflict(evals []evaluation.Evaluation) (conflict.Conflict, bool) {
	var supportive, opposing []string
	for _, e := range evals {
		switch {
		case e.AgreementLevel >= polarizedSupportFloor:
			supportive = append(supportive, e.EvaluatorID)
		case e.AgreementLevel <= polarizedOpposeCeiling:
			opposing = append(opposing, e.EvaluatorID)
		}
	}
	if len(supportive) == 0 || len(opposing) == 0 {
		return conflict.Conflict{}, false
	}

	severity := conflict.SeverityMedium
	critical := false
	if len(supportive) >= 2 && len(opposing) >= 2 {
		severity = conflict.SeverityHigh
		critical = true
	}
	return conflict.Conflict{
		Kind:        conflict.KindPolarizedOpinion,
		Description: "significant divide between strongly supportive and strongly opposed evaluators",
		Evaluators:  append(supportive, opposing...),
		Severity:    severity,
		Critical:    critical,
	}, true
}

func roleConflicts(evals []evaluation.Evaluation) []conflict.Conflict {
	type roleGroup struct {
		sum        float64
		evaluators []string
	}
	byRole := make(map[string]*roleGroup)
	for _, e := range evals {
		g, ok := byRole[e.Role]
		if !ok {
			g = &roleGroup{}
			byRole[e.Role] = g
		}
		g.sum += e.AgreementLevel
		g.evaluators = append(g.evaluators, e.EvaluatorID)
	}

	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var conflicts []conflict.Conflict
	for i := 0; i < len(roles); i++ {
		for j := i + 1; j < len(roles); j++ {
			a, b := byRole[roles[i]], byRole[roles[j]]
			meanA := a.sum / float64(len(a.evaluators))
			meanB := b.sum / float64(len(b.evaluators))
			gap := meanA - meanB
			if gap < 0 {
				gap = -gap
			}
			if gap <= roleGapThreshold {
				continue
			}

			supporting, opposing := roles[i], roles[j]
			if meanB > meanA {
				supporting, opposing = roles[j], roles[i]
			}
			severity := conflict.SeverityMedium
			critical := false
			if gap > roleGapCriticalGap {
				severity = conflict.SeverityHigh
				critical = true
			}
			conflicts = append(conflicts, conflict.Conflict{
				Kind:           conflict.KindRoleBased,
				Description:    fmt.Sprintf("systematic disagreement between %s and %s evaluators", supporting, opposing),
				Evaluators:     append(append([]string{}, a.evaluators...), b.evaluators...),
				SupportingRole: supporting,
				OpposingRole:   opposing,
				AgreementGap:   gap,
				Severity:       severity,
				Critical:       critical,
			})
		}
	}
	return conflicts
}
