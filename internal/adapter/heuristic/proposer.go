// Package heuristic provides deterministic reference implementations of the
// proposer and evaluator ports. They let a panel run end to end without any
// external reasoning backend, for local development and tests.
package heuristic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/Consilium/internal/domain/decision"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
)

const (
	maxTitleLen            = 80
	maxUncertaintyCarrying = 5
)

// Proposer builds recommendations directly from the request text.
type Proposer struct {
	log *slog.Logger
}

func NewProposer(log *slog.Logger) *Proposer {
	return &Proposer{log: log}
}

type domainAnalysis struct {
	Domain string `json:"domain"`
	Notes  string `json:"notes"`
}

// truncateTitle caps the title at maxTitleLen runes. Slicing the string by
// bytes could split a multi-byte rune.
func truncateTitle(query string) string {
	if len(query) <= maxTitleLen {
		return query
	}
	runes := []rune(query)
	if len(runes) <= maxTitleLen {
		return query
	}
	return string(runes[:maxTitleLen])
}

func (p *Proposer) ProduceInitial(_ context.Context, req *decision.Request) (*recommendation.Recommendation, error) {
	title := truncateTitle(req.Query)

	analyses := make(map[string]json.RawMessage, len(req.RequiredDomains))
	for _, d := range req.RequiredDomains {
		data, err := json.Marshal(domainAnalysis{
			Domain: d,
			Notes:  fmt.Sprintf("baseline assessment for %s", d),
		})
		if err != nil {
			return nil, fmt.Errorf("marshal %s analysis: %w", d, err)
		}
		analyses[d] = data
	}

	rec := &recommendation.Recommendation{
		ID:          uuid.NewString(),
		Title:       title,
		Summary:     fmt.Sprintf("Proposed course of action for: %s", req.Query),
		Description: describe(req),
		Confidence:  recommendation.ConfidenceModerate,
		SuccessMetrics: []string{
			"panel support meets the acceptance threshold",
			"no unaddressed critical conflicts remain",
		},
		DomainAnalyses: analyses,
		CreatedAt:      time.Now().UTC(),
	}
	p.log.Debug("initial recommendation produced",
		slog.String("recommendation_id", rec.ID),
		slog.Int("domains", len(analyses)))
	return rec, nil
}

// Revise folds the round's feedback into a new copy: suggestions become
// supporting evidence, concerns become tracked uncertainty. The original
// recommendation is left untouched.
func (p *Proposer) Revise(_ context.Context, rec *recommendation.Recommendation, feedback []evaluation.Evaluation) (*recommendation.Recommendation, error) {
	revised := rec.Clone()

	seen := make(map[string]struct{}, len(revised.SupportingEvidence))
	for _, ev := range revised.SupportingEvidence {
		seen[ev] = struct{}{}
	}
	for _, e := range feedback {
		for _, s := range e.Suggestions {
			entry := "incorporated: " + s
			if _, dup := seen[entry]; dup {
				continue
			}
			seen[entry] = struct{}{}
			revised.SupportingEvidence = append(revised.SupportingEvidence, entry)
		}
	}

	carried := make(map[string]struct{}, len(revised.UncertaintyFactors))
	for _, u := range revised.UncertaintyFactors {
		carried[u] = struct{}{}
	}
	for _, e := range feedback {
		for _, c := range e.Concerns {
			if len(revised.UncertaintyFactors) >= maxUncertaintyCarrying {
				break
			}
			if _, dup := carried[c]; dup {
				continue
			}
			carried[c] = struct{}{}
			revised.UncertaintyFactors = append(revised.UncertaintyFactors, c)
		}
	}

	p.log.Debug("recommendation revised",
		slog.String("recommendation_id", revised.ID),
		slog.Int("feedback", len(feedback)))
	return revised, nil
}

func describe(req *decision.Request) string {
	desc := req.Query
	if len(req.Constraints) > 0 {
		desc += "\n\nConstraints:"
		for _, c := range req.Constraints {
			desc += "\n- " + c
		}
	}
	return desc
}
