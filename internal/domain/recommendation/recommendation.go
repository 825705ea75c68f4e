// Package recommendation defines the recommendation under panel review and
// the additive amendments produced by conflict resolution.
package recommendation

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/Strob0t/Consilium/internal/domain/conflict"
)

// Confidence expresses how certain the proposer is about a recommendation.
type Confidence int

const (
	ConfidenceVeryLow Confidence = iota + 1
	ConfidenceLow
	ConfidenceModerate
	ConfidenceHigh
	ConfidenceVeryHigh
)

// Alternative is an option that was considered but not selected.
type Alternative struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Strengths      []string `json:"strengths,omitempty"`
	Weaknesses     []string `json:"weaknesses,omitempty"`
	WhyNotSelected string   `json:"why_not_selected,omitempty"`
}

// Amendment records one resolution pass applied to a recommendation.
// It is additive annotation only: which concerns and suggestions were
// incorporated, never regenerated content. The populated fields depend
// on the method that produced it.
type Amendment struct {
	Method                conflict.ResolutionMethod `json:"method"`
	Note                  string                    `json:"note"`
	IntegratedSuggestions []string                  `json:"integrated_suggestions,omitempty"`
	AddressedConcerns     []string                  `json:"addressed_concerns,omitempty"`
	SupportingArguments   []string                  `json:"supporting_arguments,omitempty"`
	OpposingConcerns      []string                  `json:"opposing_concerns,omitempty"`
}

// Recommendation is a proposed course of action under review by the panel.
// DomainAnalyses maps a domain name to an opaque analysis payload; veto
// matching depends only on key presence.
type Recommendation struct {
	ID                 string                     `json:"id"`
	Title              string                     `json:"title"`
	Summary            string                     `json:"summary"`
	Description        string                     `json:"description"`
	SupportingEvidence []string                   `json:"supporting_evidence,omitempty"`
	Confidence         Confidence                 `json:"confidence"`
	Alternatives       []Alternative              `json:"alternatives,omitempty"`
	SuccessMetrics     []string                   `json:"success_metrics,omitempty"`
	DomainAnalyses     map[string]json.RawMessage `json:"domain_analyses,omitempty"`
	UncertaintyFactors []string                   `json:"uncertainty_factors,omitempty"`
	Amendments         []Amendment                `json:"amendments,omitempty"`
	CreatedAt          time.Time                  `json:"created_at"`
}

// Domains returns the domain names covered by the recommendation's analyses,
// sorted for stable iteration.
func (r *Recommendation) Domains() []string {
	domains := make([]string, 0, len(r.DomainAnalyses))
	for d := range r.DomainAnalyses {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// Clone returns a deep copy, so a revision round never mutates the snapshot
// evaluators are reading.
func (r *Recommendation) Clone() *Recommendation {
	out := *r
	out.SupportingEvidence = append([]string(nil), r.SupportingEvidence...)
	out.SuccessMetrics = append([]string(nil), r.SuccessMetrics...)
	out.UncertaintyFactors = append([]string(nil), r.UncertaintyFactors...)
	out.Alternatives = append([]Alternative(nil), r.Alternatives...)
	out.Amendments = append([]Amendment(nil), r.Amendments...)
	if r.DomainAnalyses != nil {
		out.DomainAnalyses = make(map[string]json.RawMessage, len(r.DomainAnalyses))
		for k, v := range r.DomainAnalyses {
			out.DomainAnalyses[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &out
}
