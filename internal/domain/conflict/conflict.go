// Package conflict defines detected disagreement units and the resolution
// methods that can be applied to them.
package conflict

// Kind identifies the disagreement pattern a conflict was derived from.
type Kind string

const (
	KindSharedConcern    Kind = "shared_concern"
	KindPolarizedOpinion Kind = "polarized_opinion"
	KindRoleBased        Kind = "role_based"
)

// Severity classifies how badly a conflict blocks acceptance.
// It is always derived from detection thresholds, never assigned by callers.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Conflict is a single detected disagreement among evaluators.
// SupportingRole and OpposingRole are set only for role_based conflicts.
type Conflict struct {
	Kind           Kind     `json:"kind"`
	Description    string   `json:"description"`
	Evaluators     []string `json:"evaluators,omitempty"`
	SupportingRole string   `json:"supporting_role,omitempty"`
	OpposingRole   string   `json:"opposing_role,omitempty"`
	AgreementGap   float64  `json:"agreement_gap,omitempty"`
	Severity       Severity `json:"severity"`
	Critical       bool     `json:"critical"`
}

// Criticals returns the subset of conflicts severe enough to block
// direct acceptance.
func Criticals(conflicts []Conflict) []Conflict {
	var out []Conflict
	for _, c := range conflicts {
		if c.Critical {
			out = append(out, c)
		}
	}
	return out
}

// ResolutionMethod is a strategy for resolving disagreement among evaluators.
type ResolutionMethod string

const (
	MethodEvidenceBased      ResolutionMethod = "evidence_based"
	MethodWeightedVoting     ResolutionMethod = "weighted_voting"
	MethodDelphi             ResolutionMethod = "delphi_method"
	MethodCompromise         ResolutionMethod = "compromise"
	MethodIntegrative        ResolutionMethod = "integrative"
	MethodEscalation         ResolutionMethod = "escalation"
	MethodStructuredDebate   ResolutionMethod = "structured_debate"
	MethodDialecticalInquiry ResolutionMethod = "dialectical_inquiry"
)

// Effectiveness returns the expected support improvement when the method is
// applied. The values model how much each strategy historically moves a
// divided panel; unknown methods fall back to the evidence_based baseline.
func (m ResolutionMethod) Effectiveness() float64 {
	switch m {
	case MethodEvidenceBased:
		return 0.15
	case MethodWeightedVoting:
		return 0.20
	case MethodDelphi:
		return 0.25
	case MethodCompromise:
		return 0.15
	case MethodIntegrative:
		return 0.30
	case MethodEscalation:
		return 0.05
	case MethodStructuredDebate:
		return 0.20
	case MethodDialecticalInquiry:
		return 0.25
	default:
		return 0.15
	}
}
