// Package evaluation defines the structured assessment an evaluator produces
// for a recommendation, and the participation record describing each
// evaluator's standing in a decision.
package evaluation

import "fmt"

// ProposerWeightFloor is the minimum contribution weight for the member whose
// analysis produced the recommendation under review.
const ProposerWeightFloor = 0.8

// ParticipationKind distinguishes the proposing member from reviewers.
type ParticipationKind string

const (
	KindProposer ParticipationKind = "proposer"
	KindReviewer ParticipationKind = "reviewer"
)

// Evaluation is one evaluator's structured position on one recommendation.
// Immutable after construction; a new round produces new records.
type Evaluation struct {
	RecommendationID    string   `json:"recommendation_id"`
	EvaluatorID         string   `json:"evaluator_id"`
	Role                string   `json:"role"`
	AgreementLevel      float64  `json:"agreement_level"`
	Concerns            []string `json:"concerns,omitempty"`
	Suggestions         []string `json:"suggestions,omitempty"`
	SupportingArguments []string `json:"supporting_arguments,omitempty"`
	Expertise           float64  `json:"expertise"`
	Confidence          float64  `json:"confidence"`
}

// New validates and constructs an Evaluation. Agreement, expertise and
// confidence must each be in [0,1]; a violation is a construction error,
// not a silent clamp.
func New(recommendationID, evaluatorID, role string, agreement float64, concerns, suggestions, supportingArgs []string, expertise, confidence float64) (*Evaluation, error) {
	if err := unit("agreement_level", agreement); err != nil {
		return nil, err
	}
	if err := unit("expertise", expertise); err != nil {
		return nil, err
	}
	if err := unit("confidence", confidence); err != nil {
		return nil, err
	}
	return &Evaluation{
		RecommendationID:    recommendationID,
		EvaluatorID:         evaluatorID,
		Role:                role,
		AgreementLevel:      agreement,
		Concerns:            concerns,
		Suggestions:         suggestions,
		SupportingArguments: supportingArgs,
		Expertise:           expertise,
		Confidence:          confidence,
	}, nil
}

// Participation records one member's standing in a decision: how it
// participates and how much weight its agreement carries.
type Participation struct {
	EvaluatorID string            `json:"evaluator_id"`
	Role        string            `json:"role"`
	Kind        ParticipationKind `json:"kind"`
	Weight      float64           `json:"weight"`
	Expertise   float64           `json:"expertise"`
}

// NewParticipation validates and constructs a Participation record.
// The proposer's weight is floored at ProposerWeightFloor.
func NewParticipation(evaluatorID, role string, kind ParticipationKind, weight, expertise float64) (*Participation, error) {
	if err := unit("weight", weight); err != nil {
		return nil, err
	}
	if err := unit("expertise", expertise); err != nil {
		return nil, err
	}
	if kind != KindProposer && kind != KindReviewer {
		return nil, fmt.Errorf("participation kind %q is not valid", kind)
	}
	if kind == KindProposer && weight < ProposerWeightFloor {
		weight = ProposerWeightFloor
	}
	return &Participation{
		EvaluatorID: evaluatorID,
		Role:        role,
		Kind:        kind,
		Weight:      weight,
		Expertise:   expertise,
	}, nil
}

func unit(field string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s %v is outside [0,1]", field, v)
	}
	return nil
}
