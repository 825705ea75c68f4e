// Package consensus defines aggregate support metrics, the discrete consensus
// level classification, and the per-round outcome record.
package consensus

import (
	"time"

	"github.com/Strob0t/Consilium/internal/domain/conflict"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
)

// Level is the discrete classification of aggregate support.
type Level string

const (
	LevelStrongConsensus    Level = "strong_consensus"
	LevelGeneralConsensus   Level = "general_consensus"
	LevelMajorityAgreement  Level = "majority_agreement"
	LevelDividedOpinion     Level = "divided_opinion"
	LevelStrongDisagreement Level = "strong_disagreement"
)

// LevelFor maps a support percentage to its consensus level. The thresholds
// are fixed; the mapping is monotonically non-decreasing in support.
func LevelFor(support float64) Level {
	switch {
	case support >= 0.90:
		return LevelStrongConsensus
	case support >= 0.75:
		return LevelGeneralConsensus
	case support >= 0.60:
		return LevelMajorityAgreement
	case support >= 0.40:
		return LevelDividedOpinion
	default:
		return LevelStrongDisagreement
	}
}

// NeedsResolution reports whether the level is low enough that the
// orchestration loop should attempt another resolution round.
func (l Level) NeedsResolution() bool {
	return l == LevelDividedOpinion || l == LevelStrongDisagreement
}

// Bands counts evaluators in the five agreement intervals
// [0,0.2) [0.2,0.4) [0.4,0.6) [0.6,0.8) [0.8,1.0].
type Bands struct {
	StrongOpposition   int `json:"strong_opposition"`
	ModerateOpposition int `json:"moderate_opposition"`
	Neutral            int `json:"neutral"`
	ModerateSupport    int `json:"moderate_support"`
	StrongSupport      int `json:"strong_support"`
}

// Total returns the number of evaluations counted across all bands.
func (b Bands) Total() int {
	return b.StrongOpposition + b.ModerateOpposition + b.Neutral + b.ModerateSupport + b.StrongSupport
}

// Metrics is the aggregate support bundle for one evaluation round.
type Metrics struct {
	WeightedSupport   float64 `json:"weighted_support"`
	UnweightedSupport float64 `json:"unweighted_support"`
	ParticipationRate float64 `json:"participation_rate"`
	Bands             Bands   `json:"bands"`
}

// Outcome is the result of one consensus round. Instances are immutable and
// appended to the decision history in round order.
type Outcome struct {
	Recommendation      *recommendation.Recommendation `json:"recommendation"`
	Level               Level                          `json:"level"`
	SupportPercentage   float64                        `json:"support_percentage"`
	Supporting          []string                       `json:"supporting"`
	Opposing            []string                       `json:"opposing"`
	Abstaining          []string                       `json:"abstaining"`
	KeyConflicts        []conflict.Conflict            `json:"key_conflicts,omitempty"`
	ResolutionMethod    string                         `json:"resolution_method"`
	Modified            bool                           `json:"modified"`
	ModificationSummary string                         `json:"modification_summary,omitempty"`
	Metrics             Metrics                        `json:"metrics"`
	Timestamp           time.Time                      `json:"timestamp"`
}
