package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Strob0t/Consilium/internal/domain/evaluation"
)

// DisagreementReport describes the shape of disagreement in one round of
// evaluations, independent of any resolution attempt.
type DisagreementReport struct {
	Mean              float64          `json:"mean"`
	StdDev            float64          `json:"std_dev"`
	Range             float64          `json:"range"`
	PolarizationIndex float64          `json:"polarization_index"`
	Clusters          []OpinionCluster `json:"clusters,omitempty"`
	ConcernCategories map[string]int   `json:"concern_categories,omitempty"`
	RolePatterns      []RolePattern    `json:"role_patterns,omitempty"`
	Interpretation    string           `json:"interpretation"`
}

// OpinionCluster groups evaluators whose agreement levels sit close together.
type OpinionCluster struct {
	Center     float64  `json:"center"`
	Evaluators []string `json:"evaluators"`
}

// RolePattern is the per-role agreement summary.
type RolePattern struct {
	Role  string  `json:"role"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// concernCategory keywords, matched case-insensitively against concern text.
var concernCategories = map[string][]string{
	"risk":        {"risk", "danger", "threat", "exposure", "liability"},
	"ethics":      {"ethic", "fair", "bias", "privacy", "harm"},
	"feasibility": {"feasib", "complex", "timeline", "capacity", "resource"},
	"cost":        {"cost", "budget", "expense", "price", "afford"},
	"strategy":    {"strateg", "align", "priorit", "direction", "roadmap"},
	"legal":       {"legal", "regulat", "complian", "law", "contract"},
}

const clusterWidth = 0.15

// AnalyzeDisagreement computes descriptive statistics over a round of
// evaluations. It never mutates its input and returns a zero-valued report
// for an empty round.
func AnalyzeDisagreement(evals []evaluation.Evaluation) *DisagreementReport {
	r := &DisagreementReport{}
	if len(evals) == 0 {
		r.Interpretation = "no evaluations to analyze"
		return r
	}

	var sum, minA, maxA float64
	minA, maxA = 1, 0
	for _, e := range evals {
		sum += e.AgreementLevel
		if e.AgreementLevel < minA {
			minA = e.AgreementLevel
		}
		if e.AgreementLevel > maxA {
			maxA = e.AgreementLevel
		}
	}
	r.Mean = sum / float64(len(evals))
	r.Range = maxA - minA

	var variance float64
	for _, e := range evals {
		d := e.AgreementLevel - r.Mean
		variance += d * d
	}
	variance /= float64(len(evals))
	r.StdDev = math.Sqrt(variance)

	r.PolarizationIndex = polarizationIndex(evals)
	r.Clusters = clusterOpinions(evals)
	r.ConcernCategories = categorizeConcerns(evals)
	r.RolePatterns = rolePatterns(evals)
	r.Interpretation = interpret(r)
	return r
}

// polarizationIndex measures how much opinion mass sits at the extremes
// rather than the middle. 0 means everyone is moderate, 1 means the panel
// splits entirely into strong support and strong opposition.
func polarizationIndex(evals []evaluation.Evaluation) float64 {
	var extreme int
	for _, e := range evals {
		if e.AgreementLevel >= polarizedSupportFloor || e.AgreementLevel <= polarizedOpposeCeiling {
			extreme++
		}
	}
	return float64(extreme) / float64(len(evals))
}

// clusterOpinions groups evaluators whose agreement levels fall within
// clusterWidth of a cluster's running center. Input order determines seed
// order, so output is stable for sorted evaluations.
func clusterOpinions(evals []evaluation.Evaluation) []OpinionCluster {
	type cluster struct {
		sum     float64
		members []string
	}
	var clusters []*cluster
	for _, e := range evals {
		placed := false
		for _, c := range clusters {
			center := c.sum / float64(len(c.members))
			if math.Abs(e.AgreementLevel-center) <= clusterWidth {
				c.sum += e.AgreementLevel
				c.members = append(c.members, e.EvaluatorID)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, &cluster{sum: e.AgreementLevel, members: []string{e.EvaluatorID}})
		}
	}

	out := make([]OpinionCluster, len(clusters))
	for i, c := range clusters {
		out[i] = OpinionCluster{
			Center:     c.sum / float64(len(c.members)),
			Evaluators: c.members,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Center > out[j].Center })
	return out
}

func categorizeConcerns(evals []evaluation.Evaluation) map[string]int {
	counts := make(map[string]int)
	for _, e := range evals {
		for _, concern := range e.Concerns {
			lower := strings.ToLower(concern)
			matched := false
			for category, keywords := range concernCategories {
				for _, kw := range keywords {
					if strings.Contains(lower, kw) {
						counts[category]++
						matched = true
						break
					}
				}
			}
			if !matched {
				counts["other"]++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}

func rolePatterns(evals []evaluation.Evaluation) []RolePattern {
	type agg struct {
		sum   float64
		count int
	}
	byRole := make(map[string]*agg)
	for _, e := range evals {
		a, ok := byRole[e.Role]
		if !ok {
			a = &agg{}
			byRole[e.Role] = a
		}
		a.sum += e.AgreementLevel
		a.count++
	}

	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	out := make([]RolePattern, len(roles))
	for i, role := range roles {
		a := byRole[role]
		out[i] = RolePattern{Role: role, Mean: a.sum / float64(a.count), Count: a.count}
	}
	return out
}

func interpret(r *DisagreementReport) string {
	switch {
	case r.PolarizationIndex >= 0.6 && r.StdDev >= 0.25:
		return fmt.Sprintf("panel is polarized: %.0f%% of evaluators hold extreme positions", r.PolarizationIndex*100)
	case r.StdDev >= 0.25:
		return "opinions are widely dispersed without clear camps"
	case r.Mean >= 0.7:
		return "panel is broadly supportive with minor dissent"
	case r.Mean <= 0.3:
		return "panel is broadly opposed"
	default:
		return "panel is moderately divided"
	}
}
