package service_test

import (
	"strings"
	"testing"

	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/service"
)

func TestAnalyzeDisagreementEmpty(t *testing.T) {
	r := service.AnalyzeDisagreement(nil)
	if r.Mean != 0 || r.StdDev != 0 || r.Range != 0 {
		t.Errorf("expected zero statistics, got %+v", r)
	}
	if r.Interpretation != "no evaluations to analyze" {
		t.Errorf("Interpretation = %q", r.Interpretation)
	}
}

func TestAnalyzeDisagreementStatistics(t *testing.T) {
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "analyst", 0.2),
		mustEval(t, "b", "analyst", 0.4),
		mustEval(t, "c", "analyst", 0.6),
		mustEval(t, "d", "analyst", 0.8),
	}

	r := service.AnalyzeDisagreement(evals)

	if !near(r.Mean, 0.5) {
		t.Errorf("Mean = %v, want 0.5", r.Mean)
	}
	if !near(r.Range, 0.6) {
		t.Errorf("Range = %v, want 0.6", r.Range)
	}
	// population stddev of {0.2,0.4,0.6,0.8} around 0.5
	if !near(r.StdDev, 0.223606797749979) {
		t.Errorf("StdDev = %v", r.StdDev)
	}
	// 0.2 and 0.8 count as extreme positions
	if !near(r.PolarizationIndex, 0.5) {
		t.Errorf("PolarizationIndex = %v, want 0.5", r.PolarizationIndex)
	}
}

func TestAnalyzeDisagreementPolarizedInterpretation(t *testing.T) {
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "analyst", 0.95),
		mustEval(t, "b", "counsel", 0.9),
		mustEval(t, "c", "analyst", 0.05),
		mustEval(t, "d", "counsel", 0.1),
	}

	r := service.AnalyzeDisagreement(evals)

	if !strings.Contains(r.Interpretation, "polarized") {
		t.Errorf("Interpretation = %q, want polarized", r.Interpretation)
	}
	if len(r.Clusters) != 2 {
		t.Fatalf("Clusters = %+v, want 2 camps", r.Clusters)
	}
	// clusters are reported highest center first
	if r.Clusters[0].Center < r.Clusters[1].Center {
		t.Errorf("clusters not ordered by center: %+v", r.Clusters)
	}
	if len(r.Clusters[0].Evaluators) != 2 || len(r.Clusters[1].Evaluators) != 2 {
		t.Errorf("cluster sizes = %+v", r.Clusters)
	}
}

func TestAnalyzeDisagreementSupportiveInterpretation(t *testing.T) {
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "analyst", 0.8),
		mustEval(t, "b", "counsel", 0.75),
		mustEval(t, "c", "officer", 0.85),
	}
	r := service.AnalyzeDisagreement(evals)
	if !strings.Contains(r.Interpretation, "supportive") {
		t.Errorf("Interpretation = %q, want broadly supportive", r.Interpretation)
	}
}

func TestAnalyzeDisagreementConcernCategories(t *testing.T) {
	evals := []evaluation.Evaluation{
		mustEvalFull(t, "a", "analyst", 0.4, 0.8, 0.7, []string{
			"budget overrun is likely",
			"regulatory approval is uncertain",
		}, nil, nil),
		mustEvalFull(t, "b", "counsel", 0.5, 0.8, 0.7, []string{
			"reputational RISK if it fails",
			"the mascot is ugly",
		}, nil, nil),
	}

	r := service.AnalyzeDisagreement(evals)

	want := map[string]int{"cost": 1, "legal": 1, "risk": 1, "other": 1}
	for category, n := range want {
		if r.ConcernCategories[category] != n {
			t.Errorf("ConcernCategories[%s] = %d, want %d (all: %v)", category, r.ConcernCategories[category], n, r.ConcernCategories)
		}
	}
}

func TestAnalyzeDisagreementRolePatterns(t *testing.T) {
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "engineer", 0.9),
		mustEval(t, "b", "engineer", 0.7),
		mustEval(t, "c", "counsel", 0.2),
	}

	r := service.AnalyzeDisagreement(evals)

	if len(r.RolePatterns) != 2 {
		t.Fatalf("RolePatterns = %+v, want 2 roles", r.RolePatterns)
	}
	// sorted by role name
	if r.RolePatterns[0].Role != "counsel" || r.RolePatterns[1].Role != "engineer" {
		t.Errorf("role order = %+v", r.RolePatterns)
	}
	if !near(r.RolePatterns[1].Mean, 0.8) || r.RolePatterns[1].Count != 2 {
		t.Errorf("engineer pattern = %+v", r.RolePatterns[1])
	}
}
