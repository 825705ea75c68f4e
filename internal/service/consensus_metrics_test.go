package service_test

import (
	"math"
	"testing"

	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/service"
)

func mustEval(t *testing.T, id, role string, agreement float64) evaluation.Evaluation {
	t.Helper()
	e, err := evaluation.New("rec-1", id, role, agreement, nil, nil, nil, 0.8, 0.7)
	if err != nil {
		t.Fatalf("evaluation.New: %v", err)
	}
	return *e
}

func mustEvalFull(t *testing.T, id, role string, agreement, expertise, confidence float64, concerns, suggestions, args []string) evaluation.Evaluation {
	t.Helper()
	e, err := evaluation.New("rec-1", id, role, agreement, concerns, suggestions, args, expertise, confidence)
	if err != nil {
		t.Fatalf("evaluation.New: %v", err)
	}
	return *e
}

func mustPart(t *testing.T, id, role string, kind evaluation.ParticipationKind, weight, expertise float64) evaluation.Participation {
	t.Helper()
	p, err := evaluation.NewParticipation(id, role, kind, weight, expertise)
	if err != nil {
		t.Fatalf("evaluation.NewParticipation: %v", err)
	}
	return *p
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSupportMetricsEmpty(t *testing.T) {
	m := service.SupportMetrics(nil, nil)
	if m.WeightedSupport != 0 || m.UnweightedSupport != 0 || m.ParticipationRate != 0 {
		t.Errorf("expected zero metrics, got %+v", m)
	}
	if m.Bands.Total() != 0 {
		t.Errorf("expected empty bands, got %+v", m.Bands)
	}
}

func TestSupportMetricsWeighted(t *testing.T) {
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "strategist", 1.0),
		mustEval(t, "b", "analyst", 0.5),
	}
	parts := []evaluation.Participation{
		mustPart(t, "a", "strategist", evaluation.KindReviewer, 1.0, 0.9),
		mustPart(t, "b", "analyst", evaluation.KindReviewer, 0.5, 0.4),
	}

	m := service.SupportMetrics(evals, parts)

	// weighted = (1.0*0.9 + 0.5*0.2) / (0.9 + 0.2)
	wantWeighted := (1.0*0.9 + 0.5*0.2) / 1.1
	if !near(m.WeightedSupport, wantWeighted) {
		t.Errorf("WeightedSupport = %v, want %v", m.WeightedSupport, wantWeighted)
	}
	if !near(m.UnweightedSupport, 0.75) {
		t.Errorf("UnweightedSupport = %v, want 0.75", m.UnweightedSupport)
	}
	if !near(m.ParticipationRate, 1.0) {
		t.Errorf("ParticipationRate = %v, want 1.0", m.ParticipationRate)
	}
}

func TestSupportMetricsWeightedFallsBackToUnweighted(t *testing.T) {
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "strategist", 0.9),
		mustEval(t, "b", "analyst", 0.3),
	}
	// Zero weight participation removes all weighted contribution.
	parts := []evaluation.Participation{
		mustPart(t, "a", "strategist", evaluation.KindReviewer, 0, 0.9),
		mustPart(t, "b", "analyst", evaluation.KindReviewer, 0.5, 0),
	}

	m := service.SupportMetrics(evals, parts)
	if !near(m.WeightedSupport, m.UnweightedSupport) {
		t.Errorf("expected fallback to unweighted %v, got %v", m.UnweightedSupport, m.WeightedSupport)
	}
}

func TestSupportMetricsPartialParticipation(t *testing.T) {
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "strategist", 0.8),
		mustEval(t, "b", "analyst", 0.6),
	}
	parts := []evaluation.Participation{
		mustPart(t, "a", "strategist", evaluation.KindReviewer, 0.8, 0.8),
		mustPart(t, "b", "analyst", evaluation.KindReviewer, 0.8, 0.8),
		mustPart(t, "c", "counsel", evaluation.KindReviewer, 0.8, 0.8),
		mustPart(t, "d", "officer", evaluation.KindProposer, 0.8, 0.8),
	}

	m := service.SupportMetrics(evals, parts)
	if !near(m.ParticipationRate, 0.5) {
		t.Errorf("ParticipationRate = %v, want 0.5", m.ParticipationRate)
	}
}

func TestSupportMetricsBands(t *testing.T) {
	agreements := []float64{0.05, 0.2, 0.39, 0.4, 0.59, 0.6, 0.79, 0.8, 1.0}
	evals := make([]evaluation.Evaluation, 0, len(agreements))
	for i, a := range agreements {
		evals = append(evals, mustEval(t, string(rune('a'+i)), "analyst", a))
	}

	m := service.SupportMetrics(evals, nil)
	b := m.Bands
	if b.StrongOpposition != 1 {
		t.Errorf("StrongOpposition = %d, want 1", b.StrongOpposition)
	}
	if b.ModerateOpposition != 2 {
		t.Errorf("ModerateOpposition = %d, want 2", b.ModerateOpposition)
	}
	if b.Neutral != 2 {
		t.Errorf("Neutral = %d, want 2", b.Neutral)
	}
	if b.ModerateSupport != 2 {
		t.Errorf("ModerateSupport = %d, want 2", b.ModerateSupport)
	}
	if b.StrongSupport != 2 {
		t.Errorf("StrongSupport = %d, want 2", b.StrongSupport)
	}
	if b.Total() != len(agreements) {
		t.Errorf("Bands.Total() = %d, want %d", b.Total(), len(agreements))
	}
	if m.ParticipationRate != 1.0 {
		t.Errorf("ParticipationRate = %v, want 1.0 with no expected participants", m.ParticipationRate)
	}
}

func TestSupportMetricsBounds(t *testing.T) {
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "strategist", 0),
		mustEval(t, "b", "analyst", 1),
		mustEval(t, "c", "counsel", 0.42),
	}
	parts := []evaluation.Participation{
		mustPart(t, "a", "strategist", evaluation.KindReviewer, 1, 1),
		mustPart(t, "b", "analyst", evaluation.KindReviewer, 0.2, 0.3),
	}

	m := service.SupportMetrics(evals, parts)
	for name, v := range map[string]float64{
		"WeightedSupport":   m.WeightedSupport,
		"UnweightedSupport": m.UnweightedSupport,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v outside [0,1]", name, v)
		}
	}
}
