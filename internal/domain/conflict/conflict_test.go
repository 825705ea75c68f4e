package conflict

import "testing"

func TestCriticals(t *testing.T) {
	conflicts := []Conflict{
		{Kind: KindSharedConcern, Critical: true},
		{Kind: KindPolarizedOpinion, Critical: false},
		{Kind: KindRoleBased, Critical: true},
	}
	got := Criticals(conflicts)
	if len(got) != 2 {
		t.Fatalf("Criticals = %d conflicts, want 2", len(got))
	}
	for _, c := range got {
		if !c.Critical {
			t.Errorf("non-critical conflict %+v in result", c)
		}
	}
	if Criticals(nil) != nil {
		t.Error("Criticals(nil) should be nil")
	}
}

func TestEffectiveness(t *testing.T) {
	if MethodIntegrative.Effectiveness() <= MethodEscalation.Effectiveness() {
		t.Error("integration should outperform escalation")
	}
	if got := ResolutionMethod("unknown").Effectiveness(); got != MethodEvidenceBased.Effectiveness() {
		t.Errorf("unknown method effectiveness = %v, want the evidence_based baseline", got)
	}
	for _, m := range []ResolutionMethod{
		MethodEvidenceBased, MethodWeightedVoting, MethodDelphi, MethodCompromise,
		MethodIntegrative, MethodEscalation, MethodStructuredDebate, MethodDialecticalInquiry,
	} {
		e := m.Effectiveness()
		if e <= 0 || e > 0.5 {
			t.Errorf("%s effectiveness %v outside the expected range", m, e)
		}
	}
}
