package service_test

import (
	"log/slog"
	"testing"

	"github.com/Strob0t/Consilium/internal/config"
	"github.com/Strob0t/Consilium/internal/domain/conflict"
	"github.com/Strob0t/Consilium/internal/domain/consensus"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/service"
)

func testConsensusConfig() config.Consensus {
	return config.Consensus{
		Threshold:                0.7,
		MinParticipation:         0.5,
		AutoResolutionThreshold:  0.85,
		MaxResolutionAttempts:    3,
		HumanEscalationThreshold: 0.3,
		EnableVeto:               true,
	}
}

func newConsensusService() *service.ConsensusService {
	return service.NewConsensusService(testConsensusConfig(), slog.New(slog.DiscardHandler))
}

func TestBuildDirectConsensus(t *testing.T) {
	rec := testRecommendation()
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "strategist", 0.9),
		mustEval(t, "b", "analyst", 0.85),
		mustEval(t, "c", "counsel", 0.8),
	}

	out := newConsensusService().Build(rec, evals, nil)

	if out.Modified {
		t.Error("direct consensus must not modify the recommendation")
	}
	if out.Recommendation != rec {
		t.Error("direct consensus must return the original recommendation")
	}
	if out.ResolutionMethod != "direct consensus" {
		t.Errorf("ResolutionMethod = %q", out.ResolutionMethod)
	}
	if out.Level.NeedsResolution() {
		t.Errorf("level %s should not need resolution", out.Level)
	}
	if len(out.Supporting) != 3 || len(out.Opposing) != 0 {
		t.Errorf("stances = %v / %v / %v", out.Supporting, out.Opposing, out.Abstaining)
	}
}

func TestBuildAppliesResolution(t *testing.T) {
	rec := testRecommendation()
	evals := []evaluation.Evaluation{
		// roles interleave across the camps so the divide is not role-aligned
		mustEvalFull(t, "a", "strategist", 0.9, 0.8, 0.7, nil, nil, []string{"clear upside"}),
		mustEvalFull(t, "b", "counsel", 0.9, 0.8, 0.7, nil, nil, nil),
		mustEvalFull(t, "c", "strategist", 0.1, 0.8, 0.7, []string{"liability risk"}, nil, nil),
		mustEvalFull(t, "d", "counsel", 0.1, 0.8, 0.7, nil, nil, nil),
	}

	out := newConsensusService().Build(rec, evals, nil)

	if !out.Modified {
		t.Fatal("polarized panel must produce a modified recommendation")
	}
	if out.Recommendation == rec {
		t.Error("amended recommendation must be a copy")
	}
	if out.ResolutionMethod != string(conflict.MethodStructuredDebate) {
		t.Errorf("ResolutionMethod = %q, want structured_debate", out.ResolutionMethod)
	}
	if len(out.KeyConflicts) != 1 || !out.KeyConflicts[0].Critical {
		t.Errorf("KeyConflicts = %+v, want the critical polarization conflict", out.KeyConflicts)
	}
	// weighted 0.5, structured_debate adds 0.20, one critical costs 0.05
	if !near(out.SupportPercentage, 0.65) {
		t.Errorf("SupportPercentage = %v, want projected 0.65", out.SupportPercentage)
	}
	if out.Level != consensus.LevelMajorityAgreement {
		t.Errorf("Level = %s, want majority_agreement for 0.65", out.Level)
	}
	if len(out.Supporting) != 2 || len(out.Opposing) != 2 {
		t.Errorf("stances = %v / %v", out.Supporting, out.Opposing)
	}
	if len(rec.Amendments) != 0 {
		t.Error("original recommendation was mutated")
	}
}

func TestBuildInsufficientWithoutConflicts(t *testing.T) {
	rec := testRecommendation()
	evals := []evaluation.Evaluation{
		mustEval(t, "a", "strategist", 0.5),
		mustEval(t, "b", "analyst", 0.5),
	}

	out := newConsensusService().Build(rec, evals, nil)

	if out.Modified {
		t.Error("no detected conflicts means nothing to resolve")
	}
	if out.ResolutionMethod != "none" {
		t.Errorf("ResolutionMethod = %q, want none", out.ResolutionMethod)
	}
	if !near(out.SupportPercentage, 0.5) {
		t.Errorf("SupportPercentage = %v, want raw 0.5", out.SupportPercentage)
	}
	if !out.Level.NeedsResolution() {
		t.Errorf("level %s should still need resolution", out.Level)
	}
	if len(out.Abstaining) != 2 {
		t.Errorf("two neutral evaluators should abstain, got %v", out.Abstaining)
	}
}
