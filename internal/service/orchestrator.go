package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"

	csotel "github.com/Strob0t/Consilium/internal/adapter/otel"
	"github.com/Strob0t/Consilium/internal/adapter/ws"
	"github.com/Strob0t/Consilium/internal/config"
	"github.com/Strob0t/Consilium/internal/domain/consensus"
	"github.com/Strob0t/Consilium/internal/domain/decision"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/domain/recommendation"
	"github.com/Strob0t/Consilium/internal/port/broadcast"
	"github.com/Strob0t/Consilium/internal/port/database"
	"github.com/Strob0t/Consilium/internal/port/evaluator"
	"github.com/Strob0t/Consilium/internal/port/history"
	"github.com/Strob0t/Consilium/internal/port/messagequeue"
	"github.com/Strob0t/Consilium/internal/port/proposer"
)

// OrchestratorService runs decisions end to end: it selects participants,
// obtains the initial recommendation, drives bounded resolution rounds, and
// applies veto and escalation policy to the result.
type OrchestratorService struct {
	cfg       config.Consensus
	panelCfg  config.Panel
	store     database.Store
	history   history.Store
	queue     messagequeue.Queue
	hub       broadcast.Broadcaster
	proposer  proposer.Proposer
	directory evaluator.Directory
	consensus *ConsensusService
	metrics   *csotel.Metrics
	sem       *semaphore.Weighted
	log       *slog.Logger
}

func NewOrchestratorService(
	cfg config.Consensus,
	panelCfg config.Panel,
	store database.Store,
	hist history.Store,
	queue messagequeue.Queue,
	hub broadcast.Broadcaster,
	prop proposer.Proposer,
	dir evaluator.Directory,
	metrics *csotel.Metrics,
	log *slog.Logger,
) *OrchestratorService {
	return &OrchestratorService{
		cfg:       cfg,
		panelCfg:  panelCfg,
		store:     store,
		history:   hist,
		queue:     queue,
		hub:       hub,
		proposer:  prop,
		directory: dir,
		consensus: NewConsensusService(cfg, log),
		metrics:   metrics,
		sem:       semaphore.NewWeighted(int64(panelCfg.MaxParallel)),
		log:       log,
	}
}

// Decide runs one decision from request to terminal status. The returned
// decision is already persisted. Failures before the first round leave no
// partial decision behind; failures after it persist the last known state.
func (s *OrchestratorService) Decide(ctx context.Context, req *decision.Request) (*decision.Decision, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	ctx, span := csotel.StartDecisionSpan(ctx, req.ID, req.Query)
	defer span.End()
	started := time.Now()

	members, err := s.store.ListActiveMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}
	selected := selectParticipants(members, req.RequiredDomains)
	if len(selected) == 0 {
		span.SetStatus(codes.Error, "no participants")
		return nil, decision.ErrNoParticipants
	}
	lead := selected[0]
	parts, err := participationRecords(selected)
	if err != nil {
		return nil, fmt.Errorf("build participation records: %w", err)
	}

	rec, err := s.proposer.ProduceInitial(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, "initial recommendation failed")
		return nil, fmt.Errorf("produce initial recommendation: %w", err)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	d := &decision.Decision{
		ID:           req.ID,
		Query:        req.Query,
		Request:      *req,
		Status:       decision.StatusRunning,
		Lead:         lead.member.ID,
		Participants: participantIDs(selected),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateDecision(ctx, d); err != nil {
		return nil, fmt.Errorf("create decision: %w", err)
	}

	s.log.Info("decision started",
		slog.String("decision_id", d.ID),
		slog.String("lead", lead.member.Name),
		slog.Int("participants", len(selected)))
	s.publishJSON(ctx, messagequeue.SubjectDecisionRequested, messagequeue.DecisionEventPayload{
		DecisionID: d.ID,
		Query:      d.Query,
		Status:     string(d.Status),
	})
	if s.metrics != nil {
		s.metrics.DecisionsStarted.Add(ctx, 1)
	}

	out, evals, rounds := s.resolutionLoop(ctx, d, rec, selected, parts)

	d.Rounds = rounds
	d.Recommendation = out.Recommendation
	d.Consensus = out
	d.Escalated = out.SupportPercentage < s.cfg.HumanEscalationThreshold
	if out.Metrics.ParticipationRate < s.cfg.MinParticipation {
		// Too few responses to trust the numbers, whatever they say.
		d.Escalated = true
		s.log.Warn("participation below minimum",
			slog.String("decision_id", d.ID),
			slog.Float64("participation_rate", out.Metrics.ParticipationRate),
			slog.Float64("minimum", s.cfg.MinParticipation))
	}

	if s.cfg.EnableVeto {
		if v := s.checkVeto(out.Recommendation, evals, members); v != nil {
			d.Status = decision.StatusVetoed
			d.Veto = v
			d.Escalated = true
		}
	}
	if d.Status != decision.StatusVetoed {
		if out.Level.NeedsResolution() {
			d.Status = decision.StatusUnresolved
		} else {
			d.Status = decision.StatusAccepted
		}
	}
	d.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateDecision(ctx, d); err != nil {
		return nil, fmt.Errorf("update decision: %w", err)
	}
	s.finish(ctx, d, started)
	return d, nil
}

// resolutionLoop runs evaluation rounds until consensus is adequate or the
// retry budget is exhausted. It always runs at least one round and returns
// the final outcome together with the evaluations of the last round.
func (s *OrchestratorService) resolutionLoop(ctx context.Context, d *decision.Decision, rec *recommendation.Recommendation, selected []participant, parts []evaluation.Participation) (*consensus.Outcome, []evaluation.Evaluation, int) {
	var (
		out   *consensus.Outcome
		evals []evaluation.Evaluation
	)
	rounds := 0
	for {
		rounds++
		roundCtx, roundSpan := csotel.StartRoundSpan(ctx, d.ID, rounds)

		evals = s.gatherEvaluations(roundCtx, rec, selected)
		out = s.consensus.Build(rec, evals, parts)
		roundSpan.SetAttributes(
			attribute.Float64("consensus.support", out.SupportPercentage),
			attribute.String("consensus.level", string(out.Level)),
		)
		roundSpan.End()

		if err := s.history.Append(ctx, d.ID, rounds, out); err != nil {
			s.log.Error("append round history failed",
				slog.String("decision_id", d.ID),
				slog.Int("round", rounds),
				slog.String("error", err.Error()))
		}
		s.publishJSON(ctx, messagequeue.SubjectRoundCompleted, messagequeue.DecisionEventPayload{
			DecisionID:        d.ID,
			Query:             d.Query,
			Status:            string(decision.StatusRunning),
			Round:             rounds,
			Level:             string(out.Level),
			SupportPercentage: out.SupportPercentage,
		})
		s.hub.BroadcastEvent(ctx, ws.EventRoundCompleted, ws.RoundCompletedEvent{
			DecisionID:        d.ID,
			Round:             rounds,
			Level:             string(out.Level),
			SupportPercentage: out.SupportPercentage,
			ResolutionMethod:  out.ResolutionMethod,
			CriticalConflicts: len(out.KeyConflicts),
		})
		if s.metrics != nil {
			s.metrics.RoundsCompleted.Add(ctx, 1)
		}
		s.log.Info("consensus round completed",
			slog.String("decision_id", d.ID),
			slog.Int("round", rounds),
			slog.String("level", string(out.Level)),
			slog.Float64("support", out.SupportPercentage))

		if !out.Level.NeedsResolution() || rounds >= s.cfg.MaxResolutionAttempts {
			return out, evals, rounds
		}

		rec = s.nextRecommendation(ctx, d.ID, out, evals)
	}
}

// nextRecommendation prepares the recommendation for the following round.
// Above the auto-resolution threshold the amended copy is reused as-is;
// below it the proposer revises it against the round's feedback. A revision
// failure falls back to the amended copy so the loop can still make progress.
func (s *OrchestratorService) nextRecommendation(ctx context.Context, decisionID string, out *consensus.Outcome, evals []evaluation.Evaluation) *recommendation.Recommendation {
	base := out.Recommendation
	if out.SupportPercentage >= s.cfg.AutoResolutionThreshold {
		return base
	}
	revised, err := s.proposer.Revise(ctx, base, evals)
	if err != nil {
		s.log.Warn("recommendation revision failed, continuing with amended copy",
			slog.String("decision_id", decisionID),
			slog.String("error", err.Error()))
		return base
	}
	if revised.ID == "" {
		revised.ID = base.ID
	}
	return revised
}

func (s *OrchestratorService) finish(ctx context.Context, d *decision.Decision, started time.Time) {
	payload := messagequeue.DecisionEventPayload{
		DecisionID:        d.ID,
		Query:             d.Query,
		Status:            string(d.Status),
		Round:             d.Rounds,
		Level:             string(d.Consensus.Level),
		SupportPercentage: d.Consensus.SupportPercentage,
		Escalated:         d.Escalated,
	}

	subject := messagequeue.SubjectDecisionAccepted
	switch d.Status {
	case decision.StatusVetoed:
		subject = messagequeue.SubjectDecisionVetoed
		payload.VetoedBy = d.Veto.EvaluatorID
		if s.metrics != nil {
			s.metrics.DecisionsVetoed.Add(ctx, 1)
		}
	case decision.StatusUnresolved:
		subject = messagequeue.SubjectDecisionUnresolved
	default:
		if s.metrics != nil {
			s.metrics.DecisionsAccepted.Add(ctx, 1)
		}
	}
	s.publishJSON(ctx, subject, payload)

	if d.Escalated {
		s.publishJSON(ctx, messagequeue.SubjectDecisionEscalated, payload)
		if s.metrics != nil {
			s.metrics.DecisionsEscalated.Add(ctx, 1)
		}
	}

	vetoedBy := ""
	if d.Veto != nil {
		vetoedBy = d.Veto.EvaluatorID
	}
	s.hub.BroadcastEvent(ctx, ws.EventDecisionStatus, ws.DecisionStatusEvent{
		DecisionID:        d.ID,
		Status:            string(d.Status),
		Level:             string(d.Consensus.Level),
		SupportPercentage: d.Consensus.SupportPercentage,
		Rounds:            d.Rounds,
		Escalated:         d.Escalated,
		VetoedBy:          vetoedBy,
	})

	if s.metrics != nil {
		s.metrics.DecisionDuration.Record(ctx, time.Since(started).Seconds())
		s.metrics.FinalSupport.Record(ctx, d.Consensus.SupportPercentage)
	}
	s.log.Info("decision finished",
		slog.String("decision_id", d.ID),
		slog.String("status", string(d.Status)),
		slog.Int("rounds", d.Rounds),
		slog.Bool("escalated", d.Escalated),
		slog.Float64("support", d.Consensus.SupportPercentage))
}

func (s *OrchestratorService) publishJSON(ctx context.Context, subject string, payload any) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("marshal queue payload failed",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		s.log.Error("publish failed",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
	}
}
