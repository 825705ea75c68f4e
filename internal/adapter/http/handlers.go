package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Strob0t/Consilium/internal/domain/decision"
	"github.com/Strob0t/Consilium/internal/domain/evaluation"
	"github.com/Strob0t/Consilium/internal/domain/panel"
	"github.com/Strob0t/Consilium/internal/service"
)

// Handlers bundles the services exposed over HTTP.
type Handlers struct {
	orchestrator *service.OrchestratorService
	decisions    *service.DecisionService
	panel        *service.PanelService
	historyLimit int
}

func NewHandlers(orch *service.OrchestratorService, dec *service.DecisionService, pan *service.PanelService, historyLimit int) *Handlers {
	return &Handlers{
		orchestrator: orch,
		decisions:    dec,
		panel:        pan,
		historyLimit: historyLimit,
	}
}

// --- Decisions ---

func (h *Handlers) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[decision.Request](w, r)
	if !ok {
		return
	}
	req.ID = "" // IDs are always server-assigned
	req.Normalize()
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := h.orchestrator.Decide(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, decision.ErrQueryRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, decision.ErrNoParticipants):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeDomainError(w, err, "decision failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handlers) ListDecisions(w http.ResponseWriter, r *http.Request) {
	limit := h.historyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := h.decisions.List(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err, "decisions not found")
		return
	}
	if list == nil {
		list = []decision.Decision{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetDecision(w http.ResponseWriter, r *http.Request) {
	d, err := h.decisions.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "decision not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) ListDecisionRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.decisions.History(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "decision not found")
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

// --- Panel ---

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.panel.List(r.Context())
	if err != nil {
		writeDomainError(w, err, "members not found")
		return
	}
	if members == nil {
		members = []panel.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *Handlers) RegisterMember(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[panel.CreateRequest](w, r)
	if !ok {
		return
	}

	m, err := h.panel.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, panel.ErrNameRequired), errors.Is(err, panel.ErrRoleRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeDomainError(w, err, "member not found")
		}
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.panel.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handlers) DeactivateMember(w http.ResponseWriter, r *http.Request) {
	h.setMemberActive(w, r, false)
}

func (h *Handlers) ReactivateMember(w http.ResponseWriter, r *http.Request) {
	h.setMemberActive(w, r, true)
}

func (h *Handlers) setMemberActive(w http.ResponseWriter, r *http.Request, active bool) {
	m, err := h.panel.SetActive(r.Context(), urlParam(r, "id"), active)
	if err != nil {
		writeDomainError(w, err, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handlers) MemberInsights(w http.ResponseWriter, r *http.Request) {
	ins, err := h.panel.Insights(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

// --- Analysis ---

type analyzeRequest struct {
	Evaluations []evaluation.Evaluation `json:"evaluations"`
}

// AnalyzeEvaluations runs the disagreement diagnostics over a caller-supplied
// set of evaluations without starting a decision.
func (h *Handlers) AnalyzeEvaluations(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[analyzeRequest](w, r)
	if !ok {
		return
	}
	for _, e := range req.Evaluations {
		if e.AgreementLevel < 0 || e.AgreementLevel > 1 {
			writeError(w, http.StatusBadRequest, "agreement_level must be in [0,1]")
			return
		}
	}
	writeJSON(w, http.StatusOK, service.AnalyzeDisagreement(req.Evaluations))
}
