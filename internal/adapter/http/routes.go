package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Decisions
		r.Post("/decisions", h.SubmitDecision)
		r.Get("/decisions", h.ListDecisions)
		r.Get("/decisions/{id}", h.GetDecision)
		r.Get("/decisions/{id}/rounds", h.ListDecisionRounds)

		// Panel
		r.Get("/panel", h.ListMembers)
		r.Post("/panel", h.RegisterMember)
		r.Get("/panel/{id}", h.GetMember)
		r.Post("/panel/{id}/deactivate", h.DeactivateMember)
		r.Post("/panel/{id}/reactivate", h.ReactivateMember)
		r.Get("/panel/{id}/insights", h.MemberInsights)

		// Disagreement diagnostics
		r.Post("/analyze", h.AnalyzeEvaluations)
	})
}
