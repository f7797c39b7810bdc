package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/application/usecase"
	"github.com/bibbank/collections/internal/presentation/rest/middleware"
	"github.com/bibbank/collections/pkg/auth"
)

// RuleHandler exposes the deadline rule table to administrators.
type RuleHandler struct {
	svc    *usecase.CaseLedgerService
	logger *slog.Logger
}

// NewRuleHandler creates a transition rule HTTP handler.
func NewRuleHandler(svc *usecase.CaseLedgerService, logger *slog.Logger) *RuleHandler {
	return &RuleHandler{svc: svc, logger: logger}
}

// Register mounts the admin-only rule routes on r.
func (h *RuleHandler) Register(r chi.Router) {
	r.Route("/state-transitions", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Get("/", h.list)
		r.Put("/", h.update)
	})
}

func (h *RuleHandler) list(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.ListTransitionRules.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// update takes a bare JSON array of {fromState, daysToTransition}.
func (h *RuleHandler) update(w http.ResponseWriter, r *http.Request) {
	var rules []dto.TransitionRuleInput
	if err := decodeJSON(r, &rules); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.svc.UpdateTransitionRules.Execute(r.Context(), dto.UpdateTransitionRulesRequest{Rules: rules})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
