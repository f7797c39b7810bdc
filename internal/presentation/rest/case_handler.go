package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/application/usecase"
)

// CaseHandler exposes case, payment and installment operations over HTTP.
type CaseHandler struct {
	svc    *usecase.CaseLedgerService
	logger *slog.Logger
}

// NewCaseHandler creates a case HTTP handler.
func NewCaseHandler(svc *usecase.CaseLedgerService, logger *slog.Logger) *CaseHandler {
	return &CaseHandler{svc: svc, logger: logger}
}

// Register mounts the case routes on r.
func (h *CaseHandler) Register(r chi.Router) {
	r.Route("/debt-cases", func(r chi.Router) {
		r.Get("/", h.search)
		r.Post("/", h.create)
		r.Get("/summary", h.summary)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.update)
			r.Delete("/", h.delete)
			r.Put("/next-deadline", h.updateNextDeadline)

			r.Get("/payments", h.listPayments)
			r.Post("/payments", h.registerPayment)
			r.Put("/payments/{paymentId}", h.updatePayment)
			r.Delete("/payments/{paymentId}", h.deletePayment)

			r.Post("/installment-plan", h.createInstallmentPlan)
			r.Put("/installment-plan", h.replaceInstallmentPlan)
			r.Delete("/installment-plan", h.deleteInstallmentPlan)
			r.Put("/installments/{installmentId}", h.updateInstallment)
			r.Post("/installments/{installmentId}/payments", h.registerInstallmentPayment)
		})
	})
}

// ---------------------------------------------------------------------------
// Cases
// ---------------------------------------------------------------------------

func (h *CaseHandler) search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	resp, err := h.svc.SearchCases.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCaseRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.svc.CreateCase.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *CaseHandler) summary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Summary.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetCase.Execute(r.Context(), dto.GetCaseRequest{CaseID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCaseRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.CaseID = chi.URLParam(r, "id")
	resp, err := h.svc.UpdateCase.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCase.Execute(r.Context(), dto.DeleteCaseRequest{CaseID: chi.URLParam(r, "id")}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CaseHandler) updateNextDeadline(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateNextDeadlineRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.CaseID = chi.URLParam(r, "id")
	resp, err := h.svc.UpdateNextDeadline.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

func (h *CaseHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.ListPayments.Execute(r.Context(), dto.ListPaymentsRequest{CaseID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) registerPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.CaseID = chi.URLParam(r, "id")
	resp, err := h.svc.RegisterPayment.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) updatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.CaseID = chi.URLParam(r, "id")
	req.PaymentID = chi.URLParam(r, "paymentId")
	resp, err := h.svc.UpdatePayment.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) deletePayment(w http.ResponseWriter, r *http.Request) {
	req := dto.DeletePaymentRequest{CaseID: chi.URLParam(r, "id"), PaymentID: chi.URLParam(r, "paymentId")}
	if err := h.svc.DeletePayment.Execute(r.Context(), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Installment plan
// ---------------------------------------------------------------------------

func (h *CaseHandler) createInstallmentPlan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInstallmentPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.CaseID = chi.URLParam(r, "id")
	resp, err := h.svc.CreateInstallmentPlan.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) replaceInstallmentPlan(w http.ResponseWriter, r *http.Request) {
	var req dto.ReplaceInstallmentPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.CaseID = chi.URLParam(r, "id")
	resp, err := h.svc.ReplaceInstallmentPlan.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) deleteInstallmentPlan(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.DeleteInstallmentPlan.Execute(r.Context(), dto.DeleteInstallmentPlanRequest{CaseID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) updateInstallment(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateInstallmentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.CaseID = chi.URLParam(r, "id")
	req.InstallmentID = chi.URLParam(r, "installmentId")
	resp, err := h.svc.UpdateInstallment.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CaseHandler) registerInstallmentPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterInstallmentPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	req.CaseID = chi.URLParam(r, "id")
	req.InstallmentID = chi.URLParam(r, "installmentId")
	resp, err := h.svc.RegisterInstallmentPayment.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
