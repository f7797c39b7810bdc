package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/application/usecase"
	"github.com/bibbank/collections/internal/domain/model"
)

// Compile-time interface check
var _ CaseLedgerServiceServer = (*CaseLedgerHandler)(nil)

// CaseLedgerHandler serves CaseLedgerService on top of the use cases.
type CaseLedgerHandler struct {
	UnimplementedCaseLedgerServiceServer
	svc    *usecase.CaseLedgerService
	logger *slog.Logger
}

// NewCaseLedgerHandler creates a new handler with all use-case dependencies.
func NewCaseLedgerHandler(svc *usecase.CaseLedgerService, logger *slog.Logger) *CaseLedgerHandler {
	return &CaseLedgerHandler{svc: svc, logger: logger}
}

// ---------------------------------------------------------------------------
// Cases
// ---------------------------------------------------------------------------

func (h *CaseLedgerHandler) CreateCase(ctx context.Context, in *dto.CreateCaseRequest) (*dto.DebtCaseResponse, error) {
	resp, err := h.svc.CreateCase.Execute(ctx, *in)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) GetCase(ctx context.Context, in *dto.GetCaseRequest) (*dto.DebtCaseResponse, error) {
	resp, err := h.svc.GetCase.Execute(ctx, *in)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) UpdateCase(ctx context.Context, in *UpdateCaseRequest) (*dto.DebtCaseResponse, error) {
	req := in.UpdateCaseRequest
	req.CaseID = in.CaseID
	resp, err := h.svc.UpdateCase.Execute(ctx, req)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) DeleteCase(ctx context.Context, in *dto.DeleteCaseRequest) (*Empty, error) {
	err := h.svc.DeleteCase.Execute(ctx, *in)
	return respond(ctx, h.logger, Empty{}, err)
}

func (h *CaseLedgerHandler) UpdateNextDeadline(ctx context.Context, in *UpdateNextDeadlineRequest) (*dto.DebtCaseResponse, error) {
	req := in.UpdateNextDeadlineRequest
	req.CaseID = in.CaseID
	resp, err := h.svc.UpdateNextDeadline.Execute(ctx, req)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) SearchCases(ctx context.Context, in *dto.SearchCasesRequest) (*dto.CasePageResponse, error) {
	resp, err := h.svc.SearchCases.Execute(ctx, *in)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) GetSummary(ctx context.Context, _ *Empty) (*dto.CasesSummaryResponse, error) {
	resp, err := h.svc.Summary.Execute(ctx)
	return respond(ctx, h.logger, resp, err)
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

func (h *CaseLedgerHandler) RegisterPayment(ctx context.Context, in *RegisterPaymentRequest) (*dto.PaymentResponse, error) {
	req := in.RegisterPaymentRequest
	req.CaseID = in.CaseID
	resp, err := h.svc.RegisterPayment.Execute(ctx, req)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) ListPayments(ctx context.Context, in *dto.ListPaymentsRequest) (*ListPaymentsResponse, error) {
	payments, err := h.svc.ListPayments.Execute(ctx, *in)
	return respond(ctx, h.logger, ListPaymentsResponse{Payments: payments}, err)
}

func (h *CaseLedgerHandler) UpdatePayment(ctx context.Context, in *UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	req := in.UpdatePaymentRequest
	req.CaseID, req.PaymentID = in.CaseID, in.PaymentID
	resp, err := h.svc.UpdatePayment.Execute(ctx, req)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) DeletePayment(ctx context.Context, in *dto.DeletePaymentRequest) (*Empty, error) {
	err := h.svc.DeletePayment.Execute(ctx, *in)
	return respond(ctx, h.logger, Empty{}, err)
}

// ---------------------------------------------------------------------------
// Installment plan
// ---------------------------------------------------------------------------

func (h *CaseLedgerHandler) CreateInstallmentPlan(ctx context.Context, in *CreateInstallmentPlanRequest) (*dto.InstallmentPlanResponse, error) {
	req := in.CreateInstallmentPlanRequest
	req.CaseID = in.CaseID
	resp, err := h.svc.CreateInstallmentPlan.Execute(ctx, req)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) RegisterInstallmentPayment(ctx context.Context, in *RegisterInstallmentPaymentRequest) (*dto.PaymentResponse, error) {
	req := in.RegisterInstallmentPaymentRequest
	req.CaseID, req.InstallmentID = in.CaseID, in.InstallmentID
	resp, err := h.svc.RegisterInstallmentPayment.Execute(ctx, req)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) UpdateInstallment(ctx context.Context, in *UpdateInstallmentRequest) (*dto.InstallmentResponse, error) {
	req := in.UpdateInstallmentRequest
	req.CaseID, req.InstallmentID = in.CaseID, in.InstallmentID
	resp, err := h.svc.UpdateInstallment.Execute(ctx, req)
	return respond(ctx, h.logger, resp, err)
}

func (h *CaseLedgerHandler) ReplaceInstallmentPlan(ctx context.Context, in *ReplaceInstallmentPlanRequest) (*InstallmentsResponse, error) {
	req := in.ReplaceInstallmentPlanRequest
	req.CaseID = in.CaseID
	installments, err := h.svc.ReplaceInstallmentPlan.Execute(ctx, req)
	return respond(ctx, h.logger, InstallmentsResponse{Installments: installments}, err)
}

func (h *CaseLedgerHandler) DeleteInstallmentPlan(ctx context.Context, in *dto.DeleteInstallmentPlanRequest) (*dto.DebtCaseResponse, error) {
	resp, err := h.svc.DeleteInstallmentPlan.Execute(ctx, *in)
	return respond(ctx, h.logger, resp, err)
}

// ---------------------------------------------------------------------------
// Transition rules
// ---------------------------------------------------------------------------

func (h *CaseLedgerHandler) ListTransitionRules(ctx context.Context, _ *Empty) (*TransitionRulesResponse, error) {
	rules, err := h.svc.ListTransitionRules.Execute(ctx)
	return respond(ctx, h.logger, TransitionRulesResponse{Rules: rules}, err)
}

func (h *CaseLedgerHandler) UpdateTransitionRules(ctx context.Context, in *dto.UpdateTransitionRulesRequest) (*TransitionRulesResponse, error) {
	rules, err := h.svc.UpdateTransitionRules.Execute(ctx, *in)
	return respond(ctx, h.logger, TransitionRulesResponse{Rules: rules}, err)
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func respond[T any](ctx context.Context, logger *slog.Logger, resp T, err error) (*T, error) {
	if err != nil {
		return nil, toStatus(ctx, logger, err)
	}
	return &resp, nil
}

// toStatus maps domain error kinds onto gRPC codes. Internal failures are
// logged and hidden from the caller.
func toStatus(ctx context.Context, logger *slog.Logger, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Errorf(codes.InvalidArgument, "%s: %s", verr.Code, verr.Message)
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrIllegalRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrConcurrentModification):
		return status.Error(codes.Aborted, err.Error())
	default:
		logger.ErrorContext(ctx, "rpc failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
