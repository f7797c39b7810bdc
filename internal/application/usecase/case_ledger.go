package usecase

import (
	"github.com/bibbank/collections/internal/domain/service"
)

// CaseLedgerService bundles every case and rule operation so transports
// can be wired from a single value.
type CaseLedgerService struct {
	CreateCase                 *CreateCaseUseCase
	GetCase                    *GetCaseUseCase
	UpdateCase                 *UpdateCaseUseCase
	DeleteCase                 *DeleteCaseUseCase
	UpdateNextDeadline         *UpdateNextDeadlineUseCase
	SearchCases                *SearchCasesUseCase
	Summary                    *SummaryUseCase
	RegisterPayment            *RegisterPaymentUseCase
	ListPayments               *ListPaymentsUseCase
	UpdatePayment              *UpdatePaymentUseCase
	DeletePayment              *DeletePaymentUseCase
	CreateInstallmentPlan      *CreateInstallmentPlanUseCase
	RegisterInstallmentPayment *RegisterInstallmentPaymentUseCase
	UpdateInstallment          *UpdateInstallmentUseCase
	ReplaceInstallmentPlan     *ReplaceInstallmentPlanUseCase
	DeleteInstallmentPlan      *DeleteInstallmentPlanUseCase
	ListTransitionRules        *ListTransitionRulesUseCase
	UpdateTransitionRules      *UpdateTransitionRulesUseCase
}

// NewCaseLedgerService wires every use case on top of one ledger.
func NewCaseLedgerService(ledger *Ledger, rules *service.TransitionRuleCache) *CaseLedgerService {
	return &CaseLedgerService{
		CreateCase:                 NewCreateCaseUseCase(ledger, rules),
		GetCase:                    NewGetCaseUseCase(ledger),
		UpdateCase:                 NewUpdateCaseUseCase(ledger, rules),
		DeleteCase:                 NewDeleteCaseUseCase(ledger),
		UpdateNextDeadline:         NewUpdateNextDeadlineUseCase(ledger),
		SearchCases:                NewSearchCasesUseCase(ledger.cases),
		Summary:                    NewSummaryUseCase(ledger),
		RegisterPayment:            NewRegisterPaymentUseCase(ledger),
		ListPayments:               NewListPaymentsUseCase(ledger),
		UpdatePayment:              NewUpdatePaymentUseCase(ledger),
		DeletePayment:              NewDeletePaymentUseCase(ledger),
		CreateInstallmentPlan:      NewCreateInstallmentPlanUseCase(ledger),
		RegisterInstallmentPayment: NewRegisterInstallmentPaymentUseCase(ledger),
		UpdateInstallment:          NewUpdateInstallmentUseCase(ledger),
		ReplaceInstallmentPlan:     NewReplaceInstallmentPlanUseCase(ledger),
		DeleteInstallmentPlan:      NewDeleteInstallmentPlanUseCase(ledger, rules),
		ListTransitionRules:        NewListTransitionRulesUseCase(rules),
		UpdateTransitionRules:      NewUpdateTransitionRulesUseCase(ledger, rules),
	}
}
