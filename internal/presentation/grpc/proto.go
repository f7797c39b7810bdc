package grpc

// proto.go defines the gRPC service for collections.v1.CaseLedgerService by
// hand. Messages are the application DTOs carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/collections/internal/application/dto"
)

const serviceName = "collections.v1.CaseLedgerService"

// FullMethod returns the fully qualified gRPC method name.
func FullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// CaseLedgerServiceServer is the server API for CaseLedgerService.
type CaseLedgerServiceServer interface {
	CreateCase(context.Context, *dto.CreateCaseRequest) (*dto.DebtCaseResponse, error)
	GetCase(context.Context, *dto.GetCaseRequest) (*dto.DebtCaseResponse, error)
	UpdateCase(context.Context, *UpdateCaseRequest) (*dto.DebtCaseResponse, error)
	DeleteCase(context.Context, *dto.DeleteCaseRequest) (*Empty, error)
	UpdateNextDeadline(context.Context, *UpdateNextDeadlineRequest) (*dto.DebtCaseResponse, error)
	SearchCases(context.Context, *dto.SearchCasesRequest) (*dto.CasePageResponse, error)
	GetSummary(context.Context, *Empty) (*dto.CasesSummaryResponse, error)
	RegisterPayment(context.Context, *RegisterPaymentRequest) (*dto.PaymentResponse, error)
	ListPayments(context.Context, *dto.ListPaymentsRequest) (*ListPaymentsResponse, error)
	UpdatePayment(context.Context, *UpdatePaymentRequest) (*dto.PaymentResponse, error)
	DeletePayment(context.Context, *dto.DeletePaymentRequest) (*Empty, error)
	CreateInstallmentPlan(context.Context, *CreateInstallmentPlanRequest) (*dto.InstallmentPlanResponse, error)
	RegisterInstallmentPayment(context.Context, *RegisterInstallmentPaymentRequest) (*dto.PaymentResponse, error)
	UpdateInstallment(context.Context, *UpdateInstallmentRequest) (*dto.InstallmentResponse, error)
	ReplaceInstallmentPlan(context.Context, *ReplaceInstallmentPlanRequest) (*InstallmentsResponse, error)
	DeleteInstallmentPlan(context.Context, *dto.DeleteInstallmentPlanRequest) (*dto.DebtCaseResponse, error)
	ListTransitionRules(context.Context, *Empty) (*TransitionRulesResponse, error)
	UpdateTransitionRules(context.Context, *dto.UpdateTransitionRulesRequest) (*TransitionRulesResponse, error)
	mustEmbedUnimplementedCaseLedgerServiceServer()
}

// UnimplementedCaseLedgerServiceServer provides forward-compatible default implementations.
type UnimplementedCaseLedgerServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedCaseLedgerServiceServer) CreateCase(context.Context, *dto.CreateCaseRequest) (*dto.DebtCaseResponse, error) {
	return nil, unimplemented("CreateCase")
}
func (UnimplementedCaseLedgerServiceServer) GetCase(context.Context, *dto.GetCaseRequest) (*dto.DebtCaseResponse, error) {
	return nil, unimplemented("GetCase")
}
func (UnimplementedCaseLedgerServiceServer) UpdateCase(context.Context, *UpdateCaseRequest) (*dto.DebtCaseResponse, error) {
	return nil, unimplemented("UpdateCase")
}
func (UnimplementedCaseLedgerServiceServer) DeleteCase(context.Context, *dto.DeleteCaseRequest) (*Empty, error) {
	return nil, unimplemented("DeleteCase")
}
func (UnimplementedCaseLedgerServiceServer) UpdateNextDeadline(context.Context, *UpdateNextDeadlineRequest) (*dto.DebtCaseResponse, error) {
	return nil, unimplemented("UpdateNextDeadline")
}
func (UnimplementedCaseLedgerServiceServer) SearchCases(context.Context, *dto.SearchCasesRequest) (*dto.CasePageResponse, error) {
	return nil, unimplemented("SearchCases")
}
func (UnimplementedCaseLedgerServiceServer) GetSummary(context.Context, *Empty) (*dto.CasesSummaryResponse, error) {
	return nil, unimplemented("GetSummary")
}
func (UnimplementedCaseLedgerServiceServer) RegisterPayment(context.Context, *RegisterPaymentRequest) (*dto.PaymentResponse, error) {
	return nil, unimplemented("RegisterPayment")
}
func (UnimplementedCaseLedgerServiceServer) ListPayments(context.Context, *dto.ListPaymentsRequest) (*ListPaymentsResponse, error) {
	return nil, unimplemented("ListPayments")
}
func (UnimplementedCaseLedgerServiceServer) UpdatePayment(context.Context, *UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	return nil, unimplemented("UpdatePayment")
}
func (UnimplementedCaseLedgerServiceServer) DeletePayment(context.Context, *dto.DeletePaymentRequest) (*Empty, error) {
	return nil, unimplemented("DeletePayment")
}
func (UnimplementedCaseLedgerServiceServer) CreateInstallmentPlan(context.Context, *CreateInstallmentPlanRequest) (*dto.InstallmentPlanResponse, error) {
	return nil, unimplemented("CreateInstallmentPlan")
}
func (UnimplementedCaseLedgerServiceServer) RegisterInstallmentPayment(context.Context, *RegisterInstallmentPaymentRequest) (*dto.PaymentResponse, error) {
	return nil, unimplemented("RegisterInstallmentPayment")
}
func (UnimplementedCaseLedgerServiceServer) UpdateInstallment(context.Context, *UpdateInstallmentRequest) (*dto.InstallmentResponse, error) {
	return nil, unimplemented("UpdateInstallment")
}
func (UnimplementedCaseLedgerServiceServer) ReplaceInstallmentPlan(context.Context, *ReplaceInstallmentPlanRequest) (*InstallmentsResponse, error) {
	return nil, unimplemented("ReplaceInstallmentPlan")
}
func (UnimplementedCaseLedgerServiceServer) DeleteInstallmentPlan(context.Context, *dto.DeleteInstallmentPlanRequest) (*dto.DebtCaseResponse, error) {
	return nil, unimplemented("DeleteInstallmentPlan")
}
func (UnimplementedCaseLedgerServiceServer) ListTransitionRules(context.Context, *Empty) (*TransitionRulesResponse, error) {
	return nil, unimplemented("ListTransitionRules")
}
func (UnimplementedCaseLedgerServiceServer) UpdateTransitionRules(context.Context, *dto.UpdateTransitionRulesRequest) (*TransitionRulesResponse, error) {
	return nil, unimplemented("UpdateTransitionRules")
}
func (UnimplementedCaseLedgerServiceServer) mustEmbedUnimplementedCaseLedgerServiceServer() {}

// RegisterCaseLedgerServiceServer registers srv with the gRPC server.
func RegisterCaseLedgerServiceServer(s grpclib.ServiceRegistrar, srv CaseLedgerServiceServer) {
	s.RegisterService(&_CaseLedgerService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _CaseLedgerService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CaseLedgerServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unary("CreateCase", CaseLedgerServiceServer.CreateCase),
		unary("GetCase", CaseLedgerServiceServer.GetCase),
		unary("UpdateCase", CaseLedgerServiceServer.UpdateCase),
		unary("DeleteCase", CaseLedgerServiceServer.DeleteCase),
		unary("UpdateNextDeadline", CaseLedgerServiceServer.UpdateNextDeadline),
		unary("SearchCases", CaseLedgerServiceServer.SearchCases),
		unary("GetSummary", CaseLedgerServiceServer.GetSummary),
		unary("RegisterPayment", CaseLedgerServiceServer.RegisterPayment),
		unary("ListPayments", CaseLedgerServiceServer.ListPayments),
		unary("UpdatePayment", CaseLedgerServiceServer.UpdatePayment),
		unary("DeletePayment", CaseLedgerServiceServer.DeletePayment),
		unary("CreateInstallmentPlan", CaseLedgerServiceServer.CreateInstallmentPlan),
		unary("RegisterInstallmentPayment", CaseLedgerServiceServer.RegisterInstallmentPayment),
		unary("UpdateInstallment", CaseLedgerServiceServer.UpdateInstallment),
		unary("ReplaceInstallmentPlan", CaseLedgerServiceServer.ReplaceInstallmentPlan),
		unary("DeleteInstallmentPlan", CaseLedgerServiceServer.DeleteInstallmentPlan),
		unary("ListTransitionRules", CaseLedgerServiceServer.ListTransitionRules),
		unary("UpdateTransitionRules", CaseLedgerServiceServer.UpdateTransitionRules),
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "collections/v1/case_ledger.proto",
}

// unary builds the method descriptor of one request/response call. It is
// the shape protoc-gen-go-grpc emits per method, written once.
func unary[Req, Resp any](method string, call func(CaseLedgerServiceServer, context.Context, *Req) (*Resp, error)) grpclib.MethodDesc {
	fullMethod := FullMethod(method)
	return grpclib.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CaseLedgerServiceServer), ctx, in)
			}
			info := &grpclib.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CaseLedgerServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
