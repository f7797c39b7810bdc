package grpc_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bibbank/collections/internal/application/dto"
	"github.com/bibbank/collections/internal/application/usecase"
	"github.com/bibbank/collections/internal/domain/service"
	"github.com/bibbank/collections/internal/infrastructure/memory"
	"github.com/bibbank/collections/internal/infrastructure/messaging"
	"github.com/bibbank/collections/internal/infrastructure/metrics"
	grpcpres "github.com/bibbank/collections/internal/presentation/grpc"
	"github.com/bibbank/collections/pkg/auth"
)

type harness struct {
	conn     *grpclib.ClientConn
	operator string
	admin    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ledgerMetrics, err := metrics.NewLedgerMetrics(noop.NewMeterProvider())
	require.NoError(t, err)
	cache := service.NewTransitionRuleCache(memory.NewRuleStore(), nil, ledgerMetrics, logger)
	require.NoError(t, cache.SeedDefaults(ctx))
	ledger := usecase.NewLedger(memory.NewCaseStore(), service.NewCaseValidator(), messaging.NewLogEventPublisher(logger), ledgerMetrics, logger)
	svc := usecase.NewCaseLedgerService(ledger, cache)

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "test", Expiration: time.Hour})
	require.NoError(t, err)

	srv, err := grpcpres.NewServer(grpcpres.NewCaseLedgerHandler(svc, logger), logger, jwtSvc, grpcpres.ServerOptions{ServiceName: "collections-service"})
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.ServeListener(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
		grpclib.WithDefaultCallOptions(grpclib.CallContentSubtype("json")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	operator, err := jwtSvc.GenerateToken("operator-1", []string{auth.RoleOperator})
	require.NoError(t, err)
	admin, err := jwtSvc.GenerateToken("admin-1", []string{auth.RoleAdmin})
	require.NoError(t, err)

	return &harness{conn: conn, operator: operator, admin: admin}
}

func (h *harness) invoke(t *testing.T, token, method string, in, out any) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	return h.conn.Invoke(ctx, grpcpres.FullMethod(method), in, out)
}

func TestCaseLedgerService(t *testing.T) {
	h := newHarness(t)

	var created dto.DebtCaseResponse
	require.NoError(t, h.invoke(t, h.operator, "CreateCase", &dto.CreateCaseRequest{
		DebtorName: "Mario Rossi",
		State:      "NOTICE_DUE",
		OwedAmount: decimal.RequireFromString("250.00"),
	}, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "operator-1", created.CreatedBy)

	t.Run("update takes the id from the envelope", func(t *testing.T) {
		var updated dto.DebtCaseResponse
		in := map[string]any{"caseId": created.ID, "debtorName": "Mario Bianchi"}
		require.NoError(t, h.invoke(t, h.operator, "UpdateCase", in, &updated))
		assert.Equal(t, "Mario Bianchi", updated.DebtorName)
	})

	t.Run("payment completes the case", func(t *testing.T) {
		var payment dto.PaymentResponse
		in := map[string]any{"caseId": created.ID, "amount": "250.00"}
		require.NoError(t, h.invoke(t, h.operator, "RegisterPayment", in, &payment))
		assert.Equal(t, created.ID, payment.CaseID)

		var got dto.DebtCaseResponse
		require.NoError(t, h.invoke(t, h.operator, "GetCase", &dto.GetCaseRequest{CaseID: created.ID}, &got))
		assert.Equal(t, "COMPLETED", got.State)

		var list grpcpres.ListPaymentsResponse
		require.NoError(t, h.invoke(t, h.operator, "ListPayments", &dto.ListPaymentsRequest{CaseID: created.ID}, &list))
		assert.Len(t, list.Payments, 1)
	})

	t.Run("summary", func(t *testing.T) {
		var summary dto.CasesSummaryResponse
		require.NoError(t, h.invoke(t, h.operator, "GetSummary", &grpcpres.Empty{}, &summary))
		assert.Equal(t, 0, summary.TotalActiveCases)
	})

	t.Run("delete then not found", func(t *testing.T) {
		require.NoError(t, h.invoke(t, h.operator, "DeleteCase", &dto.DeleteCaseRequest{CaseID: created.ID}, &grpcpres.Empty{}))

		err := h.invoke(t, h.operator, "GetCase", &dto.GetCaseRequest{CaseID: created.ID}, &dto.DebtCaseResponse{})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}

func TestErrorCodes(t *testing.T) {
	h := newHarness(t)

	t.Run("missing token", func(t *testing.T) {
		err := h.invoke(t, "", "GetSummary", &grpcpres.Empty{}, &dto.CasesSummaryResponse{})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("validation failure", func(t *testing.T) {
		err := h.invoke(t, h.operator, "CreateCase", &dto.CreateCaseRequest{
			DebtorName: "M",
			State:      "NOTICE_DUE",
			OwedAmount: decimal.NewFromInt(10),
		}, &dto.DebtCaseResponse{})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
		assert.Contains(t, status.Convert(err).Message(), service.CodeDebtorNameTooShort)
	})

	t.Run("illegal request", func(t *testing.T) {
		err := h.invoke(t, h.operator, "SearchCases", map[string]any{"sort": []string{"colour"}}, &dto.CasePageResponse{})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("rules need admin", func(t *testing.T) {
		err := h.invoke(t, h.operator, "ListTransitionRules", &grpcpres.Empty{}, &grpcpres.TransitionRulesResponse{})
		assert.Equal(t, codes.PermissionDenied, status.Code(err))

		var rules grpcpres.TransitionRulesResponse
		require.NoError(t, h.invoke(t, h.admin, "UpdateTransitionRules", &dto.UpdateTransitionRulesRequest{
			Rules: []dto.TransitionRuleInput{{FromState: "NOTICE_SENT", DaysToTransition: 21}},
		}, &rules))
		require.NotEmpty(t, rules.Rules)
		days := make(map[string]int, len(rules.Rules))
		for _, r := range rules.Rules {
			days[r.FromState] = r.DaysToTransition
		}
		assert.Equal(t, 21, days["NOTICE_SENT"])
	})
}
