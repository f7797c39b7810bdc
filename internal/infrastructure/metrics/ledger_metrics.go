package metrics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/collections/internal/domain/port"
)

// MeterName scopes every ledger instrument.
const MeterName = "github.com/bibbank/collections/ledger"

// Compile-time interface check
var _ port.LedgerMetrics = (*LedgerMetrics)(nil)

// LedgerMetrics implements port.LedgerMetrics with OpenTelemetry counters.
type LedgerMetrics struct {
	payments          metric.Int64Counter
	paymentAmount     metric.Float64Counter
	completions       metric.Int64Counter
	validationFailure metric.Int64Counter
	deadlineFallback  metric.Int64Counter
}

// NewLedgerMetrics registers the ledger instruments on provider.
func NewLedgerMetrics(provider metric.MeterProvider) (*LedgerMetrics, error) {
	meter := provider.Meter(MeterName)

	payments, err := meter.Int64Counter("collections_payments_registered_total",
		metric.WithDescription("Payments registered against debt cases"))
	if err != nil {
		return nil, fmt.Errorf("create payments counter: %w", err)
	}
	paymentAmount, err := meter.Float64Counter("collections_payment_amount_total",
		metric.WithDescription("Sum of registered payment amounts"))
	if err != nil {
		return nil, fmt.Errorf("create payment amount counter: %w", err)
	}
	completions, err := meter.Int64Counter("collections_cases_completed_total",
		metric.WithDescription("Cases completed automatically by payments"))
	if err != nil {
		return nil, fmt.Errorf("create completions counter: %w", err)
	}
	validationFailure, err := meter.Int64Counter("collections_validation_failures_total",
		metric.WithDescription("Case mutations rejected by invariant validation"))
	if err != nil {
		return nil, fmt.Errorf("create validation failure counter: %w", err)
	}
	deadlineFallback, err := meter.Int64Counter("collections_deadline_fallbacks_total",
		metric.WithDescription("Deadlines computed without a configured transition rule"))
	if err != nil {
		return nil, fmt.Errorf("create deadline fallback counter: %w", err)
	}

	return &LedgerMetrics{
		payments:          payments,
		paymentAmount:     paymentAmount,
		completions:       completions,
		validationFailure: validationFailure,
		deadlineFallback:  deadlineFallback,
	}, nil
}

func (m *LedgerMetrics) PaymentRegistered(ctx context.Context, amount decimal.Decimal) {
	m.payments.Add(ctx, 1)
	m.paymentAmount.Add(ctx, amount.InexactFloat64())
}

func (m *LedgerMetrics) CaseCompleted(ctx context.Context) {
	m.completions.Add(ctx, 1)
}

func (m *LedgerMetrics) ValidationFailed(ctx context.Context, code string) {
	m.validationFailure.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}

func (m *LedgerMetrics) DeadlineFallback(ctx context.Context, state string) {
	m.deadlineFallback.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
}
