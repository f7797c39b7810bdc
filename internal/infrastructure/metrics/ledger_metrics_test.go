package metrics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bibbank/collections/internal/infrastructure/metrics"
	"github.com/bibbank/collections/pkg/testutil"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestLedgerMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := metrics.NewLedgerMetrics(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.PaymentRegistered(ctx, testutil.Amount("150.50"))
	m.PaymentRegistered(ctx, testutil.Amount("49.50"))
	m.CaseCompleted(ctx)
	m.ValidationFailed(ctx, "PAID_FLAG_MISMATCH")
	m.DeadlineFallback(ctx, "SEIZURE")

	data := collect(t, reader)

	payments, ok := data["collections_payments_registered_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, payments.DataPoints, 1)
	assert.Equal(t, int64(2), payments.DataPoints[0].Value)

	amount, ok := data["collections_payment_amount_total"].(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, amount.DataPoints, 1)
	assert.InDelta(t, 200.0, amount.DataPoints[0].Value, 0.0001)

	completed, ok := data["collections_cases_completed_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), completed.DataPoints[0].Value)

	failures, ok := data["collections_validation_failures_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, failures.DataPoints, 1)
	code, ok := failures.DataPoints[0].Attributes.Value(attribute.Key("code"))
	require.True(t, ok)
	assert.Equal(t, "PAID_FLAG_MISMATCH", code.AsString())

	fallbacks, ok := data["collections_deadline_fallbacks_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	state, ok := fallbacks.DataPoints[0].Attributes.Value(attribute.Key("state"))
	require.True(t, ok)
	assert.Equal(t, "SEIZURE", state.AsString())
}
