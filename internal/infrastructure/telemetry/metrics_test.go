package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, attr attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	for _, dp := range sum.DataPoints {
		if v, found := dp.Attributes.Value(attr.Key); found && v == attr.Value {
			return dp.Value
		}
	}
	return 0
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.Config{Enabled: false, ServiceName: "test"}, time.Minute, logger)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestCounter_AddAndInc(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zaptest.NewLogger(t))
	ctx := context.Background()

	counter, err := telemetry.NewCounter(mp.Meter("test"), "test_counter", "Test counter", "1")
	require.NoError(t, err)

	counter.Add(ctx, 5, attribute.String("method", "GET"))
	counter.Inc(ctx, attribute.String("method", "GET"))
	counter.Inc(ctx, attribute.String("method", "POST"))

	metrics := collect(t, reader)
	require.Contains(t, metrics, "test_counter")
	assert.Equal(t, int64(6), sumFor(t, metrics["test_counter"], attribute.String("method", "GET")))
	assert.Equal(t, int64(1), sumFor(t, metrics["test_counter"], attribute.String("method", "POST")))
}

func TestHistogram_RecordDuration(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zaptest.NewLogger(t))
	ctx := context.Background()

	h, err := telemetry.NewHistogram(mp.Meter("test"), telemetry.HistogramOpts{
		Name:       "render_seconds",
		Unit:       "s",
		Boundaries: telemetry.RenderDurationBuckets,
	})
	require.NoError(t, err)

	h.RecordDuration(ctx, 1500*time.Millisecond)
	h.Record(ctx, 0.1)

	metrics := collect(t, reader)
	hist, ok := metrics["render_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.InDelta(t, 1.6, hist.DataPoints[0].Sum, 0.0001)
	assert.Equal(t, telemetry.RenderDurationBuckets, hist.DataPoints[0].Bounds)
}

func TestGauge_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zaptest.NewLogger(t))
	ctx := context.Background()

	g, err := telemetry.NewGauge(mp.Meter("test"), "pool_size", "Pool size", "1")
	require.NoError(t, err)
	g.Record(ctx, 3)
	g.Record(ctx, 7)

	metrics := collect(t, reader)
	gauge, ok := metrics["pool_size"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(7), gauge.DataPoints[0].Value)
}

func TestEstimatorMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zaptest.NewLogger(t))
	ctx := context.Background()

	m, err := telemetry.NewEstimatorMetrics(mp.Meter("estimator"))
	require.NoError(t, err)

	m.DomainEvent(ctx, "project.created")
	m.DomainEvent(ctx, "project.created")
	m.EstimateGenerated(ctx, "demolition")
	m.PDFRendered(ctx, time.Second, nil)
	m.PDFRendered(ctx, time.Second, errors.New("chrome gone"))
	m.WebhookProcessed(ctx, "customer.subscription.updated", "processed")
	m.SubscriptionSwept(ctx, "canceled")

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumFor(t, metrics["estimator_domain_events_total"], telemetry.AttrEventType.String("project.created")))
	assert.Equal(t, int64(1), sumFor(t, metrics["estimator_estimates_generated_total"], telemetry.AttrCategory.String("demolition")))
	assert.Equal(t, int64(1), sumFor(t, metrics["estimator_pdf_renders_total"], telemetry.AttrOutcome.String("success")))
	assert.Equal(t, int64(1), sumFor(t, metrics["estimator_pdf_renders_total"], telemetry.AttrOutcome.String("error")))
	assert.Equal(t, int64(1), sumFor(t, metrics["estimator_stripe_webhooks_total"], telemetry.AttrOutcome.String("processed")))
	assert.Equal(t, int64(1), sumFor(t, metrics["estimator_subscriptions_swept_total"], telemetry.AttrStatus.String("canceled")))
}

func TestEstimatorMetrics_NilIsNoop(t *testing.T) {
	var m *telemetry.EstimatorMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.DomainEvent(ctx, "x")
		m.EstimateGenerated(ctx, "x")
		m.PDFRendered(ctx, time.Second, nil)
		m.WebhookProcessed(ctx, "x", "y")
		m.SubscriptionSwept(ctx, "x")
	})
}
