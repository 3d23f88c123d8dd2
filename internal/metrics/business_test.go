package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "auth", "token_issue", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "auth", "token_issue", "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "auth", "token_issue", "success")
		bm.RecordOperation(context.Background(), "secrets", "secret_get", "success")
		bm.RecordOperation(context.Background(), "ledger", "audit_record", "error")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "auth", "token_issue", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "auth", "token_issue", 456*time.Millisecond, "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordDuration(context.Background(), "auth", "token_issue", 100*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "secrets", "secret_get", 200*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "ledger", "audit_record", 300*time.Millisecond, "error")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordOperation(context.Background(), "auth", "token_issue", "success")
		noOpMetrics.RecordOperation(context.Background(), "secrets", "secret_get", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordDuration(
			context.Background(),
			"auth",
			"token_issue",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), "secrets", "secret_get", 200*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	// Record various operations
	ctx := context.Background()

	// Record operation counts
	bm.RecordOperation(ctx, "auth", "token_issue", "success")
	bm.RecordOperation(ctx, "auth", "token_issue", "success")
	bm.RecordOperation(ctx, "auth", "token_issue", "error")
	bm.RecordOperation(ctx, "secrets", "secret_get", "success")
	bm.RecordOperation(ctx, "secrets", "secret_rotate", "success")
	bm.RecordOperation(ctx, "ledger", "audit_record", "success")

	// Record operation durations
	bm.RecordDuration(ctx, "auth", "token_issue", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "auth", "token_issue", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "auth", "token_issue", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, "secrets", "secret_get", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "secrets", "secret_rotate", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, "ledger", "audit_record", 150*time.Millisecond, "success")

	// Metrics should be recorded without errors
	// Verify metrics in Prometheus registry
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	// Check operation counts
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="auth".*operation="token_issue".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="auth".*operation="token_issue".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="secrets".*operation="secret_get".*status="success"`,
		`1`,
	)

	// Check durations (existence)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="auth".*operation="token_issue".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="auth".*operation="token_issue".*status="success"`,
		``,
	)
}

type recordedCall struct {
	domain, operation, status string
}

type recordingMetrics struct {
	operations []recordedCall
	durations  []recordedCall
}

func (r *recordingMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	r.operations = append(r.operations, recordedCall{domain, operation, status})
}

func (r *recordingMetrics) RecordDuration(_ context.Context, domain, operation string, _ time.Duration, status string) {
	r.durations = append(r.durations, recordedCall{domain, operation, status})
}

func TestObserve(t *testing.T) {
	ctx := context.Background()
	rec := &recordingMetrics{}

	Observe(ctx, rec, DomainSecrets, "secret_get", time.Now(), nil)
	Observe(ctx, rec, DomainLedger, "audit_record", time.Now(), errors.New("db down"))

	want := []recordedCall{
		{DomainSecrets, "secret_get", StatusSuccess},
		{DomainLedger, "audit_record", StatusError},
	}
	assert.Equal(t, want, rec.operations)
	assert.Equal(t, want, rec.durations)
}
