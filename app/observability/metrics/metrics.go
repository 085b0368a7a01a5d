package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RegisterRequestsTotal   metric.Int64Counter
	LoginSuccessTotal       metric.Int64Counter
	LoginFailureTotal       metric.Int64Counter
	TokenRotationsTotal     metric.Int64Counter
	TokenReuseDetectedTotal metric.Int64Counter
	DbQueryDurationSeconds  metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// Get returns the process-wide metric instruments, creating them on first
// use. With no meter provider configured the instruments are no-ops, so
// callers (and tests) never need to guard.
func Get() *AppMetrics {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("fitfeed")
		var err error
		m := &AppMetrics{}

		m.RegisterRequestsTotal, err = meter.Int64Counter(
			"register_requests_total",
			metric.WithDescription("Total number of completed register requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create register_requests_total: %v", err)
		}

		m.LoginSuccessTotal, err = meter.Int64Counter(
			"login_success_total",
			metric.WithDescription("Total number of successful logins"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create login_success_total: %v", err)
		}

		m.LoginFailureTotal, err = meter.Int64Counter(
			"login_failure_total",
			metric.WithDescription("Total number of rejected logins"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create login_failure_total: %v", err)
		}

		m.TokenRotationsTotal, err = meter.Int64Counter(
			"token_rotations_total",
			metric.WithDescription("Total number of successful refresh-token rotations"),
			metric.WithUnit("{rotation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create token_rotations_total: %v", err)
		}

		m.TokenReuseDetectedTotal, err = meter.Int64Counter(
			"token_reuse_detected_total",
			metric.WithDescription("Times a consumed refresh token was presented again (all sessions cleared)"),
			metric.WithUnit("{event}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create token_reuse_detected_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
	})
	return appMetrics
}

// ObserveDBQuery records one database query duration under the query label.
// Repositories call it as `defer metrics.ObserveDBQuery(ctx, "pkg.op", time.Now())`.
func ObserveDBQuery(ctx context.Context, query string, start time.Time) {
	Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("query", query)))
}
