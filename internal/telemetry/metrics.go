package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/sprintboard"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Workflow metrics
	ProjectsCreatedTotal metric.Int64Counter
	SprintsCreatedTotal  metric.Int64Counter
	IssuesCreatedTotal   metric.Int64Counter
	IssuesUpdatedTotal   metric.Int64Counter
	IssueMovesTotal      metric.Int64Counter
	IssuesShiftedTotal   metric.Int64Counter
	IssueMoveDuration    metric.Float64Histogram

	// Access metrics
	AuthzDeniedTotal metric.Int64Counter
	CallersResolved  metric.Int64Counter
	RateLimitedTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.ProjectsCreatedTotal, _ = meter.Int64Counter(
		"sprintboard.projects.created.total",
		metric.WithDescription("Total number of projects created"),
		metric.WithUnit("{project}"),
	)

	m.SprintsCreatedTotal, _ = meter.Int64Counter(
		"sprintboard.sprints.created.total",
		metric.WithDescription("Total number of sprints created"),
		metric.WithUnit("{sprint}"),
	)

	m.IssuesCreatedTotal, _ = meter.Int64Counter(
		"sprintboard.issues.created.total",
		metric.WithDescription("Total number of issues created"),
		metric.WithUnit("{issue}"),
	)

	m.IssuesUpdatedTotal, _ = meter.Int64Counter(
		"sprintboard.issues.updated.total",
		metric.WithDescription("Total number of issue field or status updates"),
		metric.WithUnit("{issue}"),
	)

	m.IssueMovesTotal, _ = meter.Int64Counter(
		"sprintboard.issues.moves.total",
		metric.WithDescription("Total number of issue reorder operations"),
		metric.WithUnit("{move}"),
	)

	m.IssuesShiftedTotal, _ = meter.Int64Counter(
		"sprintboard.issues.shifted.total",
		metric.WithDescription("Total number of sibling issues shifted down by reorder operations"),
		metric.WithUnit("{issue}"),
	)

	m.IssueMoveDuration, _ = meter.Float64Histogram(
		"sprintboard.issues.move.duration",
		metric.WithDescription("Duration of issue reorder operations"),
		metric.WithUnit("ms"),
	)

	m.AuthzDeniedTotal, _ = meter.Int64Counter(
		"sprintboard.authz.denied.total",
		metric.WithDescription("Total number of requests rejected by the authorization gate"),
		metric.WithUnit("{request}"),
	)

	m.CallersResolved, _ = meter.Int64Counter(
		"sprintboard.identity.resolved.total",
		metric.WithDescription("Total number of bearer tokens resolved into callers"),
		metric.WithUnit("{request}"),
	)

	m.RateLimitedTotal, _ = meter.Int64Counter(
		"sprintboard.http.rate_limited.total",
		metric.WithDescription("Total number of requests rejected by the rate limiter"),
		metric.WithUnit("{request}"),
	)

	return m
}
