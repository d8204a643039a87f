package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Fields are public so they can be accessed from other packages.
type AppMetrics struct {
	GenerationRequestsTotal   metric.Int64Counter
	GenerationAttemptsTotal   metric.Int64Counter
	RateLimitHitsTotal        metric.Int64Counter
	FallbacksTotal            metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("Gildam")
		var err error
		m := &AppMetrics{}

		m.GenerationRequestsTotal, err = meter.Int64Counter(
			"itinerary_generation_requests_total",
			metric.WithDescription("Total number of itinerary generation requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_requests_total: %v", err)
		}

		m.GenerationAttemptsTotal, err = meter.Int64Counter(
			"itinerary_generation_attempts_total",
			metric.WithDescription("Total number of model call attempts, including retries"),
			metric.WithUnit("{attempt}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_attempts_total: %v", err)
		}

		m.RateLimitHitsTotal, err = meter.Int64Counter(
			"completion_rate_limit_hits_total",
			metric.WithDescription("Total number of rate-limit responses from the completion service"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create completion_rate_limit_hits_total: %v", err)
		}

		m.FallbacksTotal, err = meter.Int64Counter(
			"itinerary_fallbacks_total",
			metric.WithDescription("Total number of deterministic fallback itineraries served"),
			metric.WithUnit("{itinerary}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_fallbacks_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"itinerary_generation_duration_seconds",
			metric.WithDescription("End-to-end duration of itinerary generation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_duration_seconds: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
