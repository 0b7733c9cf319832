package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ProfileReadsTotal      metric.Int64Counter
	ProfileUpdatesTotal    metric.Int64Counter
	CooldownDenialsTotal   metric.Int64Counter
	ProfileCacheHitsTotal  metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("feirahub-profile-service")
		var err error
		m := &AppMetrics{}

		m.ProfileReadsTotal, err = meter.Int64Counter(
			"profile_reads_total",
			metric.WithDescription("Total number of profile reads served"),
			metric.WithUnit("{read}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create profile_reads_total: %v", err)
		}

		m.ProfileUpdatesTotal, err = meter.Int64Counter(
			"profile_updates_total",
			metric.WithDescription("Total number of profile updates written"),
			metric.WithUnit("{update}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create profile_updates_total: %v", err)
		}

		m.CooldownDenialsTotal, err = meter.Int64Counter(
			"restricted_update_denials_total",
			metric.WithDescription("Profile updates rejected by the 30-day restricted-field cooldown"),
			metric.WithUnit("{denial}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create restricted_update_denials_total: %v", err)
		}

		m.ProfileCacheHitsTotal, err = meter.Int64Counter(
			"profile_cache_hits_total",
			metric.WithDescription("Profile reads served from the in-process cache"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create profile_cache_hits_total: %v", err)
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
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
