package observer

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	metricsEnabled = true // Flag to control metric collection

	// Registry holds every importer collector. A dedicated registry keeps the
	// pushed payload free of Go runtime noise from the default one.
	Registry = prometheus.NewRegistry()
	factory  = promauto.With(Registry)

	FilesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_importer_files_total",
			Help: "Upload files handled, labeled by outcome (archived, retained, rejected, failed).",
		},
		[]string{"outcome"},
	)
	RowsReadTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_importer_rows_read_total",
			Help: "CSV data rows read across all files.",
		},
	)
	RowsSkippedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_importer_rows_skipped_total",
			Help: "CSV rows not imported, labeled by reason.",
		},
		[]string{"reason"},
	)
	AddressesInsertedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_importer_addresses_inserted_total",
			Help: "Address rows committed.",
		},
	)
	PhoneQueueInsertedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_importer_phonequeue_inserted_total",
			Help: "Phone queue rows committed.",
		},
	)
	FileTimeoutsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_importer_file_timeouts_total",
			Help: "Files whose processing stopped at the per-file deadline.",
		},
	)
	BatchFlushDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lead_importer_batch_flush_duration_seconds",
			Help:    "Histogram of batch insert transaction durations.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
		[]string{"status"},
	)
	DatabaseOperationDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lead_importer_db_operation_duration_seconds",
			Help:    "Histogram of database operation durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "entity", "status"},
	)
	RunDurationSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "lead_importer_run_duration_seconds",
			Help: "Wall time of the last run.",
		},
	)
	LastSuccessTimestamp = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "lead_importer_last_success_timestamp_seconds",
			Help: "Unix time the last run finished without a fatal error.",
		},
	)
)

// InitMetrics toggles collection. Collectors stay registered either way.
func InitMetrics(enabled bool) {
	metricsEnabled = enabled
}

// IncFileOutcome counts one handled file.
func IncFileOutcome(outcome string) {
	if !metricsEnabled {
		return
	}
	FilesTotal.WithLabelValues(outcome).Inc()
}

// AddRowsRead adds to the rows read counter.
func AddRowsRead(n int) {
	if !metricsEnabled || n <= 0 {
		return
	}
	RowsReadTotal.Add(float64(n))
}

// AddRowsSkipped adds skipped rows for one reason.
func AddRowsSkipped(reason string, n int) {
	if !metricsEnabled || n <= 0 {
		return
	}
	RowsSkippedTotal.WithLabelValues(reason).Add(float64(n))
}

// IncFileTimeout counts a file stopped by its deadline.
func IncFileTimeout() {
	if !metricsEnabled {
		return
	}
	FileTimeoutsTotal.Inc()
}

// ObserveBatchFlush records one batch transaction and, on success, the rows it wrote.
func ObserveBatchFlush(duration time.Duration, addresses, phones int, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	BatchFlushDurationSeconds.WithLabelValues(status).Observe(duration.Seconds())
	if err == nil {
		AddressesInsertedTotal.Add(float64(addresses))
		PhoneQueueInsertedTotal.Add(float64(phones))
	}
}

// ObserveDbOperationDuration records the duration for a database operation.
func ObserveDbOperationDuration(operation, entity string, duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseOperationDurationSeconds.WithLabelValues(operation, entity, status).Observe(duration.Seconds())
}

// ObserveRun records the run duration and, when the run succeeded, its completion time.
func ObserveRun(duration time.Duration, finished time.Time, err error) {
	if !metricsEnabled {
		return
	}
	RunDurationSeconds.Set(duration.Seconds())
	if err == nil {
		LastSuccessTimestamp.Set(float64(finished.Unix()))
	}
}

// Push sends the registry to a Prometheus Pushgateway. A batch job exits
// before any scraper could reach it, so this is the only way out for metrics.
func Push(ctx context.Context, url, job, instance string) error {
	if !metricsEnabled || url == "" {
		return nil
	}
	pusher := push.New(url, job).Gatherer(Registry)
	if instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
