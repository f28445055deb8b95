// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clover"

var (
	// ImportRowsTotal counts processed rows by outcome: ok, invalid, failed.
	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Import rows processed by outcome",
	}, []string{"outcome"})

	// ImportBatchesTotal counts batches by ingestion source: http, kafka.
	ImportBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "batches_total",
		Help:      "Import batches processed by source",
	}, []string{"source"})

	// ImportBatchDuration observes end-to-end batch processing time.
	ImportBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "batch_duration_seconds",
		Help:      "Import batch processing duration",
		Buckets:   prometheus.DefBuckets,
	})

	// ReportRequestsTotal counts report executions by view.
	ReportRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reports",
		Name:      "requests_total",
		Help:      "Report executions by view",
	}, []string{"report"})
)
