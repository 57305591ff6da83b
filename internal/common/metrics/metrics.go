// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Total number of form submissions by outcome",
		},
		[]string{"outcome"},
	)

	DocumentsAssembled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "document_assemblies_total",
			Help: "Total number of PDF documents assembled",
		},
	)

	DocumentPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_pages",
			Help:    "Pages per assembled document",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	PackagesBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "packages_built_total",
			Help: "Total number of application archives built",
		},
	)

	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliveries_total",
			Help: "Total number of delivery attempts by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_duration_seconds",
			Help: "Duration of pipeline stages in seconds",
		},
		[]string{"stage"},
	)
)
