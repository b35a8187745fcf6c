// Package metrics defines Prometheus metric types for the nl80211
// operation layer and the polling loop built on it.
//
// When defining new operations or metrics, these are helpful values to
// track:
//  - requests going into or results coming out of the engine.
//  - the success or error status of any of the above.
//  - the distribution of processing latency.
package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationLatencyHistogram tracks the latency of one nl80211
	// operation, from message build through reply decode, labeled by
	// operation name (e.g. "get-wiphy", "set-wiphy").
	OperationLatencyHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "nl80211ctl_operation_latency_seconds",
			Help: "nl80211 operation latency distribution (seconds)",
			Buckets: []float64{
				0.001, 0.00125, 0.0016, 0.002, 0.0025, 0.0032, 0.004, 0.005, 0.0063, 0.0079,
				0.01, 0.0125, 0.016, 0.02, 0.025, 0.032, 0.04, 0.05, 0.063, 0.079,
				0.1, 0.125, 0.16, 0.2,
			},
		},
		[]string{"operation"})

	// PollingHistogram tracks the interval between package monitor's
	// polling rounds.
	PollingHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nl80211ctl_polling_interval_seconds",
			Help:    "monitor polling interval distribution (seconds)",
			Buckets: prometheus.LinearBuckets(0, 1, 20),
		},
	)

	// InterfaceCountHistogram tracks the number of interfaces returned by
	// each Interfaces() dump that monitor.Run makes.
	InterfaceCountHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nl80211ctl_interface_count_histogram",
			Help:    "interface count per dump",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 10, 16, 32, 64},
		},
	)

	// CacheSizeHistogram tracks the number of Cards held in package
	// cache's current generation at the end of each cycle.
	CacheSizeHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nl80211ctl_cache_size_histogram",
			Help:    "card cache size histogram",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 10, 16, 32, 64},
		})

	// ErrorCount measures the number of operation-boundary failures by
	// errno class.
	//
	// Example usage:
	//    metrics.ErrorCount.With(prometheus.Labels{"errno": "EINVAL"}).Inc()
	ErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nl80211ctl_error_total",
			Help: "The total number of operation-boundary errors, by errno class.",
		}, []string{"errno"})

	// AuditRecordCount counts the number of records written by package
	// auditlog.
	AuditRecordCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nl80211ctl_audit_record_total",
			Help: "Number of audit log records written.",
		},
	)
)

// init prints a log message to let the user know that the package has
// been loaded and the metrics registered. The metrics are auto-registered,
// which means they are registered as soon as this package is loaded.
func init() {
	log.Println("Prometheus metrics in nl80211ctl.metrics are registered.")
}
