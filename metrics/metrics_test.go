package metrics_test

import (
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/wifinl/nl80211ctl/metrics"
)

// TestMetricsRegistered is a minimal registration-sanity check: every
// exported metric must accept the labels the operation layer and monitor
// package use, and must be readable back through the standard collector
// interface, without a live polling loop or HTTP server.
func TestMetricsRegistered(t *testing.T) {
	metrics.OperationLatencyHistogram.WithLabelValues("get-wiphy").Observe(0.01)
	metrics.PollingHistogram.Observe(1.5)
	metrics.InterfaceCountHistogram.Observe(3)
	metrics.CacheSizeHistogram.Observe(3)
	metrics.ErrorCount.WithLabelValues("EINVAL").Inc()
	metrics.AuditRecordCount.Inc()

	var m dto.Metric
	if err := metrics.AuditRecordCount.Write(&m); err != nil {
		t.Fatalf("AuditRecordCount.Write: %v", err)
	}
	if got := m.GetCounter().GetValue(); got != 1 {
		t.Errorf("AuditRecordCount = %v, want 1", got)
	}
}
