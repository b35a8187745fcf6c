package wifi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wifinl/nl80211ctl/metrics"
)

// observe records one operation's latency and, on failure, its errno class
// in package metrics (SPEC_FULL.md's domain-stack wiring for
// prometheus/client_golang).
func observe(op string, start time.Time, err error) {
	metrics.OperationLatencyHistogram.With(prometheus.Labels{"operation": op}).Observe(time.Since(start).Seconds())
	if err != nil {
		errno := UNDEF
		if opErr, ok := err.(*OpError); ok {
			errno = opErr.Errno
		}
		metrics.ErrorCount.With(prometheus.Labels{"errno": errno.String()}).Inc()
	}
}
