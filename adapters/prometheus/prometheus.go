// Package prometheus provides the Prometheus implementation of the actor
// runtime's metrics port.
package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/gensrv-go/core/metrics"
)

// newTimer starts a timer that reports to h in seconds.
func newTimer(h prometheus.Observer) metrics.Timer {
	start := time.Now()
	return metrics.TimerFunc(func() {
		h.Observe(time.Since(start).Seconds())
	})
}

// Default histogram buckets for latency metrics (in seconds).
var defaultBuckets = []float64{
	.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1,
}

func boolToStr(b bool) string { return strconv.FormatBool(b) }
