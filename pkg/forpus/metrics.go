package forpus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected" // decoded, but the body carries an error
	outcomeInvalid  = "invalid"  // body is not JSON
	outcomeError    = "error"    // transport failure
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forpus_client",
			Name:      "requests_total",
			Help:      "API round trips by method, resource and outcome.",
		},
		[]string{"method", "resource", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forpus_client",
			Name:      "request_duration_seconds",
			Help:      "API round trip latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)

	reauthenticationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "forpus_client",
			Name:      "reauthentications_total",
			Help:      "Calls retried after the token was rejected.",
		},
	)
)
