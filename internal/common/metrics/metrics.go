// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MutationsCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutations_committed_total",
			Help: "Total number of mutations reconciled with the store",
		},
		[]string{"flow"},
	)

	MutationsRolledBack = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutations_rolled_back_total",
			Help: "Total number of mutations rolled back after a write failure",
		},
		[]string{"flow"},
	)

	MutationNoOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutation_noops_total",
			Help: "Total number of mutations aborted before any transport call",
		},
		[]string{"flow"},
	)

	TransportRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transport_requests_total",
			Help: "Total number of requests sent through the simulated transport",
		},
		[]string{"kind", "op"},
	)

	TransportWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transport_write_failures_total",
			Help: "Total number of injected write failures",
		},
		[]string{"op"},
	)

	TransportLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transport_latency_seconds",
			Help:    "Simulated latency applied per transport request",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
		},
		[]string{"kind"},
	)
)
