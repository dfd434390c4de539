package cryptera

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts encode and decode calls by outcome.
	// The result label is "ok" or an error kind from Kind.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptera_operations_total",
			Help: "Total number of cryptera operations",
		},
		[]string{"operation", "algorithm", "result"},
	)
	// OperationDuration is the latency of encode and decode calls.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptera_operation_duration_seconds",
			Help:    "Latency of cryptera operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "algorithm"},
	)
	// PayloadBytes is the size of payloads passing through successful operations.
	PayloadBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptera_payload_bytes",
			Help:    "Payload size in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		},
		[]string{"operation"},
	)
)

func observe(operation string, algo Algorithm, size int, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = Kind(err)
	}
	OperationsTotal.WithLabelValues(operation, string(algo), result).Inc()
	OperationDuration.WithLabelValues(operation, string(algo)).Observe(duration.Seconds())
	if err == nil {
		PayloadBytes.WithLabelValues(operation).Observe(float64(size))
	}
}
