package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dialogue_requests_enqueued_total",
		Help: "Total number of analysis requests placed on the worker queue.",
	})

	RequestsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dialogue_requests_total",
		Help: "Total number of analysis requests answered, labelled by operation and response type.",
	}, []string{"op", "status"})

	RequestsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dialogue_requests_dropped_total",
		Help: "Total number of requests rejected due to a full queue.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dialogue_request_duration_ms",
		Help:    "Time spent by the worker on a request in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	}, []string{"op"})

	LateResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dialogue_late_responses_total",
		Help: "Responses discarded because their caller had already given up.",
	})

	RequestTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dialogue_request_timeouts_total",
		Help: "Requests abandoned by the caller after the request timeout.",
	})

	ValidationFindings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dialogue_validation_findings_total",
		Help: "Validation findings reported, labelled by severity.",
	}, []string{"severity"})

	PathsTruncated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dialogue_paths_truncated_total",
		Help: "Path enumerations that hit a cycle, the depth ceiling or the path budget.",
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dialogue_queue_utilization_ratio",
		Help: "Current request queue utilization (0–1).",
	})
)
