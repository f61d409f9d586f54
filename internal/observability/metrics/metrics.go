package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ConfessionsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confessions_submitted_total",
			Help: "Confession submissions by result.",
		},
		[]string{"result"},
	)

	ConfirmationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confirmations_total",
			Help: "One-time link confirmations by terminal outcome.",
		},
		[]string{"outcome"},
	)

	InboxDrainsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_drains_total",
			Help: "Mark-all-read operations by result.",
		},
		[]string{"result"},
	)

	UnreadStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "unread_streams_active",
			Help: "Open unread-count SSE streams.",
		},
	)
)

var registerOnce sync.Once

// MustRegister gắn label service và đăng ký collectors vào default registry
func MustRegister(serviceName string) {
	registerOnce.Do(func() {
		reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer)
		reg.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			ConfessionsSubmittedTotal,
			ConfirmationsTotal,
			InboxDrainsTotal,
			UnreadStreams,
		)
	})
}
