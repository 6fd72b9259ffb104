package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SubmissionsTotal   *prometheus.CounterVec
	PlacesCallsTotal   *prometheus.CounterVec
	VehicleSavesTotal  prometheus.Counter
	NotificationEvents prometheus.Counter
	SubmissionTime     prometheus.Histogram
	ErrorsCount        *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_request_submissions_total",
			Help:      "The total number of service request submissions",
		}, []string{"outcome"}),
		PlacesCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "places_provider_calls_total",
			Help:      "The total number of calls made to the places provider",
		}, []string{"operation"}),
		VehicleSavesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vehicle_saves_total",
			Help:      "The total number of vehicle list writes",
		}),
		NotificationEvents: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_events_total",
			Help:      "The total number of notification feed events received",
		}),
		SubmissionTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_time_seconds",
			Help:      "Time taken to submit a service request",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
