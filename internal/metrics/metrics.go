package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for checklist traffic, upstream refreshes and notification delivery
var (
	ChecklistSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checklist_submissions_total",
			Help: "Total number of checklist submissions by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	ChecklistResetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checklist_resets_total",
			Help: "Total number of admin checklist resets by type",
		},
		[]string{"type"},
	)

	ChecklistGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checklist_generated_total",
			Help: "Total number of packer lists built, by origin (generated, default, regenerated)",
		},
		[]string{"origin"},
	)

	EventRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_refresh_total",
			Help: "Total number of upstream event refreshes by outcome",
		},
		[]string{"outcome"},
	)

	EventRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_refresh_duration_seconds",
			Help:    "Duration of upstream event refreshes",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventsCached = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "events_cached",
			Help: "Number of upcoming events in the current snapshot",
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of submission notifications by outcome",
		},
		[]string{"outcome"},
	)

	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of persistence failures by store and operation",
		},
		[]string{"store", "op"},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(ChecklistSubmissionsTotal)
	prometheus.MustRegister(ChecklistResetsTotal)
	prometheus.MustRegister(ChecklistGeneratedTotal)
	prometheus.MustRegister(EventRefreshTotal)
	prometheus.MustRegister(EventRefreshDuration)
	prometheus.MustRegister(EventsCached)
	prometheus.MustRegister(NotificationsTotal)
	prometheus.MustRegister(StoreErrorsTotal)
}
