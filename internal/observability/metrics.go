package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	roundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blackjack",
			Subsystem: "dealer",
			Name:      "rounds_total",
			Help:      "Completed rounds by outcome from the player's side.",
		},
		[]string{"node", "outcome"},
	)
	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blackjack",
			Subsystem: "dealer",
			Name:      "sessions_total",
			Help:      "Sessions ended, by reason.",
		},
		[]string{"node", "reason"},
	)
	sessionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blackjack",
			Subsystem: "dealer",
			Name:      "session_duration_seconds",
			Help:      "Session duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "reason"},
	)
	offersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blackjack",
			Subsystem: "discovery",
			Name:      "offers_total",
			Help:      "Offer datagrams sent or received.",
		},
		[]string{"node", "direction", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(roundsTotal, sessionsTotal, sessionDuration, offersTotal)
	})
}

func RecordRound(node, outcome string) {
	RegisterMetrics()
	roundsTotal.WithLabelValues(node, outcome).Inc()
}

func RecordSessionEnd(node, reason string, duration time.Duration) {
	RegisterMetrics()
	sessionsTotal.WithLabelValues(node, reason).Inc()
	sessionDuration.WithLabelValues(node, reason).Observe(duration.Seconds())
}

func RecordOffer(node, direction string, success bool) {
	RegisterMetrics()
	label := "false"
	if success {
		label = "true"
	}
	offersTotal.WithLabelValues(node, direction, label).Inc()
}

// MetricsHandler exposes the default registry.
func MetricsHandler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}
