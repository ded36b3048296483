package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Abort reasons used as the "reason" label.
const (
	ReasonCancelled        = "cancelled"
	ReasonSuperseded       = "superseded"
	ReasonCaptureCancelled = "capture_cancelled"
	ReasonCaptureFailed    = "capture_failed"
)

type Metrics struct {
	Started   prometheus.Counter
	Committed prometheus.Counter
	Aborted   *prometheus.CounterVec
	Stale     prometheus.Counter
}

// NewMetrics creates the session counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Started: f.NewCounter(prometheus.CounterOpts{
			Namespace: "happyplaces",
			Name:      "sessions_started_total",
			Help:      "Capture sessions started from a chosen location.",
		}),
		Committed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "happyplaces",
			Name:      "sessions_committed_total",
			Help:      "Capture sessions that produced an entry.",
		}),
		Aborted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "happyplaces",
			Name:      "sessions_aborted_total",
			Help:      "Capture sessions that ended without an entry, by reason.",
		}, []string{"reason"}),
		Stale: f.NewCounter(prometheus.CounterOpts{
			Namespace: "happyplaces",
			Name:      "stale_captures_total",
			Help:      "Capture results discarded because their session was no longer active.",
		}),
	}
}
