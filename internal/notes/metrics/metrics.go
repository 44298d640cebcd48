package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the moderation workflow.
type Metrics struct {
	NotesSubmitted prometheus.Counter
	NotesApproved  prometheus.Counter
	NotesDeleted   prometheus.Counter
}

// New creates and registers all moderation metrics.
func New() *Metrics {
	return &Metrics{
		NotesSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "noteboard_notes_submitted_total",
			Help: "Total number of notes submitted to the board",
		}),
		NotesApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "noteboard_notes_approved_total",
			Help: "Total number of notes approved by their recipient",
		}),
		NotesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "noteboard_notes_deleted_total",
			Help: "Total number of notes deleted by their recipient",
		}),
	}
}

func (m *Metrics) IncrementSubmitted() { m.NotesSubmitted.Inc() }
func (m *Metrics) IncrementApproved()  { m.NotesApproved.Inc() }
func (m *Metrics) IncrementDeleted()   { m.NotesDeleted.Inc() }
