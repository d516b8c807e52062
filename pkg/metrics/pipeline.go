package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline aggregates the counters emitted by the field synchronization
// pipeline. Constructed once per process and injected where needed.
type Pipeline struct {
	ValidationFailures *prometheus.CounterVec
	SnapshotSyncs      *prometheus.CounterVec
	AuditNotes         prometheus.Counter
}

// NewPipeline registers the pipeline counters on the provided registerer, or
// the default registerer when nil.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	factory := promauto.With(reg)
	return &Pipeline{
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldforge",
			Subsystem: "fields",
			Name:      "validation_failures_total",
			Help:      "Field validation failures by code.",
		}, []string{"code"}),
		SnapshotSyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldforge",
			Subsystem: "fields",
			Name:      "snapshot_syncs_total",
			Help:      "Snapshot synchronization passes by lifecycle stage.",
		}, []string{"stage"}),
		AuditNotes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldforge",
			Subsystem: "fields",
			Name:      "audit_notes_total",
			Help:      "Audit notes emitted for field value changes.",
		}),
	}
}

// ObserveValidationFailure records one rejected field value.
func (p *Pipeline) ObserveValidationFailure(code string) {
	if p == nil {
		return
	}
	p.ValidationFailures.WithLabelValues(code).Inc()
}

// ObserveSync records one completed synchronization pass.
func (p *Pipeline) ObserveSync(stage string) {
	if p == nil {
		return
	}
	p.SnapshotSyncs.WithLabelValues(stage).Inc()
}

// ObserveAuditNotes records emitted audit notes.
func (p *Pipeline) ObserveAuditNotes(count int) {
	if p == nil || count <= 0 {
		return
	}
	p.AuditNotes.Add(float64(count))
}
