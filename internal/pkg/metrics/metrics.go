package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LifecycleTransitions counts request state changes by entity
	// (leave, attendance) and outcome (approved, rejected, cancelled,
	// auto_approved, conflict).
	LifecycleTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrops",
		Subsystem: "lifecycle",
		Name:      "transitions_total",
		Help:      "Request state transitions by entity and outcome.",
	}, []string{"entity", "outcome"})

	// ImportRows counts processed import rows. For failed rows the
	// category label carries the error classification.
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrops",
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Import rows processed, by result and error category.",
	}, []string{"result", "category"})

	// ImportRuns counts finished import runs.
	ImportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrops",
		Subsystem: "import",
		Name:      "runs_total",
		Help:      "Import runs, by how they ended.",
	}, []string{"state"})

	// ImportDuration observes how long a full import run takes.
	ImportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hrops",
		Subsystem: "import",
		Name:      "run_duration_seconds",
		Help:      "Wall time of import runs.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)
