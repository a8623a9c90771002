// Package metrics registers the Prometheus collectors router.Bin exports,
// in the shape prysm's beacon-chain packages register theirs: promauto
// constructors bound to a caller-supplied registry, one histogram/counter
// per concern, touched only from the planning and rebuild code paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors groups every metric a router.Bin updates during a planning
// pass or rebuild cycle. Construct one with NewCollectors and pass it to
// router.WithMetrics; when that option is not given, the router registers
// its own Collectors against a private prometheus.NewRegistry().
type Collectors struct {
	PlanningDuration   prometheus.Histogram
	ProposalsGenerated prometheus.Counter
	CandidatesTested   *prometheus.CounterVec
	RebuildState       prometheus.Gauge
	OutputsCovered     prometheus.Gauge
	OutputsUncovered   prometheus.Gauge
}

// NewCollectors registers a fresh set of collectors against reg. Passing
// prometheus.NewRegistry() (rather than the global DefaultRegisterer) is
// recommended for tests, matching the pattern of a pedantic per-test
// registry used across the example pack.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		PlanningDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "autoroute",
			Subsystem: "planner",
			Name:      "planning_duration_seconds",
			Help:      "Wall-clock duration of one planning pass (generate + select).",
			Buckets:   prometheus.DefBuckets,
		}),
		ProposalsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "autoroute",
			Subsystem: "planner",
			Name:      "proposals_generated_total",
			Help:      "Number of candidate proposals produced across every layer of a planning pass.",
		}),
		CandidatesTested: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autoroute",
			Subsystem: "planner",
			Name:      "candidates_tested_total",
			Help:      "Number of candidate chains run through the sandbox tester, by outcome.",
		}, []string{"outcome"}),
		RebuildState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "autoroute",
			Subsystem: "rebuild",
			Name:      "state",
			Help:      "Current rebuild.State as an integer (0=idle, 1=draining, 2=rebuilding).",
		}),
		OutputsCovered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "autoroute",
			Subsystem: "planner",
			Name:      "outputs_covered",
			Help:      "Number of output endpoints covered by the last selected proposal set.",
		}),
		OutputsUncovered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "autoroute",
			Subsystem: "planner",
			Name:      "outputs_uncovered",
			Help:      "Number of output endpoints left unconnected by the last selected proposal set.",
		}),
	}
}

// ObserveOutcome increments CandidatesTested for the given outcome label
// ("accepted" or "rejected"), the two values the sandbox tester can report.
func (c *Collectors) ObserveOutcome(accepted bool) {
	if accepted {
		c.CandidatesTested.WithLabelValues("accepted").Inc()
	} else {
		c.CandidatesTested.WithLabelValues("rejected").Inc()
	}
}
