package eval

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banditlab_eval_steps_total",
			Help: "Count of environment steps taken during evaluation, by agent.",
		},
		[]string{"agent"},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banditlab_eval_runs_total",
			Help: "Count of completed experiment runs, by agent and status.",
		},
		[]string{"agent", "status"},
	)
)

func init() {
	prometheus.MustRegister(stepsTotal, runsTotal)
}
