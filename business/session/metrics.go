package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

var activeSessions = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "banditlab_sessions_active",
		Help: "Number of live environment sessions.",
	},
)

func init() {
	prometheus.MustRegister(activeSessions)
}
