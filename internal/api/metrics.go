package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Flow actions by outcome; status is ok or the service error code.
	flowActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_flow_actions_total",
			Help: "Diagnostic flow actions handled",
		},
		[]string{"guide", "action", "status"},
	)

	completions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_completions_total",
			Help: "Completed diagnostics by level",
		},
		[]string{"guide", "level"},
	)

	sharedViews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_shared_views_total",
			Help: "Page loads that opened a shared result",
		},
		[]string{"guide"},
	)

	leadNotices = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_lead_sync_total",
			Help: "Lead sync outcomes reported to visitors",
		},
		[]string{"guide", "kind"},
	)

	activeFlows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "diagnostic_active_flows",
			Help: "Flow sessions held in memory",
		},
	)
)
