package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adoption_applications_created_total",
			Help: "Total number of adoption applications submitted",
		},
	)

	TransitionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adoption_status_transitions_total",
			Help: "Total number of application status transitions applied",
		},
		[]string{"status"},
	)

	TransitionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adoption_status_transition_conflicts_total",
			Help: "Total number of approvals refused because the pet was already reserved",
		},
	)
)
