package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricsAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "course_service",
	Subsystem: "remote",
	Name:      "query_attempts_total",
	Help:      "Number of remote query attempts by queried field and outcome classification",
}, []string{"field", "classification"})
