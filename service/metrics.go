package service

import (
	"lexresearch-backend/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fallback reasons
const (
	reasonTimeout     = "timeout"
	reasonUnavailable = "unavailable"
	reasonError       = "error"
	reasonEmpty       = "empty"
)

var reportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lexresearch",
	Subsystem: "research",
	Name:      "reports_total",
	Help:      "Research reports by body source and fallback reason",
}, []string{"source", "reason"})

func recordReport(source models.ReportSource, reason string) {
	reportsTotal.WithLabelValues(string(source), reason).Inc()
}
