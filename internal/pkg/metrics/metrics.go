// Package metrics exposes Prometheus instrumentation for the survey bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_updates_total",
			Help: "Inbound webhook updates by classified input kind",
		},
		[]string{"kind"}, // button, text, location, photo, reset, unrecognized, duplicate
	)

	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_transitions_total",
			Help: "Engine transitions by source step and result",
		},
		[]string{"step", "result"}, // result: advanced, rejected, reprompt, completed, aborted, reset
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "survey_sessions_active",
			Help: "Sessions currently held in the session store",
		},
	)

	reportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_reports_total",
			Help: "Report handoffs by delivery status",
		},
		[]string{"status"}, // queued, sent, mail_failed, enqueue_failed
	)

	dispatchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_dispatch_failures_total",
			Help: "Outbound actions that failed against the messaging API",
		},
		[]string{"action"},
	)
)

func RecordUpdate(kind string) {
	updatesTotal.WithLabelValues(kind).Inc()
}

func RecordTransition(step, result string) {
	transitionsTotal.WithLabelValues(step, result).Inc()
}

func SetActiveSessions(n int) {
	sessionsActive.Set(float64(n))
}

func RecordReport(status string) {
	reportsTotal.WithLabelValues(status).Inc()
}

func RecordDispatchFailure(action string) {
	dispatchFailuresTotal.WithLabelValues(action).Inc()
}
