package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	accessDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lockward_access_decisions_total",
		Help: "Access decisions returned to lock controllers",
	}, []string{"result", "card"})
	syncProbesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lockward_access_sync_probes_total",
		Help: "Access requests flagged as sync/heartbeat probes (not logged)",
	})
	auditFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lockward_audit_failures_total",
		Help: "Access log entries that could not be persisted",
	}, []string{"reason"})
	auditQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lockward_audit_queue_depth",
		Help: "Access log entries waiting in the asynchronous writer queue",
	})
	auditPrunedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lockward_audit_pruned_total",
		Help: "Access log entries deleted by the retention job",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry prometheus.Registerer) {
	registry.MustRegister(accessDecisionsTotal, syncProbesTotal, auditFailuresTotal, auditQueueDepth, auditPrunedTotal)
}

// ObserveDecision counts one access decision.
func ObserveDecision(granted, knownCard bool) {
	result := "denied"
	if granted {
		result = "granted"
	}
	card := "unknown"
	if knownCard {
		card = "known"
	}
	accessDecisionsTotal.WithLabelValues(result, card).Inc()
}

// IncSyncProbe increments the sync probe counter.
func IncSyncProbe() { syncProbesTotal.Inc() }

// IncAuditFailure increments the audit failure counter for reason
// ("write", "queue_full", "closed").
func IncAuditFailure(reason string) { auditFailuresTotal.WithLabelValues(reason).Inc() }

// SetAuditQueueDepth records the current writer backlog.
func SetAuditQueueDepth(n int) { auditQueueDepth.Set(float64(n)) }

// AddAuditPruned adds n to the pruned entries counter.
func AddAuditPruned(n int64) { auditPrunedTotal.Add(float64(n)) }
