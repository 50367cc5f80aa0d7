package backup

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tablebackup_runs_total",
		Help: "Lifecycle runs by table and final state.",
	}, []string{"table", "state"})

	runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tablebackup_run_duration_seconds",
		Help:    "Duration of lifecycle runs.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 900},
	}, []string{"table"})

	exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tablebackup_exports_total",
		Help: "Export requests by table and result.",
	}, []string{"table", "result"})

	deletionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tablebackup_deletions_total",
		Help: "Expired backup deletions by table and result.",
	}, []string{"table", "result"})
)

// RegisterMetrics registers the lifecycle collectors with reg
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{runsTotal, runDuration, exportsTotal, deletionsTotal} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
