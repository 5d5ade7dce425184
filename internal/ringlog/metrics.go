package ringlog

import "github.com/prometheus/client_golang/prometheus"

var (
	writesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eelog_writes_started_total",
		Help: "Records accepted by the incremental writer",
	})

	writesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eelog_writes_completed_total",
		Help: "Records fully transferred to the medium",
	})

	busyPolls = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eelog_write_polls_busy_total",
		Help: "Write polls returned without effect because the medium was busy",
	})

	slotReads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eelog_slot_reads_total",
		Help: "Slots decoded by traversal operations",
	})
)

func init() {
	prometheus.MustRegister(writesStarted, writesCompleted, busyPolls, slotReads)
}
