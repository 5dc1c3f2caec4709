package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Lock manager metrics
	LockQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "calvindb_lock_queue_depth",
			Help: "Total number of queued lock requests across all records",
		},
	)

	LockWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "calvindb_lock_wait_seconds",
			Help:    "Time a transaction spent waiting between put_txn and becoming ready",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Scheduler metrics
	SchedulingLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "calvindb_scheduling_latency_seconds",
			Help:    "Time from lock enqueue in submit_txn to lock release",
			Buckets: prometheus.DefBuckets,
		},
	)

	TxnsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "calvindb_txns_submitted_total",
			Help: "Total number of transactions submitted to the scheduler",
		},
	)

	TxnsFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calvindb_txns_failed_total",
			Help: "Total number of transactions that returned a recoverable error, by kind",
		},
		[]string{"kind"},
	)

	// Executor metrics
	ExecutorOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calvindb_executor_op_duration_seconds",
			Help:    "Time taken by one executor.Execute call, by statement kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Sequencer / log metrics
	SequencerInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "calvindb_sequencer_in_flight",
			Help: "Number of transactions awaiting their completion callback",
		},
	)

	LogConsumerLag = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "calvindb_log_consumer_lag",
			Help: "Number of buffered entries not yet consumed on this node's subscriber channel",
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calvindb_api_requests_total",
			Help: "Total number of RunStmt RPCs by status",
		},
		[]string{"status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calvindb_api_request_duration_seconds",
			Help:    "RunStmt RPC duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(LockQueueDepth)
	prometheus.MustRegister(LockWaitDuration)
	prometheus.MustRegister(SchedulingLatency)
	prometheus.MustRegister(TxnsSubmittedTotal)
	prometheus.MustRegister(TxnsFailedTotal)
	prometheus.MustRegister(ExecutorOpDuration)
	prometheus.MustRegister(SequencerInFlight)
	prometheus.MustRegister(LogConsumerLag)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
