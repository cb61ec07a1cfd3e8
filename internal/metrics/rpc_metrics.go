package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// RPC Metrics
// =============================================================================

var (
	// RequestsTotal tracks completed calls per RPC method.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphserving_requests_total",
			Help: "Total number of graph-serving RPC calls by method and outcome.",
		},
		[]string{"method", "outcome"}, // outcome: ok, error
	)

	// RequestLatencySeconds tracks per-method handler latency.
	RequestLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphserving_request_latency_seconds",
			Help:    "Latency of graph-serving RPC handlers.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"method"},
	)

	// RequestBatchSize tracks the number of node ids in a request.
	RequestBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphserving_request_batch_size",
			Help:    "Number of node ids in a graph-serving request.",
			Buckets: []float64{1, 8, 32, 128, 512, 2048, 8192, 32768},
		},
		[]string{"method"},
	)

	// NodesSkippedTotal counts node ids (or edges) silently omitted from a
	// reply: absent from this server's node location index, or present
	// with no partition copy holding the requested data.
	NodesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphserving_nodes_skipped_total",
			Help: "Total number of requested node ids not found on this server.",
		},
		[]string{"method"},
	)
)

// =============================================================================
// Index & Partition Metrics
// =============================================================================

var (
	// IndexLoadDurationSeconds measures how long node-map loading took.
	IndexLoadDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphserving_index_load_duration_seconds",
			Help:    "Duration of node location index construction at startup.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// IndexNodesLoaded counts distinct global node ids known to this server.
	IndexNodesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphserving_index_nodes_loaded",
			Help: "Number of distinct node ids present in the node location index.",
		},
	)

	// IndexRunSlotsTotal counts total (partition, local_index) run slots,
	// including dead space left behind by run copies.
	IndexRunSlotsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphserving_index_run_slots_total",
			Help: "Total run slots recorded by the node location index, including abandoned runs.",
		},
	)

	// PartitionsLoaded counts partitions assigned to and loaded by this server.
	PartitionsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphserving_partitions_loaded",
			Help: "Number of partitions loaded by this server.",
		},
	)
)

// =============================================================================
// Parallel Executor Metrics
// =============================================================================

var (
	// ExecutorTasksTotal counts sub-range tasks dispatched to the worker pool.
	ExecutorTasksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphserving_executor_tasks_total",
			Help: "Total number of sub-range tasks dispatched by the parallel executor.",
		},
	)

	// ExecutorInlineTotal counts calls served inline (pool disabled or batch too small).
	ExecutorInlineTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphserving_executor_inline_total",
			Help: "Total number of run_parallel calls served inline without the worker pool.",
		},
	)
)
