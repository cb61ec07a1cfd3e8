package composer

import (
	"context"

	"go.uber.org/zap"

	"github.com/23skdu/graphserving/internal/executor"
	"github.com/23skdu/graphserving/internal/graph"
	"github.com/23skdu/graphserving/internal/index"
	"github.com/23skdu/graphserving/internal/metadata"
	"github.com/23skdu/graphserving/internal/metrics"
	"github.com/23skdu/graphserving/internal/partition"
)

// Composer is the query composer: it walks the node
// location index, dispatches to the partitions a node's runs point at,
// and assembles the twelve RPC replies. One Composer is built once at
// startup and is safe for concurrent use by many in-flight requests.
type Composer struct {
	idx        *index.Index
	partitions []partition.Partition
	exec       *executor.Executor
	meta       *metadata.Metadata
	logger     *zap.Logger
}

// New builds a Composer over an already-loaded index, the partitions it
// points into (ordered by graph.PartitionIndex), the metadata snapshot,
// and the executor used to fan batched requests out across workers.
func New(idx *index.Index, partitions []partition.Partition, meta *metadata.Metadata, exec *executor.Executor, logger *zap.Logger) *Composer {
	return &Composer{idx: idx, partitions: partitions, meta: meta, exec: exec, logger: logger}
}

// runFanout splits [0, n) into the executor's worker ranges and collects
// one result value per worker, in worker order — the shape every handler
// below uses to turn a per-range closure into a concatenated reply.
func runFanout[T any](ctx context.Context, exec *executor.Executor, n int, work func(workerIndex, start, end int) T) ([]T, error) {
	var results []T
	pre := func(k int) { results = make([]T, k) }
	body := func(ctx context.Context, workerIndex, start, end int) error {
		results[workerIndex] = work(workerIndex, start, end)
		return nil
	}
	if err := exec.Run(ctx, n, pre, body); err != nil {
		return nil, err
	}
	return results, nil
}

// run is a run of (partition, local) pairs for one node id.
type run struct {
	offset uint32
	count  uint32
}

func (c *Composer) findRun(id graph.NodeId) (run, bool) {
	off, count, ok := c.idx.Find(id)
	if !ok {
		return run{}, false
	}
	return run{offset: off, count: count}, true
}

func (c *Composer) pair(r run, k uint32) (graph.PartitionIndex, graph.LocalIndex) {
	return c.idx.At(r.offset, k)
}

func recordOutcome(method string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RequestsTotal.WithLabelValues(method, outcome).Inc()
}
