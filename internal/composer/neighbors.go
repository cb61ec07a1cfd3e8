package composer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/23skdu/graphserving/internal/metrics"
)

const methodGetNeighborCounts = "get_neighbor_counts"
const methodGetNeighbors = "get_neighbors"

// GetNeighborCounts sums NeighborCount across every partition copy of
// each requested node: a node replicated across shards has its neighbor
// edges partitioned along with it, so the true count is the sum, not the
// max. Runs inline on the caller thread — batches are cheap index
// lookups plus a partition call per run, not worth fanning out.
func (c *Composer) GetNeighborCounts(_ context.Context, req *GetNeighborCountsRequest) (*GetNeighborCountsResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetNeighborCounts))
	defer timer.ObserveDuration()
	metrics.RequestBatchSize.WithLabelValues(methodGetNeighborCounts).Observe(float64(len(req.NodeIDs)))

	resp := &GetNeighborCountsResponse{NeighborCounts: make([]uint64, len(req.NodeIDs))}
	for i, id := range req.NodeIDs {
		r, ok := c.findRun(id)
		if !ok {
			continue
		}
		var total uint64
		for k := uint32(0); k < r.count; k++ {
			p, local := c.pair(r, k)
			total += c.partitions[p].NeighborCount(local, req.EdgeTypes)
		}
		resp.NeighborCounts[i] = total
	}
	recordOutcome(methodGetNeighborCounts, nil)
	return resp, nil
}

// GetNeighbors returns the full neighbor list for every requested node,
// concatenated node-major and, within a node, in partition-run order
// then each partition's natural storage order. Nodes
// absent from this server contribute a NeighborCounts entry of 0 and no
// neighbor rows. Runs inline on the caller thread, not fanned out.
func (c *Composer) GetNeighbors(_ context.Context, req *GetNeighborsRequest) (*GetNeighborsResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetNeighbors))
	defer timer.ObserveDuration()
	metrics.RequestBatchSize.WithLabelValues(methodGetNeighbors).Observe(float64(len(req.NodeIDs)))

	resp := &GetNeighborsResponse{}
	for _, id := range req.NodeIDs {
		r, ok := c.findRun(id)
		if !ok {
			resp.NeighborCounts = append(resp.NeighborCounts, 0)
			c.logger.Debug("get_neighbors: node not found, skipping", zap.Uint64("node_id", uint64(id)))
			continue
		}
		var total uint64
		for k := uint32(0); k < r.count; k++ {
			p, local := c.pair(r, k)
			total += c.partitions[p].FullNeighbor(local, req.EdgeTypes, &resp.NodeIDs, &resp.EdgeTypes, &resp.EdgeWeights)
		}
		resp.NeighborCounts = append(resp.NeighborCounts, total)
	}
	recordOutcome(methodGetNeighbors, nil)
	return resp, nil
}
