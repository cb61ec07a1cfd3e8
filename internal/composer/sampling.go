package composer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/23skdu/graphserving/internal/graph"
	"github.com/23skdu/graphserving/internal/metrics"
)

const methodWeightedSampleNeighbors = "weighted_sample_neighbors"
const methodUniformSampleNeighbors = "uniform_sample_neighbors"

// WeightedSampleNeighbors draws Count neighbors per found node using
// weighted sampling with replacement, feeding every partition run of a
// node through the same reservoir sequentially so weight is combined
// correctly across shards. Nodes absent from this server contribute no
// row at all. Runs inline on the caller thread: each partition call
// consumes and advances a running seed counter, so no two calls in the
// batch — across nodes or across a single node's replicated copies —
// share a random stream.
func (c *Composer) WeightedSampleNeighbors(_ context.Context, req *WeightedSampleNeighborsRequest) (*WeightedSampleNeighborsResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodWeightedSampleNeighbors))
	defer timer.ObserveDuration()
	metrics.RequestBatchSize.WithLabelValues(methodWeightedSampleNeighbors).Observe(float64(len(req.NodeIDs)))

	resp := &WeightedSampleNeighborsResponse{}
	var skipped int
	seed := req.Seed
	for _, id := range req.NodeIDs {
		r, ok := c.findRun(id)
		if !ok {
			skipped++
			c.logger.Debug("weighted_sample_neighbors: node not found, skipping", zap.Uint64("node_id", uint64(id)))
			continue
		}
		ids := make([]graph.NodeId, req.Count)
		types := make([]graph.Type, req.Count)
		weights := make([]float32, req.Count)
		for j := range ids {
			ids[j] = req.DefaultNodeID
			types[j] = req.DefaultEdgeType
			weights[j] = req.DefaultNodeWeight
		}
		var shardWeight float32
		for k := uint32(0); k < r.count; k++ {
			p, local := c.pair(r, k)
			c.partitions[p].SampleNeighbor(seed, local, req.EdgeTypes, req.Count, ids, types, weights, &shardWeight, req.DefaultNodeID, req.DefaultNodeWeight, req.DefaultEdgeType)
			seed++
		}
		resp.NeighborIDs = append(resp.NeighborIDs, ids...)
		resp.NeighborTypes = append(resp.NeighborTypes, types...)
		resp.NeighborWeights = append(resp.NeighborWeights, weights...)
		resp.ShardWeights = append(resp.ShardWeights, shardWeight)
	}
	if skipped > 0 {
		metrics.NodesSkippedTotal.WithLabelValues(methodWeightedSampleNeighbors).Add(float64(skipped))
	}
	recordOutcome(methodWeightedSampleNeighbors, nil)
	return resp, nil
}

// UniformSampleNeighbors is the unweighted analogue of
// WeightedSampleNeighbors. Runs inline on the caller thread with the
// same per-partition-call seed advance.
func (c *Composer) UniformSampleNeighbors(_ context.Context, req *UniformSampleNeighborsRequest) (*UniformSampleNeighborsResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodUniformSampleNeighbors))
	defer timer.ObserveDuration()
	metrics.RequestBatchSize.WithLabelValues(methodUniformSampleNeighbors).Observe(float64(len(req.NodeIDs)))

	resp := &UniformSampleNeighborsResponse{}
	var skipped int
	seed := req.Seed
	for _, id := range req.NodeIDs {
		r, ok := c.findRun(id)
		if !ok {
			skipped++
			c.logger.Debug("uniform_sample_neighbors: node not found, skipping", zap.Uint64("node_id", uint64(id)))
			continue
		}
		ids := make([]graph.NodeId, req.Count)
		types := make([]graph.Type, req.Count)
		for j := range ids {
			ids[j] = req.DefaultNodeID
			types[j] = req.DefaultEdgeType
		}
		var shardCount uint64
		for k := uint32(0); k < r.count; k++ {
			p, local := c.pair(r, k)
			c.partitions[p].UniformSampleNeighbor(req.WithoutReplacement, seed, local, req.EdgeTypes, req.Count, ids, types, &shardCount, req.DefaultNodeID, req.DefaultEdgeType)
			seed++
		}
		resp.NeighborIDs = append(resp.NeighborIDs, ids...)
		resp.NeighborTypes = append(resp.NeighborTypes, types...)
		resp.ShardCounts = append(resp.ShardCounts, shardCount)
	}
	if skipped > 0 {
		metrics.NodesSkippedTotal.WithLabelValues(methodUniformSampleNeighbors).Add(float64(skipped))
	}
	recordOutcome(methodUniformSampleNeighbors, nil)
	return resp, nil
}
