package composer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	graphserrors "github.com/23skdu/graphserving/internal/errors"
	"github.com/23skdu/graphserving/internal/graph"
	"github.com/23skdu/graphserving/internal/metrics"
)

const methodGetNodeTypes = "get_node_types"
const methodGetNodeFeatures = "get_node_features"

// GetNodeTypes resolves the type of each requested node, trying every
// partition holding a copy in run order and falling through to the next
// copy whenever one reports graph.DefaultType, skipping node ids absent
// from this server. Runs inline on the caller thread — a type lookup is
// one array read per partition copy, not worth fanning out.
func (c *Composer) GetNodeTypes(_ context.Context, req *GetNodeTypesRequest) (*GetNodeTypesResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetNodeTypes))
	defer timer.ObserveDuration()
	metrics.RequestBatchSize.WithLabelValues(methodGetNodeTypes).Observe(float64(len(req.NodeIDs)))

	resp := &GetNodeTypesResponse{}
	var skipped int
	for i, id := range req.NodeIDs {
		r, ok := c.findRun(id)
		if !ok {
			skipped++
			c.logger.Debug("get_node_types: node not found, skipping", zap.Uint64("node_id", uint64(id)))
			continue
		}
		t := graph.DefaultType
		for k := uint32(0); k < r.count; k++ {
			p, local := c.pair(r, k)
			if got := c.partitions[p].GetNodeType(local); got != graph.DefaultType {
				t = got
				break
			}
		}
		resp.Offsets = append(resp.Offsets, int32(i))
		resp.Types = append(resp.Types, t)
	}
	if skipped > 0 {
		metrics.NodesSkippedTotal.WithLabelValues(methodGetNodeTypes).Add(float64(skipped))
	}
	recordOutcome(methodGetNodeTypes, nil)
	return resp, nil
}

// GetNodeFeatures fetches fv_size-byte dense feature rows for every found
// node, using the first partition copy that reports HasNodeFeatures.
func (c *Composer) GetNodeFeatures(ctx context.Context, req *GetNodeFeaturesRequest) (*GetNodeFeaturesResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetNodeFeatures))
	defer timer.ObserveDuration()
	metrics.RequestBatchSize.WithLabelValues(methodGetNodeFeatures).Observe(float64(len(req.NodeIDs)))

	rowSize := graph.TotalSize(req.Features)

	type fragment struct {
		offsets []int32
		values  []byte
		skipped int
	}

	frags, err := runFanout(ctx, c.exec, len(req.NodeIDs), func(_ int, start, end int) fragment {
		var f fragment
		for i := start; i < end; i++ {
			r, ok := c.findRun(req.NodeIDs[i])
			if !ok {
				f.skipped++
				c.logger.Debug("get_node_features: node not found, skipping", zap.Uint64("node_id", uint64(req.NodeIDs[i])))
				continue
			}
			var chosen = -1
			for k := uint32(0); k < r.count; k++ {
				p, local := c.pair(r, k)
				if c.partitions[p].HasNodeFeatures(local) {
					chosen = int(k)
					break
				}
			}
			if chosen < 0 {
				f.skipped++
				c.logger.Debug("get_node_features: no partition copy has features, skipping", zap.Uint64("node_id", uint64(req.NodeIDs[i])))
				continue
			}
			p, local := c.pair(r, uint32(chosen))
			row := make([]byte, rowSize)
			if err := c.partitions[p].GetNodeFeature(local, req.Features, row); err != nil {
				f.skipped++
				c.logger.Debug("get_node_features: partition read failed, skipping",
					zap.Error(graphserrors.WrapPartitionError(err, "GetNodeFeature", "dense feature read failed").
						WithContext("node_id", uint64(req.NodeIDs[i]))))
				continue
			}
			f.offsets = append(f.offsets, int32(i))
			f.values = append(f.values, row...)
		}
		return f
	})
	recordOutcome(methodGetNodeFeatures, err)
	if err != nil {
		return nil, err
	}

	resp := &GetNodeFeaturesResponse{}
	var skipped int
	for _, f := range frags {
		resp.Offsets = append(resp.Offsets, f.offsets...)
		resp.FeatureValues = append(resp.FeatureValues, f.values...)
		skipped += f.skipped
	}
	if skipped > 0 {
		metrics.NodesSkippedTotal.WithLabelValues(methodGetNodeFeatures).Add(float64(skipped))
	}
	return resp, nil
}
