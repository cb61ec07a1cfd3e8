package composer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	graphserrors "github.com/23skdu/graphserving/internal/errors"
	"github.com/23skdu/graphserving/internal/metrics"
)

const methodGetNodeStringFeatures = "get_node_string_features"
const methodGetEdgeStringFeatures = "get_edge_string_features"

// GetNodeStringFeatures gathers per-node, per-feature byte lengths and a
// single concatenated value stream, per worker then across workers in
// order.
func (c *Composer) GetNodeStringFeatures(ctx context.Context, req *GetNodeStringFeaturesRequest) (*GetNodeStringFeaturesResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetNodeStringFeatures))
	defer timer.ObserveDuration()
	metrics.RequestBatchSize.WithLabelValues(methodGetNodeStringFeatures).Observe(float64(len(req.NodeIDs)))

	numFeatures := len(req.FeatureIDs)

	type fragment struct {
		dims    []int64
		values  []byte
		skipped int
	}

	frags, err := runFanout(ctx, c.exec, len(req.NodeIDs), func(_ int, start, end int) fragment {
		var f fragment
		for i := start; i < end; i++ {
			rowDims := make([]int64, numFeatures)
			r, ok := c.findRun(req.NodeIDs[i])
			if !ok {
				f.skipped++
				c.logger.Debug("get_node_string_features: node not found, skipping", zap.Uint64("node_id", uint64(req.NodeIDs[i])))
				f.dims = append(f.dims, rowDims...)
				continue
			}
			foundAny := false
			for k := uint32(0); k < r.count && !foundAny; k++ {
				p, local := c.pair(r, k)
				found, err := c.partitions[p].GetNodeStringFeature(local, req.FeatureIDs, rowDims, &f.values)
				if err != nil {
					c.logger.Debug("get_node_string_features: partition read failed, skipping copy",
						zap.Error(graphserrors.WrapPartitionError(err, "GetNodeStringFeature", "string feature read failed").
							WithContext("node_id", uint64(req.NodeIDs[i]))))
					continue
				}
				foundAny = found
			}
			f.dims = append(f.dims, rowDims...)
		}
		return f
	})
	recordOutcome(methodGetNodeStringFeatures, err)
	if err != nil {
		return nil, err
	}

	resp := &GetNodeStringFeaturesResponse{}
	var skipped int
	for _, f := range frags {
		resp.Dimensions = append(resp.Dimensions, f.dims...)
		resp.Values = append(resp.Values, f.values...)
		skipped += f.skipped
	}
	if skipped > 0 {
		metrics.NodesSkippedTotal.WithLabelValues(methodGetNodeStringFeatures).Add(float64(skipped))
	}
	return resp, nil
}

// GetEdgeStringFeatures is the edge-keyed analogue of
// GetNodeStringFeatures.
func (c *Composer) GetEdgeStringFeatures(ctx context.Context, req *GetEdgeStringFeaturesRequest) (*GetEdgeStringFeaturesResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetEdgeStringFeatures))
	defer timer.ObserveDuration()

	n := len(req.Types)
	metrics.RequestBatchSize.WithLabelValues(methodGetEdgeStringFeatures).Observe(float64(n))
	numFeatures := len(req.FeatureIDs)

	type fragment struct {
		dims    []int64
		values  []byte
		skipped int
	}

	frags, err := runFanout(ctx, c.exec, n, func(_ int, start, end int) fragment {
		var f fragment
		for i := start; i < end; i++ {
			rowDims := make([]int64, numFeatures)
			src := req.NodeIDs[i]
			dst := req.NodeIDs[n+i]
			edgeType := req.Types[i]

			r, ok := c.findRun(src)
			if !ok {
				f.skipped++
				c.logger.Debug("get_edge_string_features: source node not found, skipping", zap.Uint64("src", uint64(src)))
				f.dims = append(f.dims, rowDims...)
				continue
			}
			foundAny := false
			for k := uint32(0); k < r.count && !foundAny; k++ {
				p, local := c.pair(r, k)
				found, err := c.partitions[p].GetEdgeStringFeature(local, dst, edgeType, req.FeatureIDs, rowDims, &f.values)
				if err != nil {
					c.logger.Debug("get_edge_string_features: partition read failed, skipping copy",
						zap.Error(graphserrors.WrapPartitionError(err, "GetEdgeStringFeature", "string edge feature read failed").
							WithContext("src", uint64(src)).WithContext("dst", uint64(dst))))
					continue
				}
				foundAny = found
			}
			f.dims = append(f.dims, rowDims...)
			if !foundAny {
				f.skipped++
				c.logger.Debug("get_edge_string_features: edge not found, skipping", zap.Uint64("src", uint64(src)), zap.Uint64("dst", uint64(dst)))
			}
		}
		return f
	})
	recordOutcome(methodGetEdgeStringFeatures, err)
	if err != nil {
		return nil, err
	}

	resp := &GetEdgeStringFeaturesResponse{}
	var skipped int
	for _, f := range frags {
		resp.Dimensions = append(resp.Dimensions, f.dims...)
		resp.Values = append(resp.Values, f.values...)
		skipped += f.skipped
	}
	if skipped > 0 {
		metrics.NodesSkippedTotal.WithLabelValues(methodGetEdgeStringFeatures).Add(float64(skipped))
	}
	return resp, nil
}
