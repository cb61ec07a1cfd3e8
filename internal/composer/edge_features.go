package composer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	graphserrors "github.com/23skdu/graphserving/internal/errors"
	"github.com/23skdu/graphserving/internal/graph"
	"github.com/23skdu/graphserving/internal/metrics"
)

const methodGetEdgeFeatures = "get_edge_features"

// GetEdgeFeatures fetches dense feature rows for edges. NodeIDs is
// [src..., dst...] of length 2*len(Types); the source's run is walked
// looking for a partition copy that holds the (dst, edgeType) edge.
func (c *Composer) GetEdgeFeatures(ctx context.Context, req *GetEdgeFeaturesRequest) (*GetEdgeFeaturesResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetEdgeFeatures))
	defer timer.ObserveDuration()

	n := len(req.Types)
	metrics.RequestBatchSize.WithLabelValues(methodGetEdgeFeatures).Observe(float64(n))
	rowSize := graph.TotalSize(req.Features)

	type fragment struct {
		offsets []int32
		values  []byte
		skipped int
	}

	frags, err := runFanout(ctx, c.exec, n, func(_ int, start, end int) fragment {
		var f fragment
		for i := start; i < end; i++ {
			src := req.NodeIDs[i]
			dst := req.NodeIDs[n+i]
			edgeType := req.Types[i]

			r, ok := c.findRun(src)
			if !ok {
				f.skipped++
				c.logger.Debug("get_edge_features: source node not found, skipping", zap.Uint64("src", uint64(src)))
				continue
			}
			row := make([]byte, rowSize)
			found := false
			for k := uint32(0); k < r.count && !found; k++ {
				p, local := c.pair(r, k)
				ok, err := c.partitions[p].GetEdgeFeature(local, dst, edgeType, req.Features, row)
				if err != nil {
					c.logger.Debug("get_edge_features: partition read failed, skipping copy",
						zap.Error(graphserrors.WrapPartitionError(err, "GetEdgeFeature", "dense edge feature read failed").
							WithContext("src", uint64(src)).WithContext("dst", uint64(dst))))
					continue
				}
				found = ok
			}
			if !found {
				f.skipped++
				c.logger.Debug("get_edge_features: edge not found, skipping", zap.Uint64("src", uint64(src)), zap.Uint64("dst", uint64(dst)))
				continue
			}
			f.offsets = append(f.offsets, int32(i))
			f.values = append(f.values, row...)
		}
		return f
	})
	recordOutcome(methodGetEdgeFeatures, err)
	if err != nil {
		return nil, err
	}

	resp := &GetEdgeFeaturesResponse{}
	var skipped int
	for _, f := range frags {
		resp.Offsets = append(resp.Offsets, f.offsets...)
		resp.FeatureValues = append(resp.FeatureValues, f.values...)
		skipped += f.skipped
	}
	if skipped > 0 {
		metrics.NodesSkippedTotal.WithLabelValues(methodGetEdgeFeatures).Add(float64(skipped))
	}
	return resp, nil
}
