package composer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	graphserrors "github.com/23skdu/graphserving/internal/errors"
	"github.com/23skdu/graphserving/internal/metrics"
)

const methodGetNodeSparseFeatures = "get_node_sparse_features"
const methodGetEdgeSparseFeatures = "get_edge_sparse_features"

// GetNodeSparseFeatures gathers a sparse row per requested feature for
// every found node from the first partition copy, in run order, that
// reports the features (later copies are not consulted), then
// concatenates per-feature indices/values feature-major across the whole
// batch.
func (c *Composer) GetNodeSparseFeatures(ctx context.Context, req *GetNodeSparseFeaturesRequest) (*GetNodeSparseFeaturesResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetNodeSparseFeatures))
	defer timer.ObserveDuration()
	metrics.RequestBatchSize.WithLabelValues(methodGetNodeSparseFeatures).Observe(float64(len(req.NodeIDs)))

	numFeatures := len(req.FeatureIDs)

	type fragment struct {
		dims    []int64 // per feature, this worker's view; merged by first-nonzero
		indices [][]int64
		values  [][]byte
		skipped int
	}

	frags, err := runFanout(ctx, c.exec, len(req.NodeIDs), func(_ int, start, end int) fragment {
		f := fragment{
			dims:    make([]int64, numFeatures),
			indices: make([][]int64, numFeatures),
			values:  make([][]byte, numFeatures),
		}
		for i := start; i < end; i++ {
			r, ok := c.findRun(req.NodeIDs[i])
			if !ok {
				f.skipped++
				c.logger.Debug("get_node_sparse_features: node not found, skipping", zap.Uint64("node_id", uint64(req.NodeIDs[i])))
				continue
			}
			foundAny := false
			for k := uint32(0); k < r.count && !foundAny; k++ {
				p, local := c.pair(r, k)
				found, err := c.partitions[p].GetNodeSparseFeature(local, req.FeatureIDs, int64(i), f.dims, f.indices, f.values)
				if err != nil {
					c.logger.Debug("get_node_sparse_features: partition read failed, skipping copy",
						zap.Error(graphserrors.WrapPartitionError(err, "GetNodeSparseFeature", "sparse feature read failed").
							WithContext("node_id", uint64(req.NodeIDs[i]))))
					continue
				}
				foundAny = found
			}
			if !foundAny {
				f.skipped++
				c.logger.Debug("get_node_sparse_features: no partition copy has features, skipping", zap.Uint64("node_id", uint64(req.NodeIDs[i])))
			}
		}
		return f
	})
	recordOutcome(methodGetNodeSparseFeatures, err)
	if err != nil {
		return nil, err
	}

	resp := &GetNodeSparseFeaturesResponse{
		Dimensions:    make([]int64, numFeatures),
		IndicesCounts: make([]int64, numFeatures),
		ValuesCounts:  make([]int64, numFeatures),
	}
	var skipped int
	for _, f := range frags {
		skipped += f.skipped
		for i := 0; i < numFeatures; i++ {
			if resp.Dimensions[i] == 0 {
				resp.Dimensions[i] = f.dims[i]
			}
			resp.Indices = append(resp.Indices, f.indices[i]...)
			resp.Values = append(resp.Values, f.values[i]...)
			resp.IndicesCounts[i] += int64(len(f.indices[i]))
			resp.ValuesCounts[i] += int64(len(f.values[i]))
		}
	}
	if skipped > 0 {
		metrics.NodesSkippedTotal.WithLabelValues(methodGetNodeSparseFeatures).Add(float64(skipped))
	}
	return resp, nil
}

// GetEdgeSparseFeatures is the edge-keyed analogue of
// GetNodeSparseFeatures. The counts arrays nest worker-major then
// feature-minor, so each worker's per-feature counts are appended as a
// contiguous block rather than summed across workers.
func (c *Composer) GetEdgeSparseFeatures(ctx context.Context, req *GetEdgeSparseFeaturesRequest) (*GetEdgeSparseFeaturesResponse, error) {
	timer := prometheus.NewTimer(metrics.RequestLatencySeconds.WithLabelValues(methodGetEdgeSparseFeatures))
	defer timer.ObserveDuration()

	n := len(req.Types)
	metrics.RequestBatchSize.WithLabelValues(methodGetEdgeSparseFeatures).Observe(float64(n))
	numFeatures := len(req.FeatureIDs)

	type fragment struct {
		dims          []int64
		indices       []int64
		values        []byte
		indicesCounts []int64
		valuesCounts  []int64
		skipped       int
	}

	frags, err := runFanout(ctx, c.exec, n, func(_ int, start, end int) fragment {
		f := fragment{
			dims:          make([]int64, numFeatures),
			indicesCounts: make([]int64, numFeatures),
			valuesCounts:  make([]int64, numFeatures),
		}
		for i := start; i < end; i++ {
			src := req.NodeIDs[i]
			dst := req.NodeIDs[n+i]
			edgeType := req.Types[i]

			r, ok := c.findRun(src)
			if !ok {
				f.skipped++
				c.logger.Debug("get_edge_sparse_features: source node not found, skipping", zap.Uint64("src", uint64(src)))
				continue
			}
			rowIndices := make([][]int64, numFeatures)
			rowValues := make([][]byte, numFeatures)
			foundAny := false
			for k := uint32(0); k < r.count && !foundAny; k++ {
				p, local := c.pair(r, k)
				found, err := c.partitions[p].GetEdgeSparseFeature(local, dst, edgeType, req.FeatureIDs, int64(i), f.dims, rowIndices, rowValues)
				if err != nil {
					c.logger.Debug("get_edge_sparse_features: partition read failed, skipping copy",
						zap.Error(graphserrors.WrapPartitionError(err, "GetEdgeSparseFeature", "sparse edge feature read failed").
							WithContext("src", uint64(src)).WithContext("dst", uint64(dst))))
					continue
				}
				foundAny = found
			}
			if !foundAny {
				f.skipped++
				c.logger.Debug("get_edge_sparse_features: edge not found, skipping", zap.Uint64("src", uint64(src)), zap.Uint64("dst", uint64(dst)))
				continue
			}
			for fi := 0; fi < numFeatures; fi++ {
				f.indices = append(f.indices, rowIndices[fi]...)
				f.values = append(f.values, rowValues[fi]...)
				f.indicesCounts[fi] += int64(len(rowIndices[fi]))
				f.valuesCounts[fi] += int64(len(rowValues[fi]))
			}
		}
		return f
	})
	recordOutcome(methodGetEdgeSparseFeatures, err)
	if err != nil {
		return nil, err
	}

	resp := &GetEdgeSparseFeaturesResponse{Dimensions: make([]int64, numFeatures)}
	var skipped int
	for _, f := range frags {
		skipped += f.skipped
		for i := 0; i < numFeatures; i++ {
			if resp.Dimensions[i] == 0 {
				resp.Dimensions[i] = f.dims[i]
			}
		}
		resp.Indices = append(resp.Indices, f.indices...)
		resp.Values = append(resp.Values, f.values...)
		resp.IndicesCounts = append(resp.IndicesCounts, f.indicesCounts...)
		resp.ValuesCounts = append(resp.ValuesCounts, f.valuesCounts...)
	}
	if skipped > 0 {
		metrics.NodesSkippedTotal.WithLabelValues(methodGetEdgeSparseFeatures).Add(float64(skipped))
	}
	return resp, nil
}
