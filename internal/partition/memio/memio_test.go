package memio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/graphserving/internal/graph"
)

func buildSimplePartition() *Partition {
	b := NewBuilder()
	n0 := b.AddNode(1)
	n1 := b.AddNode(2)

	b.SetDenseFeature(n0, 0, []byte{1, 2, 3, 4})
	b.SetDenseFeature(n0, 1, []byte{9, 9})

	b.AddEdge(n0, 100, 5, 1.0, map[graph.FeatureId][]byte{0: {7, 7}}, nil, nil)
	b.AddEdge(n0, 101, 5, 3.0, nil, nil, nil)
	b.AddEdge(n0, 102, 6, 1.0, nil, nil, map[graph.FeatureId][]byte{0: []byte("hi")})

	_ = n1
	return b.Build()
}

func TestGetNodeType(t *testing.T) {
	p := buildSimplePartition()
	assert.Equal(t, graph.Type(1), p.GetNodeType(0))
	assert.Equal(t, graph.Type(2), p.GetNodeType(1))
}

func TestHasNodeFeatures(t *testing.T) {
	p := buildSimplePartition()
	assert.True(t, p.HasNodeFeatures(0))
	assert.False(t, p.HasNodeFeatures(1))
}

func TestGetNodeFeature(t *testing.T) {
	p := buildSimplePartition()
	features := []graph.FeatureMeta{{ID: 0, Size: 4}, {ID: 1, Size: 2}}
	dest := make([]byte, graph.TotalSize(features))
	require.NoError(t, p.GetNodeFeature(0, features, dest))
	assert.Equal(t, []byte{1, 2, 3, 4, 9, 9}, dest)
}

func TestGetEdgeFeature_FoundAndNotFound(t *testing.T) {
	p := buildSimplePartition()
	features := []graph.FeatureMeta{{ID: 0, Size: 2}}
	dest := make([]byte, 2)

	found, err := p.GetEdgeFeature(0, 100, 5, features, dest)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{7, 7}, dest)

	found, err = p.GetEdgeFeature(0, 999, 5, features, dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNeighborCount_FiltersByType(t *testing.T) {
	p := buildSimplePartition()
	assert.EqualValues(t, 3, p.NeighborCount(0, nil))
	assert.EqualValues(t, 2, p.NeighborCount(0, []graph.Type{5}))
	assert.EqualValues(t, 1, p.NeighborCount(0, []graph.Type{6}))
	assert.EqualValues(t, 0, p.NeighborCount(1, nil))
}

func TestFullNeighbor(t *testing.T) {
	p := buildSimplePartition()
	var ids []graph.NodeId
	var types []graph.Type
	var weights []float32
	n := p.FullNeighbor(0, nil, &ids, &types, &weights)
	assert.EqualValues(t, 3, n)
	assert.Len(t, ids, 3)
	assert.Len(t, types, 3)
	assert.Len(t, weights, 3)
}

func TestGetNodeStringFeature(t *testing.T) {
	b := NewBuilder()
	n0 := b.AddNode(0)
	b.SetStringFeature(n0, 3, []byte("hello"))
	p := b.Build()

	dims := make([]int64, 1)
	var values []byte
	found, err := p.GetNodeStringFeature(0, []graph.FeatureId{3}, dims, &values)
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 5, dims[0])
	assert.Equal(t, "hello", string(values))
}

func TestSampleNeighbor_DefaultsWhenNoNeighbors(t *testing.T) {
	b := NewBuilder()
	n0 := b.AddNode(0)
	p := b.Build()

	outIDs := make([]graph.NodeId, 3)
	outTypes := make([]graph.Type, 3)
	outWeights := make([]float32, 3)
	var shardWeight float32
	p.SampleNeighbor(1, n0, nil, 3, outIDs, outTypes, outWeights, &shardWeight, 42, 0, 7)

	for i := range outIDs {
		assert.EqualValues(t, 42, outIDs[i])
		assert.EqualValues(t, 7, outTypes[i])
	}
}

func TestUniformSampleNeighbor_ProducesRequestedCount(t *testing.T) {
	p := buildSimplePartition()
	outIDs := make([]graph.NodeId, 2)
	outTypes := make([]graph.Type, 2)
	var shardCount uint64
	p.UniformSampleNeighbor(true, 1, 0, nil, 2, outIDs, outTypes, &shardCount, 0, 0)

	assert.EqualValues(t, 3, shardCount)
	for _, id := range outIDs {
		assert.Contains(t, []graph.NodeId{100, 101, 102}, id)
	}
}
