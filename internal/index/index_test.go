package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/graphserving/internal/graph"
)

func TestBuilder_SingleCopy(t *testing.T) {
	b := NewBuilder()
	b.Insert(100, 0, 5)

	idx := b.Build()
	off, count, ok := idx.Find(100)
	require.True(t, ok)
	require.EqualValues(t, 1, count)

	p, local := idx.At(off, 0)
	assert.EqualValues(t, 0, p)
	assert.EqualValues(t, 5, local)
}

func TestBuilder_ReplicatedNode(t *testing.T) {
	b := NewBuilder()
	b.Insert(100, 0, 5)
	b.Insert(100, 1, 9)
	b.Insert(100, 2, 1)

	idx := b.Build()
	off, count, ok := idx.Find(100)
	require.True(t, ok)
	require.EqualValues(t, 3, count)

	wantP := []graph.PartitionIndex{0, 1, 2}
	wantL := []graph.LocalIndex{5, 9, 1}
	for k := uint32(0); k < count; k++ {
		p, l := idx.At(off, k)
		assert.Equal(t, wantP[k], p)
		assert.Equal(t, wantL[k], l)
	}
}

func TestIndex_UnknownNode(t *testing.T) {
	b := NewBuilder()
	b.Insert(1, 0, 0)
	idx := b.Build()

	_, _, ok := idx.Find(999)
	assert.False(t, ok)
}

func TestIndex_MultipleDistinctNodes(t *testing.T) {
	b := NewBuilder()
	b.Insert(1, 0, 0)
	b.Insert(2, 0, 1)
	b.Insert(1, 1, 0)

	idx := b.Build()
	assert.Equal(t, 2, idx.NumNodes())

	_, count1, ok := idx.Find(1)
	require.True(t, ok)
	assert.EqualValues(t, 2, count1)

	_, count2, ok := idx.Find(2)
	require.True(t, ok)
	assert.EqualValues(t, 1, count2)
}

func TestBuilder_NumSlotsIncludesDeadSpace(t *testing.T) {
	b := NewBuilder()
	b.Insert(1, 0, 0) // 1 slot
	b.Insert(1, 1, 0) // copies the 1 old slot + appends 1 new = 2 slots, old slot now dead
	idx := b.Build()

	// slot 0 (dead), slots 1-2 (live run of length 2)
	assert.Equal(t, 3, idx.NumSlots())
	assert.Equal(t, 1, idx.NumNodes())
}
