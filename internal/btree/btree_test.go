package btree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIsEmptyLeaf(t *testing.T) {
	tree := New()
	require.Empty(t, tree.InOrder())
}

func TestInsertSingleKey(t *testing.T) {
	tree := New()
	tree.Insert(1, []byte{2})

	require.Equal(t, []KeyValue{{Key: 1, Value: []byte{2}}}, tree.InOrder())
}

// TestInsertKeysSortedE6 mirrors spec.md §8 scenario E6: after
// insert(10,[10]); insert(5,[5]); insert(8,[8]) the root leaf holds
// [(5,[5]),(8,[8]),(10,[10])].
func TestInsertKeysSortedE6(t *testing.T) {
	tree := New()
	tree.Insert(10, []byte{10})
	tree.Insert(5, []byte{5})
	tree.Insert(8, []byte{8})

	require.Equal(t, []KeyValue{
		{Key: 5, Value: []byte{5}},
		{Key: 8, Value: []byte{8}},
		{Key: 10, Value: []byte{10}},
	}, tree.InOrder())
}

func TestInsertReplacesExistingKey(t *testing.T) {
	tree := New()
	tree.Insert(1, []byte{1})
	tree.Insert(1, []byte{2})

	v, ok := tree.Lookup(1)
	require.True(t, ok)
	require.Equal(t, []byte{2}, v)
	require.Len(t, tree.InOrder(), 1)
}

func TestSplitOnOverflow(t *testing.T) {
	tree := New()
	for _, k := range []uint32{1, 2, 3, 4, 5} {
		tree.Insert(k, []byte{byte(k)})
	}

	require.False(t, tree.root.leaf, "root should have split into an interior node")

	for _, k := range []uint32{1, 2, 3, 4, 5} {
		v, ok := tree.Lookup(k)
		require.True(t, ok, "key %d should be findable after split", k)
		require.Equal(t, []byte{byte(k)}, v)
	}

	require.Equal(t, []uint32{1, 2, 3, 4, 5}, keysOf(tree.InOrder()))
}

func TestLookupMissingKey(t *testing.T) {
	tree := New()
	tree.Insert(1, []byte{1})

	_, ok := tree.Lookup(99)
	require.False(t, ok)
}

func TestOrderingPropertyRandomInsertOrder(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	keys := r.Perm(200)

	tree := New()
	for _, k := range keys {
		tree.Insert(uint32(k), []byte{byte(k)})
	}

	got := keysOf(tree.InOrder())
	want := append([]uint32(nil), got...)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	require.Equal(t, want, got, "in-order traversal must yield ascending keys")
	require.Len(t, got, 200)

	for _, k := range keys {
		v, ok := tree.Lookup(uint32(k))
		require.True(t, ok)
		require.Equal(t, []byte{byte(k)}, v)
	}
}

func TestLookupReturnsLastInsertedValueForDuplicateKey(t *testing.T) {
	tree := New()
	for i := 0; i < 50; i++ {
		tree.Insert(uint32(i), []byte{byte(i)})
	}
	tree.Insert(25, []byte{99})

	v, ok := tree.Lookup(25)
	require.True(t, ok)
	require.Equal(t, []byte{99}, v)
}

func TestRangeScanAscendingInBounds(t *testing.T) {
	tree := New()
	for i := 0; i < 30; i++ {
		tree.Insert(uint32(i), []byte{byte(i)})
	}

	got := keysOf(tree.RangeScan(10, 20))
	require.Equal(t, []uint32{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, got)
}

func keysOf(kvs []KeyValue) []uint32 {
	out := make([]uint32, len(kvs))
	for i, kv := range kvs {
		out[i] = kv.Key
	}
	return out
}
