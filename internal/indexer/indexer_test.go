package indexer

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndindex/internal/tensor"
)

func TestIndexerAccessors(t *testing.T) {
	shape := tensor.Shape{2, 3, 4}

	fixed := New[[3]int64](shape)
	assert.Equal(t, int8(3), fixed.Ndim())
	assert.Equal(t, int64(24), fixed.TotalSize())
	assert.Equal(t, []int64{2, 3, 4}, fixed.Shape())

	dyn := NewDynamic(shape)
	assert.Equal(t, int8(3), dyn.Ndim())
	assert.Equal(t, int64(24), dyn.TotalSize())
	assert.Equal(t, []int64{2, 3, 4}, dyn.Shape())

	one := New1(tensor.Shape{9})
	assert.Equal(t, int8(1), one.Ndim())
	assert.Equal(t, int64(9), one.TotalSize())
	assert.Equal(t, []int64{9}, one.Shape())
}

func TestIndexerCopiesShape(t *testing.T) {
	shape := tensor.Shape{2, 3}
	fixed := New[[2]int64](shape)
	dyn := NewDynamic(shape)
	shape[0] = 50

	assert.Equal(t, []int64{2, 3}, fixed.Shape())
	assert.Equal(t, []int64{2, 3}, dyn.Shape())
	assert.Equal(t, int64(6), dyn.TotalSize())
}

func TestIndexerString(t *testing.T) {
	fixed := New[[2]int64](tensor.Shape{2, 3})
	one := New1(tensor.Shape{5})
	dyn := NewDynamic(tensor.Shape{})

	assert.Equal(t, "Indexer(shape=(2, 3))", fixed.String())
	assert.Equal(t, "Indexer(shape=(5,))", one.String())
	assert.Equal(t, "Indexer(shape=())", dyn.String())
}

func TestIndexerDynamicConversion(t *testing.T) {
	fixed := New[[4]int64](tensor.Shape{2, 1, 3, 2})
	dyn := fixed.Dynamic()
	assert.Equal(t, fixed.Ndim(), dyn.Ndim())
	assert.Equal(t, fixed.TotalSize(), dyn.TotalSize())

	for raw := int64(0); raw < fixed.TotalSize(); raw++ {
		a, b := fixed.It(raw, 1), dyn.It(raw, 1)
		require.Equal(t, a.Index(), b.Index(), "raw %d", raw)
	}

	one := New1(tensor.Shape{4}).Dynamic()
	assert.Equal(t, []int64{4}, one.Shape())
}

func TestIndexerAll(t *testing.T) {
	ix := New[[2]int64](tensor.Shape{2, 2})
	var got [][]int64
	var raws []int64
	for raw, index := range ix.All() {
		raws = append(raws, raw)
		got = append(got, append([]int64(nil), index...))
	}
	assert.Equal(t, []int64{0, 1, 2, 3}, raws)
	assert.Equal(t, [][]int64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, got)

	count := 0
	for range NewDynamic(tensor.Shape{3, 3}).All() {
		count++
		if count == 4 {
			break
		}
	}
	assert.Equal(t, 4, count)

	var ones []int64
	for raw, index := range New1(tensor.Shape{3}).All() {
		assert.Equal(t, raw, index[0])
		ones = append(ones, raw)
	}
	assert.Equal(t, []int64{0, 1, 2}, ones)
}

func TestIndexerPolymorphism(t *testing.T) {
	shape := tensor.Shape{3, 4}
	fixed := New[[2]int64](shape)
	dyn := NewDynamic(shape)
	one := New1(tensor.Shape{12})

	for _, s := range []Shaper{&fixed, &dyn, &one} {
		assert.Equal(t, int64(12), s.TotalSize(), s.String())
		assert.Len(t, s.Shape(), int(s.Ndim()), s.String())
	}

	assert.Equal(t, int64(12), countAll[Iterator[[2]int64]](&fixed))
	assert.Equal(t, int64(12), countAll[DynamicIterator](&dyn))
	assert.Equal(t, int64(12), countAll[Iterator1](&one))
}

// countAll walks any indexer from start to end.
func countAll[I any, P interface {
	*I
	Cursor
}](ix Iterable[I]) int64 {
	it := ix.It(0, 1)
	var n int64
	for c := P(&it); c.Valid(); c.Next() {
		n++
	}
	return n
}

// walkPartition returns the sorted linear indices visited by workers
// sharing the space with stride workers.
func walkPartition(t *testing.T, ix DynamicIndexer, workers int64) []int64 {
	t.Helper()
	var seen []int64
	for w := int64(0); w < workers; w++ {
		visits := int64(0)
		for it := ix.It(w, workers); it.Valid(); it.Next() {
			seen = append(seen, it.Raw())
			visits++
		}
		assert.Equal(t, Span(ix.TotalSize(), w, workers), visits, "worker %d", w)
	}
	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	return seen
}

func TestStridedPartition(t *testing.T) {
	shapes := []tensor.Shape{{7}, {2, 3}, {3, 4, 5}, {1, 1}, {2, 0}}
	for _, shape := range shapes {
		ix := NewDynamic(shape)
		var want []int64
		for i := int64(0); i < ix.TotalSize(); i++ {
			want = append(want, i)
		}
		for _, workers := range []int64{1, 2, 3, 4, 8, 64} {
			assert.Equal(t, want, walkPartition(t, ix, workers), "shape %v workers %d", shape, workers)
		}
	}
}

func TestStridedPartitionCoordinates(t *testing.T) {
	shape := tensor.Shape{3, 5}
	ix := New[[2]int64](shape)
	const workers = 4
	for w := int64(0); w < workers; w++ {
		for it := ix.It(w, workers); it.Valid(); it.Next() {
			require.Equal(t, it.Raw(), reconstruct(it.Index(), shape))
		}
	}
}
