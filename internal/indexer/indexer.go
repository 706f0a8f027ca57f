package indexer

import (
	"iter"
	"unsafe"

	"github.com/born-ml/ndindex/internal/tensor"
)

// MaxNdim is the largest rank an indexer supports.
const MaxNdim = tensor.MaxNdim

// Shaper is the read-only part shared by every indexer mode.
// Shape returns a view into the indexer, so the interface is satisfied by
// *Indexer[C], *Indexer1 and *DynamicIndexer, not by the values.
type Shaper interface {
	Ndim() int8
	TotalSize() int64
	Shape() []int64
	String() string
}

// Iterable is an indexer producing iterators of type I.
// Like Shaper, it is implemented by indexer pointers.
type Iterable[I any] interface {
	Shaper
	It(start, step int64) I
	Combine(parts ...[]int64) I
}

var (
	_ Iterable[Iterator[[3]int64]] = (*Indexer[[3]int64])(nil)
	_ Iterable[Iterator1]          = (*Indexer1)(nil)
	_ Iterable[DynamicIterator]    = (*DynamicIndexer)(nil)
)

// Indexer binds a fixed-rank shape to its element count.
// The rank is the length of C.
type Indexer[C Coords] struct {
	totalSize int64
	shape     C
}

// New returns an indexer over shape. len(shape) must equal len(C).
func New[C Coords](shape tensor.Shape) Indexer[C] {
	var ix Indexer[C]
	if debug {
		assertf(len(shape) == len(ix.shape), "shape %v has rank %d, indexer expects %d", shape, len(shape), len(ix.shape))
	}
	ix.totalSize = shape.NumElements()
	for i := 0; i < len(ix.shape); i++ {
		ix.shape[i] = shape[i]
	}
	return ix
}

// It returns an iterator starting at start and advancing by step.
func (ix Indexer[C]) It(start, step int64) Iterator[C] {
	return NewIterator(ix.shape, ix.totalSize, start, step)
}

// Begin returns an iterator over every element in order.
func (ix Indexer[C]) Begin() Iterator[C] { return ix.It(0, 1) }

// Combine returns an iterator whose coordinates are parts concatenated in
// order, typically the Index() of narrower iterators. The lengths of parts
// must add up to Ndim().
//
// Only the coordinates are spliced: the linear index of the result stays 0.
func (ix Indexer[C]) Combine(parts ...[]int64) Iterator[C] {
	it := ix.It(0, 1)
	combine(it.Index(), parts)
	return it
}

// Ndim returns the rank.
func (ix Indexer[C]) Ndim() int8 { return int8(len(ix.shape)) }

// TotalSize returns the number of elements.
func (ix Indexer[C]) TotalSize() int64 { return ix.totalSize }

// Shape returns the extents. The slice aliases the indexer.
func (ix *Indexer[C]) Shape() []int64 { return view(&ix.shape) }

// Dynamic returns a runtime-rank indexer over the same shape.
func (ix Indexer[C]) Dynamic() DynamicIndexer { return NewDynamic(view(&ix.shape)) }

// All yields every linear index with its coordinates.
// The coordinate slice is reused between iterations.
func (ix Indexer[C]) All() iter.Seq2[int64, []int64] {
	return func(yield func(int64, []int64) bool) {
		for it := ix.It(0, 1); it.Valid(); it.Next() {
			if !yield(it.Raw(), it.Index()) {
				return
			}
		}
	}
}

func (ix Indexer[C]) String() string { return render(view(&ix.shape)) }

// Indexer1 is the one-dimensional indexer. It stores the extent only.
type Indexer1 struct {
	totalSize int64
}

// New1 returns an indexer over a rank-1 shape.
func New1(shape tensor.Shape) Indexer1 {
	if debug {
		assertf(len(shape) == 1, "shape %v has rank %d, indexer expects 1", shape, len(shape))
	}
	return Indexer1{totalSize: shape[0]}
}

// It returns an iterator starting at start and advancing by step.
func (ix Indexer1) It(start, step int64) Iterator1 { return NewIterator1(ix.totalSize, start, step) }

// Begin returns an iterator over every element in order.
func (ix Indexer1) Begin() Iterator1 { return ix.It(0, 1) }

// Combine returns an iterator positioned at the single coordinate held by parts.
// With one dimension the coordinate is the linear index, so the result is
// a fully usable iterator.
func (ix Indexer1) Combine(parts ...[]int64) Iterator1 {
	it := ix.It(0, 1)
	combine(it.Index(), parts)
	it.start = it.raw
	return it
}

// Ndim always returns 1.
func (ix Indexer1) Ndim() int8 { return 1 }

// TotalSize returns the number of elements.
func (ix Indexer1) TotalSize() int64 { return ix.totalSize }

// Shape returns a one-element view of the extent.
func (ix *Indexer1) Shape() []int64 {
	//nolint:gosec // unsafe.Slice over a single int64 field.
	return unsafe.Slice(&ix.totalSize, 1)
}

// Dynamic returns a runtime-rank indexer over the same shape.
func (ix Indexer1) Dynamic() DynamicIndexer { return NewDynamic(tensor.Shape{ix.totalSize}) }

// All yields every linear index with its coordinates.
// The coordinate slice is reused between iterations.
func (ix Indexer1) All() iter.Seq2[int64, []int64] {
	return func(yield func(int64, []int64) bool) {
		for it := ix.It(0, 1); it.Valid(); it.Next() {
			if !yield(it.Raw(), it.Index()) {
				return
			}
		}
	}
}

func (ix Indexer1) String() string { return render([]int64{ix.totalSize}) }

// DynamicIndexer binds a shape whose rank is only known at runtime.
// Storage is inline and bounded by MaxNdim.
type DynamicIndexer struct {
	ndim      int8
	totalSize int64
	shape     [MaxNdim]int64
}

// NewDynamic returns an indexer over shape. len(shape) must not exceed MaxNdim.
func NewDynamic(shape tensor.Shape) DynamicIndexer {
	if debug {
		assertf(len(shape) <= MaxNdim, "rank %d exceeds the maximum of %d", len(shape), MaxNdim)
	}
	ix := DynamicIndexer{ndim: shape.Ndim(), totalSize: shape.NumElements()}
	copy(ix.shape[:], shape)
	return ix
}

// It returns an iterator starting at start and advancing by step.
func (ix DynamicIndexer) It(start, step int64) DynamicIterator {
	return NewDynamicIterator(ix.shape[:ix.ndim], ix.totalSize, start, step)
}

// Begin returns an iterator over every element in order.
func (ix DynamicIndexer) Begin() DynamicIterator { return ix.It(0, 1) }

// Combine returns an iterator whose coordinates are parts concatenated in
// order, typically the Index() of narrower iterators. The lengths of parts
// must add up to Ndim().
//
// Only the coordinates are spliced: the linear index of the result stays 0.
func (ix DynamicIndexer) Combine(parts ...[]int64) DynamicIterator {
	it := ix.It(0, 1)
	combine(it.Index(), parts)
	return it
}

// Ndim returns the rank.
func (ix DynamicIndexer) Ndim() int8 { return ix.ndim }

// TotalSize returns the number of elements.
func (ix DynamicIndexer) TotalSize() int64 { return ix.totalSize }

// Shape returns the extents. The slice aliases the indexer.
func (ix *DynamicIndexer) Shape() []int64 { return ix.shape[:ix.ndim] }

// All yields every linear index with its coordinates.
// The coordinate slice is reused between iterations.
func (ix DynamicIndexer) All() iter.Seq2[int64, []int64] {
	return func(yield func(int64, []int64) bool) {
		for it := ix.It(0, 1); it.Valid(); it.Next() {
			if !yield(it.Raw(), it.Index()) {
				return
			}
		}
	}
}

func (ix DynamicIndexer) String() string { return render(ix.shape[:ix.ndim]) }

func render(shape []int64) string {
	return "Indexer(shape=" + tensor.Shape(shape).String() + ")"
}

// combine splices the coordinates of parts into dst, in order.
func combine(dst []int64, parts [][]int64) {
	processed := 0
	for _, src := range parts {
		if debug {
			assertf(processed+len(src) <= len(dst),
				"sub-iterators cover more than %d dimensions", len(dst))
		}
		copy(dst[processed:], src)
		processed += len(src)
	}
	if debug {
		assertf(processed == len(dst), "sub-iterators cover %d dimensions, want %d", processed, len(dst))
		for i, v := range dst {
			assertf(v >= 0, "negative coordinate %d at axis %d", v, i)
		}
	}
}
