package indexer

import "unsafe"

// Coords is the set of inline coordinate arrays a fixed-rank iterator can use.
// The array length is the rank. Rank 1 is served by Iterator1 and Indexer1,
// runtime ranks by DynamicIterator and DynamicIndexer.
type Coords interface {
	[2]int64 | [3]int64 | [4]int64 | [5]int64 | [6]int64 |
		[7]int64 | [8]int64 | [9]int64 | [10]int64
}

// Cursor is the capability set shared by all iterator modes.
type Cursor interface {
	Ndim() int8
	Index() []int64
	Set(raw int64)
	Next()
	Restart()
	Valid() bool
	Raw() int64
	Step() int64
	TotalSize() int64
}

var (
	_ Cursor = (*Iterator[[2]int64])(nil)
	_ Cursor = (*Iterator1)(nil)
	_ Cursor = (*DynamicIterator)(nil)
)

// Iterator walks a fixed-rank row-major index space.
//
// The zero value is an exhausted iterator over an empty space.
type Iterator[C Coords] struct {
	shape     C
	totalSize int64
	start     int64
	raw       int64
	step      int64
	index     C
}

// NewIterator returns an iterator over shape positioned at start.
// totalSize must be the product of shape.
func NewIterator[C Coords](shape C, totalSize, start, step int64) Iterator[C] {
	it := Iterator[C]{shape: shape, totalSize: totalSize, start: start, step: step}
	it.Set(start)
	return it
}

// Set moves the iterator to raw and recomputes its coordinates.
// Coordinates are left untouched outside [0, TotalSize()).
func (it *Iterator[C]) Set(raw int64) {
	it.raw = raw
	if raw < 0 || raw >= it.totalSize {
		return
	}
	for j := len(it.index) - 1; j >= 0; j-- {
		it.index[j] = raw % it.shape[j]
		raw /= it.shape[j]
	}
}

// Next advances the iterator by its step.
func (it *Iterator[C]) Next() { it.Set(it.raw + it.step) }

// Restart moves the iterator back to the position it was created at.
func (it *Iterator[C]) Restart() { it.Set(it.start) }

// Valid reports whether the iterator points at an element.
func (it *Iterator[C]) Valid() bool { return it.raw >= 0 && it.raw < it.totalSize }

// Raw returns the linear index.
func (it *Iterator[C]) Raw() int64 { return it.raw }

// Step returns the distance covered by Next.
func (it *Iterator[C]) Step() int64 { return it.step }

// TotalSize returns the exclusive upper bound of the linear index.
func (it *Iterator[C]) TotalSize() int64 { return it.totalSize }

// Ndim returns the rank.
func (it *Iterator[C]) Ndim() int8 { return int8(len(it.index)) }

// Index returns the coordinates. The slice aliases the iterator.
func (it *Iterator[C]) Index() []int64 { return view(&it.index) }

// Coords returns a copy of the coordinates.
func (it *Iterator[C]) Coords() C { return it.index }

// view returns a slice over an inline coordinate array.
func view[C Coords](c *C) []int64 {
	//nolint:gosec // unsafe.Slice over a fixed-size array of len(*c) elements.
	return unsafe.Slice(&(*c)[0], len(*c))
}

// Iterator1 walks a one-dimensional index space. The linear index is the
// only coordinate, so no coordinate array is kept.
type Iterator1 struct {
	totalSize int64
	start     int64
	raw       int64
	step      int64
}

// NewIterator1 returns a one-dimensional iterator positioned at start.
func NewIterator1(totalSize, start, step int64) Iterator1 {
	return Iterator1{totalSize: totalSize, start: start, raw: start, step: step}
}

// Set moves the iterator to raw.
func (it *Iterator1) Set(raw int64) { it.raw = raw }

// Next advances the iterator by its step.
func (it *Iterator1) Next() { it.raw += it.step }

// Restart moves the iterator back to the position it was created at.
func (it *Iterator1) Restart() { it.raw = it.start }

// Valid reports whether the iterator points at an element.
func (it *Iterator1) Valid() bool { return it.raw >= 0 && it.raw < it.totalSize }

// Raw returns the linear index.
func (it *Iterator1) Raw() int64 { return it.raw }

// Step returns the distance covered by Next.
func (it *Iterator1) Step() int64 { return it.step }

// TotalSize returns the exclusive upper bound of the linear index.
func (it *Iterator1) TotalSize() int64 { return it.totalSize }

// Ndim always returns 1.
func (it *Iterator1) Ndim() int8 { return 1 }

// Index returns a one-element view of the linear index.
// Writing through it moves the iterator.
func (it *Iterator1) Index() []int64 {
	//nolint:gosec // unsafe.Slice over a single int64 field.
	return unsafe.Slice(&it.raw, 1)
}

// DynamicIterator walks an index space whose rank is only known at runtime.
type DynamicIterator struct {
	ndim      int8
	totalSize int64
	start     int64
	raw       int64
	step      int64
	shape     [MaxNdim]int64
	index     [MaxNdim]int64
}

// NewDynamicIterator returns an iterator over shape positioned at start.
// shape is copied; it must not be longer than MaxNdim.
func NewDynamicIterator(shape []int64, totalSize, start, step int64) DynamicIterator {
	if debug {
		assertf(len(shape) <= MaxNdim, "rank %d exceeds the maximum of %d", len(shape), MaxNdim)
	}
	it := DynamicIterator{
		ndim:      int8(len(shape)), //nolint:gosec // G115: rank is bounded by MaxNdim.
		totalSize: totalSize,
		start:     start,
		step:      step,
	}
	copy(it.shape[:], shape)
	it.Set(start)
	return it
}

// Set moves the iterator to raw and recomputes its coordinates.
// Coordinates are left untouched outside [0, TotalSize()).
func (it *DynamicIterator) Set(raw int64) {
	it.raw = raw
	if raw < 0 || raw >= it.totalSize {
		return
	}
	for j := it.ndim - 1; j >= 0; j-- {
		it.index[j] = raw % it.shape[j]
		raw /= it.shape[j]
	}
}

// Next advances the iterator by its step.
func (it *DynamicIterator) Next() { it.Set(it.raw + it.step) }

// Restart moves the iterator back to the position it was created at.
func (it *DynamicIterator) Restart() { it.Set(it.start) }

// Valid reports whether the iterator points at an element.
func (it *DynamicIterator) Valid() bool { return it.raw >= 0 && it.raw < it.totalSize }

// Raw returns the linear index.
func (it *DynamicIterator) Raw() int64 { return it.raw }

// Step returns the distance covered by Next.
func (it *DynamicIterator) Step() int64 { return it.step }

// TotalSize returns the exclusive upper bound of the linear index.
func (it *DynamicIterator) TotalSize() int64 { return it.totalSize }

// Ndim returns the rank.
func (it *DynamicIterator) Ndim() int8 { return it.ndim }

// Index returns the coordinates. The slice aliases the iterator.
func (it *DynamicIterator) Index() []int64 { return it.index[:it.ndim] }

// Span returns how many positions a traversal from start by step visits
// before leaving [0, totalSize).
func Span(totalSize, start, step int64) int64 {
	if debug {
		assertf(step != 0, "step must not be zero")
	}
	if start < 0 || start >= totalSize {
		return 0
	}
	if step > 0 {
		return (totalSize-start-1)/step + 1
	}
	return start/(-step) + 1
}
