// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package indexer

import (
	internal "github.com/born-ml/ndindex/internal/indexer"
	"github.com/born-ml/ndindex/internal/tensor"
)

// MaxNdim is the largest supported rank.
const MaxNdim = internal.MaxNdim

// Shape is the per-axis extents of an array.
type Shape = tensor.Shape

// Coords is the set of inline coordinate arrays for fixed-rank indexers.
type Coords = internal.Coords

// Cursor is the capability set shared by all iterators.
type Cursor = internal.Cursor

// Shaper is the read-only part shared by all indexers.
// It is implemented by indexer pointers.
type Shaper = internal.Shaper

// Iterable is an indexer producing iterators of type I.
type Iterable[I any] = internal.Iterable[I]

// Indexer is a fixed-rank indexer. The rank is the length of C.
type Indexer[C Coords] = internal.Indexer[C]

// Iterator walks a fixed-rank index space.
type Iterator[C Coords] = internal.Iterator[C]

// Indexer1 is the one-dimensional indexer.
type Indexer1 = internal.Indexer1

// Iterator1 walks a one-dimensional index space.
type Iterator1 = internal.Iterator1

// DynamicIndexer is an indexer whose rank is chosen at runtime.
type DynamicIndexer = internal.DynamicIndexer

// DynamicIterator walks a runtime-rank index space.
type DynamicIterator = internal.DynamicIterator

// New creates a fixed-rank indexer. len(shape) must equal len(C).
//
// Example:
//
//	ix := indexer.New[[3]int64](indexer.Shape{2, 3, 4})
func New[C Coords](shape Shape) Indexer[C] {
	return internal.New[C](shape)
}

// New1 creates an indexer over a rank-1 shape.
func New1(shape Shape) Indexer1 {
	return internal.New1(shape)
}

// NewDynamic creates an indexer over a shape of any rank up to MaxNdim.
func NewDynamic(shape Shape) DynamicIndexer {
	return internal.NewDynamic(shape)
}

// Span returns how many positions a traversal from start by step visits
// in a space of totalSize elements.
func Span(totalSize, start, step int64) int64 {
	return internal.Span(totalSize, start, step)
}

// WGSL returns the compute-shader mirror of the decomposition for rank ndim.
func WGSL(ndim int8) (string, error) {
	return internal.WGSL(ndim)
}
