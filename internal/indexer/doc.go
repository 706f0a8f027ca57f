// Package indexer enumerates the elements of an N-dimensional row-major array.
//
// An indexer binds a shape to its element count and hands out iterators.
// An iterator carries a linear index, a step and the coordinates of the
// linear index along every axis. Three modes share one contract:
//
//   - Indexer[C] / Iterator[C]: rank fixed at compile time by the length of C.
//   - Indexer1 / Iterator1: rank 1, where the linear index is the coordinate.
//   - DynamicIndexer / DynamicIterator: rank chosen at runtime, up to MaxNdim.
//
// Nothing here allocates. Contract violations (rank mismatches, sub-iterators
// not covering the target rank, negative coordinates after Combine) are only
// checked when built with the indexdebug tag; otherwise they are undefined.
//
// A kernel walking a range of axes independently from the rest combines the
// partial iterators:
//
//	rows := indexer.New1(tensor.Shape{2})
//	cols := indexer.New1(tensor.Shape{3})
//	full := indexer.New[[2]int64](tensor.Shape{2, 3})
//	r, c := rows.It(1, 1), cols.It(2, 1)
//	it := full.Combine(r.Index(), c.Index()) // it.Index() == [1 2]
//
// Parallel workers split the linear space with distinct starts and a shared step:
// worker w of n uses It(w, n).
package indexer
