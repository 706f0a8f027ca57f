// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package indexer enumerates the elements of N-dimensional row-major arrays.
//
// # Overview
//
// An Indexer binds a shape to its element count and produces iterators.
// Each iterator carries a linear index, a step, and the coordinates of the
// linear index along every axis. Three modes share one contract:
//   - Indexer[C]: rank fixed at compile time by the array type C ([2]int64 … [10]int64)
//   - Indexer1: rank 1, where the coordinate is the linear index
//   - DynamicIndexer: rank chosen at runtime, up to MaxNdim
//
// None of them allocate; all are plain values that are copied freely.
//
// # Basic Usage
//
//	ix := indexer.New[[2]int64](indexer.Shape{2, 3})
//	for it := ix.Begin(); it.Valid(); it.Next() {
//	    fmt.Println(it.Raw(), it.Index())
//	}
//
// # Composition
//
// Kernels that walk groups of axes independently, such as reductions,
// combine partial iterators into one full-rank iterator:
//
//	full := ix.Combine(rowIt.Index(), colIt.Index())
//
// The coordinates are concatenated in argument order; the linear index of
// the result is not recomputed.
//
// # Parallel Iteration
//
// Worker w of n walks It(w, n). Together the workers visit every linear
// index exactly once.
//
// # Contract Checks
//
// Rank mismatches and incomplete compositions are only detected when built
// with -tags indexdebug. Without the tag they are undefined behavior.
package indexer
