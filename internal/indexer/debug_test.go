//go:build indexdebug

package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/ndindex/internal/tensor"
)

func TestDebugRankMismatch(t *testing.T) {
	assert.PanicsWithValue(t, "indexer: shape (2, 3, 4) has rank 3, indexer expects 2", func() {
		New[[2]int64](tensor.Shape{2, 3, 4})
	})
	assert.Panics(t, func() { New1(tensor.Shape{2, 3}) })
	assert.Panics(t, func() { NewDynamic(make(tensor.Shape, MaxNdim+1)) })
}

func TestDebugCombineCoverage(t *testing.T) {
	full := NewDynamic(tensor.Shape{2, 3, 4})
	a := New1(tensor.Shape{2}).Begin()
	b := New[[2]int64](tensor.Shape{3, 4}).Begin()

	assert.NotPanics(t, func() { full.Combine(a.Index(), b.Index()) })
	assert.PanicsWithValue(t, "indexer: sub-iterators cover 1 dimensions, want 3", func() {
		full.Combine(a.Index())
	})
	assert.Panics(t, func() { full.Combine(a.Index(), b.Index(), a.Index()) })
}

func TestDebugCombineNegative(t *testing.T) {
	full := New[[2]int64](tensor.Shape{2, 3})
	a := New1(tensor.Shape{2}).Begin()
	b := New1(tensor.Shape{3}).Begin()
	b.Index()[0] = -1

	assert.PanicsWithValue(t, "indexer: negative coordinate -1 at axis 1", func() {
		full.Combine(a.Index(), b.Index())
	})
}

func TestDebugZeroStep(t *testing.T) {
	assert.Panics(t, func() { Span(10, 0, 0) })
}
