// Package kernel holds CPU kernels built on the indexer: they address
// row-major float64 buffers through iterator coordinates.
package kernel

import (
	"fmt"
	"sort"

	"github.com/born-ml/ndindex/internal/indexer"
	"github.com/born-ml/ndindex/internal/parallel"
	"github.com/born-ml/ndindex/internal/tensor"
)

// Offset returns the flat buffer position of index under strides.
func Offset(index, strides []int64) int64 {
	var off int64
	for i, c := range index {
		off += c * strides[i]
	}
	return off
}

// BroadcastStrides computes strides for reading a buffer of shape in as if it
// had shape out. Dimensions of size 1 and missing leading dimensions get stride 0.
func BroadcastStrides(in, out tensor.Shape) []int64 {
	strides := make([]int64, len(out))
	offset := len(out) - len(in)
	orig := in.ComputeStrides()

	for i := range out {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			// Padded dimension, stride is 0
		case in[inIdx] == 1:
			// Broadcast dimension, stride is 0
		default:
			strides[i] = orig[inIdx]
		}
	}
	return strides
}

// Map writes f(src[i]) to dst[i]. Each worker takes a contiguous block.
func Map(dst, src []float64, f func(float64) float64, cfg parallel.Config) error {
	if len(dst) != len(src) {
		return fmt.Errorf("map: length mismatch: dst %d, src %d", len(dst), len(src))
	}
	parallel.Blocks(int64(len(src)), func(lo, hi int64) {
		// An indexer over [0, hi) started at lo walks exactly the block.
		for it := indexer.New1(tensor.Shape{hi}).It(lo, 1); it.Valid(); it.Next() {
			dst[it.Raw()] = f(src[it.Raw()])
		}
	}, cfg)
	return nil
}

// BroadcastTo expands data of shape from to shape to using NumPy rules.
func BroadcastTo(data []float64, from, to tensor.Shape, cfg parallel.Config) ([]float64, error) {
	if err := checkBuffer(data, from); err != nil {
		return nil, fmt.Errorf("broadcast: %w", err)
	}
	if err := to.Validate(); err != nil {
		return nil, fmt.Errorf("broadcast: %w", err)
	}
	got, _, err := tensor.BroadcastShapes(from, to)
	if err != nil {
		return nil, fmt.Errorf("broadcast: %w", err)
	}
	if !got.Equal(to) {
		return nil, fmt.Errorf("broadcast: cannot expand %v to %v", from, to)
	}

	strides := BroadcastStrides(from, to)
	ix := indexer.NewDynamic(to)
	out := make([]float64, ix.TotalSize())
	parallel.Strided(ix.TotalSize(), func(start, step int64) {
		for it := ix.It(start, step); it.Valid(); it.Next() {
			out[it.Raw()] = data[Offset(it.Index(), strides)]
		}
	}, cfg)
	return out, nil
}

// SumAxes sums data of the given shape over axes and drops them from the
// result shape. Negative axes count from the end.
//
// Output positions are split across workers. For each one the reduced axes are
// walked with their own iterator, and both partial iterators are combined into
// a full-rank iterator over the axes reordered as kept followed by reduced.
func SumAxes(data []float64, shape tensor.Shape, axes []int, cfg parallel.Config) ([]float64, tensor.Shape, error) {
	if err := checkBuffer(data, shape); err != nil {
		return nil, nil, fmt.Errorf("sumaxes: %w", err)
	}
	kept, reduced, err := splitAxes(len(shape), axes)
	if err != nil {
		return nil, nil, fmt.Errorf("sumaxes: %w", err)
	}

	perm := append(append([]int(nil), kept...), reduced...)
	strides := shape.ComputeStrides()
	permStrides := make([]int64, len(perm))
	for i, ax := range perm {
		permStrides[i] = strides[ax]
	}

	outShape := shape.Select(kept)
	outIx := indexer.NewDynamic(outShape)
	redIx := indexer.NewDynamic(shape.Select(reduced))
	fullIx := indexer.NewDynamic(shape.Select(perm))

	out := make([]float64, outIx.TotalSize())
	parallel.Strided(outIx.TotalSize(), func(start, step int64) {
		for o := outIx.It(start, step); o.Valid(); o.Next() {
			var sum float64
			for r := redIx.Begin(); r.Valid(); r.Next() {
				full := fullIx.Combine(o.Index(), r.Index())
				sum += data[Offset(full.Index(), permStrides)]
			}
			out[o.Raw()] = sum
		}
	}, cfg)
	return out, outShape, nil
}

func checkBuffer(data []float64, shape tensor.Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if n := shape.NumElements(); int64(len(data)) != n {
		return fmt.Errorf("buffer has %d elements, shape %v needs %d", len(data), shape, n)
	}
	return nil
}

// splitAxes normalizes axes and returns the remaining and reduced axes, both ascending.
func splitAxes(ndim int, axes []int) (kept, reduced []int, err error) {
	seen := make([]bool, ndim)
	for _, axis := range axes {
		ax := axis
		if ax < 0 {
			ax += ndim
		}
		if ax < 0 || ax >= ndim {
			return nil, nil, fmt.Errorf("axis %d out of range for %dD tensor", axis, ndim)
		}
		if seen[ax] {
			return nil, nil, fmt.Errorf("axis %d repeated", ax)
		}
		seen[ax] = true
		reduced = append(reduced, ax)
	}
	sort.Ints(reduced)
	for ax := 0; ax < ndim; ax++ {
		if !seen[ax] {
			kept = append(kept, ax)
		}
	}
	return kept, reduced, nil
}
