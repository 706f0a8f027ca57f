package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndindex/internal/parallel"
	"github.com/born-ml/ndindex/internal/tensor"
)

func arange(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	return data
}

var configs = map[string]parallel.Config{
	"sequential": parallel.Sequential(),
	"parallel":   {Enabled: true, NumWorkers: 4, MinChunkSize: 1},
}

func TestOffset(t *testing.T) {
	strides := tensor.Shape{2, 3, 4}.ComputeStrides()
	assert.Equal(t, int64(0), Offset([]int64{0, 0, 0}, strides))
	assert.Equal(t, int64(23), Offset([]int64{1, 2, 3}, strides))
	assert.Equal(t, int64(0), Offset(nil, nil))
}

func TestBroadcastStrides(t *testing.T) {
	assert.Equal(t, []int64{0, 1}, BroadcastStrides(tensor.Shape{3}, tensor.Shape{2, 3}))
	assert.Equal(t, []int64{1, 0}, BroadcastStrides(tensor.Shape{2, 1}, tensor.Shape{2, 3}))
	assert.Equal(t, []int64{0, 0, 0}, BroadcastStrides(tensor.Shape{}, tensor.Shape{2, 2, 2}))
}

func TestSumAxes(t *testing.T) {
	// [[[ 0  1  2  3]
	//   [ 4  5  6  7]
	//   [ 8  9 10 11]]
	//  [[12 13 14 15]
	//   [16 17 18 19]
	//   [20 21 22 23]]]
	shape := tensor.Shape{2, 3, 4}
	data := arange(24)

	tests := []struct {
		name      string
		axes      []int
		wantShape tensor.Shape
		want      []float64
	}{
		{"last", []int{2}, tensor.Shape{2, 3}, []float64{6, 22, 38, 54, 70, 86}},
		{"negative", []int{-1}, tensor.Shape{2, 3}, []float64{6, 22, 38, 54, 70, 86}},
		{"middle", []int{1}, tensor.Shape{2, 4}, []float64{12, 15, 18, 21, 48, 51, 54, 57}},
		{"first", []int{0}, tensor.Shape{3, 4}, []float64{12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 34}},
		{"outer pair", []int{2, 0}, tensor.Shape{3}, []float64{60, 92, 124}},
		{"all", []int{0, 1, 2}, tensor.Shape{}, []float64{276}},
		{"none", nil, tensor.Shape{2, 3, 4}, data},
	}

	for name, cfg := range configs {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, gotShape, err := SumAxes(data, shape, tt.axes, cfg)
				require.NoError(t, err)
				assert.Equal(t, tt.wantShape, gotShape)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestSumAxes_Large(t *testing.T) {
	shape := tensor.Shape{8, 16, 32}
	data := arange(int(shape.NumElements()))

	seq, _, err := SumAxes(data, shape, []int{1}, parallel.Sequential())
	require.NoError(t, err)
	par, _, err := SumAxes(data, shape, []int{1}, parallel.Config{Enabled: true, NumWorkers: 8, MinChunkSize: 4})
	require.NoError(t, err)
	assert.Equal(t, seq, par)

	var total float64
	for _, v := range seq {
		total += v
	}
	n := float64(len(data))
	assert.InDelta(t, n*(n-1)/2, total, 1e-6)
}

func TestSumAxes_Empty(t *testing.T) {
	got, shape, err := SumAxes(nil, tensor.Shape{2, 0}, []int{1}, parallel.Sequential())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2}, shape)
	assert.Equal(t, []float64{0, 0}, got)
}

func TestSumAxes_Errors(t *testing.T) {
	data := arange(6)
	shape := tensor.Shape{2, 3}

	_, _, err := SumAxes(data, shape, []int{2}, parallel.Sequential())
	assert.ErrorContains(t, err, "axis 2 out of range")

	_, _, err = SumAxes(data, shape, []int{-3}, parallel.Sequential())
	assert.ErrorContains(t, err, "axis -3 out of range")

	_, _, err = SumAxes(data, shape, []int{1, -1}, parallel.Sequential())
	assert.ErrorContains(t, err, "repeated")

	_, _, err = SumAxes(data[:5], shape, []int{0}, parallel.Sequential())
	assert.ErrorContains(t, err, "buffer has 5 elements")
}

func TestBroadcastTo(t *testing.T) {
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			row, err := BroadcastTo([]float64{1, 2, 3}, tensor.Shape{3}, tensor.Shape{2, 3}, cfg)
			require.NoError(t, err)
			assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, row)

			col, err := BroadcastTo([]float64{1, 2}, tensor.Shape{2, 1}, tensor.Shape{2, 3}, cfg)
			require.NoError(t, err)
			assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, col)

			scalar, err := BroadcastTo([]float64{7}, tensor.Shape{}, tensor.Shape{2, 2}, cfg)
			require.NoError(t, err)
			assert.Equal(t, []float64{7, 7, 7, 7}, scalar)
		})
	}
}

func TestBroadcastTo_Errors(t *testing.T) {
	_, err := BroadcastTo([]float64{1, 2, 3}, tensor.Shape{3}, tensor.Shape{2, 4}, parallel.Sequential())
	assert.Error(t, err)

	_, err = BroadcastTo(arange(6), tensor.Shape{2, 3}, tensor.Shape{3}, parallel.Sequential())
	assert.ErrorContains(t, err, "cannot expand")

	_, err = BroadcastTo(arange(2), tensor.Shape{3}, tensor.Shape{3}, parallel.Sequential())
	assert.ErrorContains(t, err, "buffer has 2 elements")
}

func TestMap(t *testing.T) {
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			src := arange(100)
			dst := make([]float64, len(src))
			require.NoError(t, Map(dst, src, math.Sqrt, cfg))
			for i, v := range dst {
				assert.InDelta(t, math.Sqrt(float64(i)), v, 1e-12)
			}
		})
	}

	assert.Error(t, Map(make([]float64, 2), make([]float64, 3), math.Abs, parallel.Sequential()))
}

func BenchmarkSumAxes(b *testing.B) {
	shape := tensor.Shape{32, 64, 64}
	data := arange(int(shape.NumElements()))
	cfg := parallel.DefaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := SumAxes(data, shape, []int{1}, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
