package indexer

import (
	"testing"

	"github.com/born-ml/ndindex/internal/tensor"
)

var sink int64

func BenchmarkIterate(b *testing.B) {
	shape := tensor.Shape{16, 32, 64}

	b.Run("fixed", func(b *testing.B) {
		ix := New[[3]int64](shape)
		for i := 0; i < b.N; i++ {
			for it := ix.Begin(); it.Valid(); it.Next() {
				sink += it.Index()[2]
			}
		}
	})

	b.Run("dynamic", func(b *testing.B) {
		ix := NewDynamic(shape)
		for i := 0; i < b.N; i++ {
			for it := ix.Begin(); it.Valid(); it.Next() {
				sink += it.Index()[2]
			}
		}
	})

	b.Run("flat", func(b *testing.B) {
		ix := New1(tensor.Shape{shape.NumElements()})
		for i := 0; i < b.N; i++ {
			for it := ix.Begin(); it.Valid(); it.Next() {
				sink += it.Raw()
			}
		}
	})
}

func BenchmarkCombine(b *testing.B) {
	outer := New1(tensor.Shape{64})
	inner := New[[2]int64](tensor.Shape{32, 32})
	full := New[[3]int64](tensor.Shape{64, 32, 32})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for o := outer.Begin(); o.Valid(); o.Next() {
			for in := inner.Begin(); in.Valid(); in.Next() {
				it := full.Combine(o.Index(), in.Index())
				sink += it.Index()[0]
			}
		}
	}
}
