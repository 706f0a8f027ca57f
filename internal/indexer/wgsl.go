package indexer

import (
	"fmt"
	"math"
)

// MaxDeviceSize bounds the element count the WGSL mirror can address.
// WGSL has no 64-bit integers; linear indices are carried as i32.
const MaxDeviceSize = math.MaxInt32

// WorkgroupSize is the number of invocations per workgroup in the WGSL mirror.
const WorkgroupSize = 256

// WGSL returns a compute shader that decomposes linear indices exactly like
// Iterator.Set, for a rank fixed at shader-compile time.
//
// Bindings:
//
//	@binding(0) shape:  array<u32>            (ndim extents)
//	@binding(1) coords: array<u32>            (count*ndim outputs, row per position)
//	@binding(2) params: {total: u32, start: i32, step: i32, count: u32}
//
// Invocation n handles raw index start+n*step and writes nothing when
// that index is outside [0, total).
func WGSL(ndim int8) (string, error) {
	if ndim < 1 || ndim > MaxNdim {
		return "", fmt.Errorf("wgsl: rank %d outside [1, %d]", ndim, MaxNdim)
	}
	return fmt.Sprintf(wgslTemplate, ndim, WorkgroupSize), nil
}

const wgslTemplate = `
const NDIM: u32 = %du;

@group(0) @binding(0) var<storage, read> shape: array<u32>;
@group(0) @binding(1) var<storage, read_write> coords: array<u32>;

struct Params {
    total: u32,
    start: i32,
    step: i32,
    count: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

fn decompose(raw: u32, index: ptr<function, array<u32, NDIM>>) {
    var r = raw;
    for (var j: i32 = i32(NDIM) - 1; j >= 0; j = j - 1) {
        (*index)[j] = r %% shape[j];
        r = r / shape[j];
    }
}

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let n = global_id.x;
    if (n >= params.count) {
        return;
    }
    let raw = params.start + i32(n) * params.step;
    if (raw < 0 || u32(raw) >= params.total) {
        return;
    }
    var index: array<u32, NDIM>;
    decompose(u32(raw), &index);
    for (var j: u32 = 0u; j < NDIM; j = j + 1u) {
        coords[n * NDIM + j] = index[j];
    }
}
`
