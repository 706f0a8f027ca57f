package webgpu

import (
	"fmt"

	"github.com/born-ml/ndindex/internal/indexer"
)

// Default WebGPU limits a Decode launch must fit in.
const (
	// MaxWorkgroups is maxComputeWorkgroupsPerDimension; dispatches use x only.
	MaxWorkgroups = 65535

	// MaxBindingSize is maxStorageBufferBindingSize, in bytes.
	MaxBindingSize = 128 << 20

	// MaxPositions is the most positions a single Decode can visit.
	MaxPositions = MaxWorkgroups * indexer.WorkgroupSize
)

// launch sizes a Decode of count positions at rank ndim: the number of
// workgroups along x and the byte size of the coordinate buffer.
func launch(count int64, ndim int8) (workgroups uint32, resultSize uint64, err error) {
	if count < 0 || count > MaxPositions {
		return 0, 0, fmt.Errorf("webgpu: %d positions exceed the %d a dispatch can cover", count, MaxPositions)
	}
	size := count * int64(ndim) * 4
	if size > MaxBindingSize {
		return 0, 0, fmt.Errorf("webgpu: %d coordinate bytes exceed the %d byte binding limit", size, MaxBindingSize)
	}
	//nolint:gosec // G115: both values are bounded above.
	return uint32((count + indexer.WorkgroupSize - 1) / indexer.WorkgroupSize), uint64(size), nil
}
