// Package webgpu runs the indexer's WGSL mirror on a GPU.
//
// The CPU iterators are the reference: Decoder dispatches the same
// row-major decomposition as a compute shader so that kernels written
// against the WGSL source can be checked position by position.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings;
// the Decoder itself is built on Windows only.
package webgpu
