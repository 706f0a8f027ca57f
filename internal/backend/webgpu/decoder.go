//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/ndindex/internal/indexer"
	"github.com/born-ml/ndindex/internal/tensor"
)

// Decoder decomposes linear indices into coordinates on the GPU.
type Decoder struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache, keyed by rank.
	shaders   map[int8]*wgpu.ShaderModule
	pipelines map[int8]*wgpu.ComputePipeline
	mu        sync.RWMutex
}

// NewDecoder acquires a GPU device.
// Returns an error if WebGPU is not available or initialization fails.
func NewDecoder() (d *Decoder, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Decoder{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		shaders:   make(map[int8]*wgpu.ShaderModule),
		pipelines: make(map[int8]*wgpu.ComputePipeline),
	}, nil
}

// Release releases all WebGPU resources.
func (d *Decoder) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, p := range d.pipelines {
		p.Release()
	}
	d.pipelines = nil
	for _, s := range d.shaders {
		s.Release()
	}
	d.shaders = nil

	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// Decode returns the coordinates of every position a traversal of shape
// from start by step visits, one row per position, in visiting order.
func (d *Decoder) Decode(shape tensor.Shape, start, step int64) ([][]int64, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("webgpu: %w", err)
	}
	if step == 0 {
		return nil, fmt.Errorf("webgpu: step must not be zero")
	}
	total := shape.NumElements()
	if total > indexer.MaxDeviceSize || start > indexer.MaxDeviceSize || start < -indexer.MaxDeviceSize ||
		step > indexer.MaxDeviceSize || step < -indexer.MaxDeviceSize {
		return nil, fmt.Errorf("webgpu: shape %v with start %d, step %d exceeds 32-bit device indexing", shape, start, step)
	}

	count := indexer.Span(total, start, step)
	ndim := shape.Ndim()
	rows := make([][]int64, count)
	if count == 0 {
		return rows, nil
	}
	if ndim == 0 {
		for i := range rows {
			rows[i] = []int64{}
		}
		return rows, nil
	}

	workgroups, resultSize, err := launch(count, ndim)
	if err != nil {
		return nil, err
	}

	pipeline, err := d.pipeline(ndim)
	if err != nil {
		return nil, err
	}

	shapeData := make([]byte, 4*len(shape))
	for i, dim := range shape {
		//nolint:gosec // G115: extents are bounded by MaxDeviceSize.
		binary.LittleEndian.PutUint32(shapeData[4*i:], uint32(dim))
	}
	bufferShape := d.createBuffer(shapeData, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferShape.Release()

	bufferCoords := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferCoords.Release()

	// Params {total: u32, start: i32, step: i32, count: u32}, 16-byte aligned.
	params := make([]byte, 16)
	// All four values are bounded by MaxDeviceSize.
	binary.LittleEndian.PutUint32(params[0:4], uint32(total))        //nolint:gosec // G115
	binary.LittleEndian.PutUint32(params[4:8], uint32(int32(start))) //nolint:gosec // G115
	binary.LittleEndian.PutUint32(params[8:12], uint32(int32(step))) //nolint:gosec // G115
	binary.LittleEndian.PutUint32(params[12:16], uint32(count))      //nolint:gosec // G115
	bufferParams := d.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := d.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferShape, 0, uint64(len(shapeData))),
		wgpu.BufferBindingEntry(1, bufferCoords, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	d.queue.Submit(cmdBuffer)

	data, err := d.readBuffer(bufferCoords, resultSize)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		row := make([]int64, ndim)
		for j := range row {
			off := 4 * (i*int(ndim) + j)
			row[j] = int64(binary.LittleEndian.Uint32(data[off : off+4]))
		}
		rows[i] = row
	}
	return rows, nil
}

// pipeline returns the cached compute pipeline for rank ndim, compiling it on first use.
func (d *Decoder) pipeline(ndim int8) (*wgpu.ComputePipeline, error) {
	d.mu.RLock()
	if p, ok := d.pipelines[ndim]; ok {
		d.mu.RUnlock()
		return p, nil
	}
	d.mu.RUnlock()

	code, err := indexer.WGSL(ndim)
	if err != nil {
		return nil, fmt.Errorf("webgpu: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pipelines[ndim]; ok {
		return p, nil
	}
	shader := d.device.CreateShaderModuleWGSL(code)
	p := d.device.CreateComputePipelineSimple(nil, shader, "main")
	d.shaders[ndim] = shader
	d.pipelines[ndim] = p
	return p, nil
}

// createBuffer creates a GPU buffer and uploads initial data.
func (d *Decoder) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), size), data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer rounded up to 16-byte alignment.
func (d *Decoder) createUniformBuffer(data []byte) *wgpu.Buffer {
	alignedSize := (uint64(len(data)) + 15) &^ 15

	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), alignedSize), data)
	buffer.Unmap()

	return buffer
}

// readBuffer copies a storage buffer back to host memory through a staging buffer.
func (d *Decoder) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	d.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(d.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("webgpu: failed to map staging buffer: %w", err)
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	result := append([]byte(nil), unsafe.Slice((*byte)(mappedPtr), size)...)
	staging.Unmap()

	return result, nil
}
