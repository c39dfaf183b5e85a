package gfx

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// BufferType selects what a buffer is bound as on the device.
type BufferType int

const (
	// DrawIndirectBuffer holds draw command records read by indirect draws.
	DrawIndirectBuffer BufferType = iota
	IndexBuffer
	VertexBuffer
	UniformBuffer
	StorageBuffer
)

func (t BufferType) usages() wgpu.BufferUsage {
	switch t {
	case DrawIndirectBuffer:
		return wgpu.BufferUsageIndirect
	case IndexBuffer:
		return wgpu.BufferUsageIndex
	case VertexBuffer:
		return wgpu.BufferUsageVertex
	case UniformBuffer:
		return wgpu.BufferUsageUniform
	case StorageBuffer:
		return wgpu.BufferUsageStorage
	default:
		return 0
	}
}

func (t BufferType) String() string {
	switch t {
	case DrawIndirectBuffer:
		return "DrawIndirect"
	case IndexBuffer:
		return "Index"
	case VertexBuffer:
		return "Vertex"
	case UniformBuffer:
		return "Uniform"
	case StorageBuffer:
		return "Storage"
	default:
		return fmt.Sprintf("BufferType(%d)", int(t))
	}
}

// BufferMode selects the allocation strategy for a buffer.
type BufferMode int

const (
	// ModeDefault is a device local buffer updated through the queue.
	ModeDefault BufferMode = iota

	// ModeDynamic is intended for buffers that are rewritten frequently,
	// often once per frame.
	ModeDynamic

	// ModePersistent keeps a host mirror of the buffer for its whole
	// lifetime. Writes land in the mirror and are uploaded through the
	// queue, so the device never sees a mapped buffer in a submission;
	// reads come straight from the mirror without a device round trip.
	ModePersistent

	// ModeImmutable fixes the buffer content after the first full write.
	ModeImmutable
)

func (m BufferMode) String() string {
	switch m {
	case ModeDefault:
		return "Default"
	case ModeDynamic:
		return "Dynamic"
	case ModePersistent:
		return "Persistent"
	case ModeImmutable:
		return "Immutable"
	default:
		return fmt.Sprintf("BufferMode(%d)", int(m))
	}
}

var (
	ErrReleased    = errors.New("gfx: buffer already released")
	ErrNotMapped   = errors.New("gfx: buffer is not mapped")
	ErrOutOfRange  = errors.New("gfx: range exceeds buffer size")
	ErrImmutable   = errors.New("gfx: immutable buffer content is already fixed")
	ErrNotReadable = errors.New("gfx: buffer mode does not support host reads")
)

// AllocationError reports that the device rejected a buffer allocation.
// The allocation either succeeds at the full requested size or fails with
// this error; no partially usable buffer is ever returned.
type AllocationError struct {
	Label string
	Size  uint64
	Err   error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("gfx: allocate %q (%d bytes): %v", e.Label, e.Size, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// Facade is the device side surface needed to allocate buffers. It is
// implemented by Context and by test doubles.
type Facade interface {
	AllocateBuffer(desc *wgpu.BufferDescriptor) (DeviceBuffer, error)
}

// DeviceBuffer is the narrow surface of one device allocation. All typed
// buffer views in this module forward their storage operations here.
type DeviceBuffer interface {
	// WriteAt copies data into the buffer at byte offset off through the
	// device queue.
	WriteAt(off uint64, data []byte) error

	// ReadBack copies the given byte range from device to host memory,
	// blocking until the copy is done. The buffer needs CopySrc usage;
	// the returned slice is an independent copy.
	ReadBack(off, size uint64) ([]byte, error)

	// MappedRange returns host visible bytes of a currently mapped buffer.
	MappedRange(off, size uint64) ([]byte, error)

	// Unmap releases a host mapping. Unmapping an unmapped buffer is a
	// no-op.
	Unmap() error

	// Size is the allocation size in bytes.
	Size() uint64

	// Raw exposes the underlying device handle to the submission path.
	// Test doubles return nil.
	Raw() *wgpu.Buffer

	Release()
}

// deviceBuffer adapts a wgpu.Buffer to the DeviceBuffer surface.
type deviceBuffer struct {
	ctx    *Context
	buf    *wgpu.Buffer
	size   uint64
	mapped bool
}

func (b *deviceBuffer) WriteAt(off uint64, data []byte) error {
	if b.buf == nil {
		return ErrReleased
	}
	if off+uint64(len(data)) > b.size {
		return ErrOutOfRange
	}
	if len(data) == 0 {
		return nil
	}
	return b.ctx.Queue.WriteBuffer(b.buf, off, data)
}

// ReadBack copies the range into a MapRead staging buffer and maps that.
// Mapping the buffer itself would need MapRead usage, which the device
// refuses to combine with any binding usage.
func (b *deviceBuffer) ReadBack(off, size uint64) ([]byte, error) {
	if b.buf == nil {
		return nil, ErrReleased
	}
	if off+size > b.size {
		return nil, ErrOutOfRange
	}
	if size == 0 {
		return nil, nil
	}

	staging, err := b.ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ReadBack",
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	if err != nil {
		return nil, fmt.Errorf("gfx: allocate staging buffer: %w", err)
	}

	defer staging.Release()

	encoder, err := b.ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}

	defer encoder.Release()

	if err := encoder.CopyBufferToBuffer(b.buf, off, staging, 0, size); err != nil {
		return nil, err
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return nil, err
	}

	defer cmdBuffer.Release()

	b.ctx.Queue.Submit(cmdBuffer)

	var status wgpu.BufferMapAsyncStatus
	err = staging.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return nil, err
	}

	b.ctx.WaitDone()

	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("gfx: map staging buffer: status %v", status)
	}

	out := make([]byte, size)
	copy(out, staging.GetMappedRange(0, uint(size)))
	staging.Unmap()

	return out, nil
}

func (b *deviceBuffer) MappedRange(off, size uint64) ([]byte, error) {
	if b.buf == nil {
		return nil, ErrReleased
	}
	if !b.mapped {
		return nil, ErrNotMapped
	}
	if off+size > b.size {
		return nil, ErrOutOfRange
	}
	return b.buf.GetMappedRange(uint(off), uint(size)), nil
}

func (b *deviceBuffer) Unmap() error {
	if b.buf == nil {
		return ErrReleased
	}
	if !b.mapped {
		return nil
	}
	b.buf.Unmap()
	b.mapped = false
	return nil
}

func (b *deviceBuffer) Size() uint64 {
	return b.size
}

func (b *deviceBuffer) Raw() *wgpu.Buffer {
	return b.buf
}

func (b *deviceBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}
