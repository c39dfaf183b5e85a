package gfx

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// fakeDevice implements Facade on top of plain host memory.
type fakeDevice struct {
	allocated []*fakeBuffer
	failWith  error
}

func (d *fakeDevice) AllocateBuffer(desc *wgpu.BufferDescriptor) (DeviceBuffer, error) {
	if d.failWith != nil {
		return nil, d.failWith
	}

	buf := &fakeBuffer{
		desc:   *desc,
		data:   make([]byte, desc.Size),
		mapped: desc.MappedAtCreation,
	}

	d.allocated = append(d.allocated, buf)
	return buf, nil
}

type fakeBuffer struct {
	desc     wgpu.BufferDescriptor
	data     []byte
	mapped   bool
	released bool
	unmaps   int
}

func (b *fakeBuffer) WriteAt(off uint64, data []byte) error {
	if b.released {
		return ErrReleased
	}
	if off+uint64(len(data)) > uint64(len(b.data)) {
		return ErrOutOfRange
	}
	copy(b.data[off:], data)
	return nil
}

func (b *fakeBuffer) ReadBack(off, size uint64) ([]byte, error) {
	if b.released {
		return nil, ErrReleased
	}
	if b.desc.Usage&wgpu.BufferUsageCopySrc == 0 {
		return nil, errors.New("buffer usage is missing CopySrc")
	}
	if off+size > uint64(len(b.data)) {
		return nil, ErrOutOfRange
	}

	out := make([]byte, size)
	copy(out, b.data[off:])
	return out, nil
}

func (b *fakeBuffer) MappedRange(off, size uint64) ([]byte, error) {
	if b.released {
		return nil, ErrReleased
	}
	if !b.mapped {
		return nil, ErrNotMapped
	}
	if off+size > uint64(len(b.data)) {
		return nil, ErrOutOfRange
	}
	return b.data[off : off+size], nil
}

func (b *fakeBuffer) Unmap() error {
	if b.released {
		return ErrReleased
	}
	if b.mapped {
		b.mapped = false
		b.unmaps++
	}
	return nil
}

func (b *fakeBuffer) Size() uint64 {
	return uint64(len(b.data))
}

func (b *fakeBuffer) Raw() *wgpu.Buffer {
	return nil
}

func (b *fakeBuffer) Release() {
	b.released = true
}
