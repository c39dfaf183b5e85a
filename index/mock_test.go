package index

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/softglow/prism/gfx"
)

// fakeDevice implements gfx.Facade on plain host memory.
type fakeDevice struct {
	allocated []*fakeBuffer
	failWith  error
}

func (d *fakeDevice) AllocateBuffer(desc *wgpu.BufferDescriptor) (gfx.DeviceBuffer, error) {
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
}

func (b *fakeBuffer) WriteAt(off uint64, data []byte) error {
	if b.released {
		return gfx.ErrReleased
	}
	if off+uint64(len(data)) > uint64(len(b.data)) {
		return gfx.ErrOutOfRange
	}
	copy(b.data[off:], data)
	return nil
}

func (b *fakeBuffer) ReadBack(off, size uint64) ([]byte, error) {
	if b.released {
		return nil, gfx.ErrReleased
	}
	if off+size > uint64(len(b.data)) {
		return nil, gfx.ErrOutOfRange
	}

	out := make([]byte, size)
	copy(out, b.data[off:])
	return out, nil
}

func (b *fakeBuffer) MappedRange(off, size uint64) ([]byte, error) {
	if b.released {
		return nil, gfx.ErrReleased
	}
	if !b.mapped {
		return nil, gfx.ErrNotMapped
	}
	if off+size > uint64(len(b.data)) {
		return nil, gfx.ErrOutOfRange
	}
	return b.data[off : off+size], nil
}

func (b *fakeBuffer) Unmap() error {
	if b.released {
		return gfx.ErrReleased
	}
	b.mapped = false
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
