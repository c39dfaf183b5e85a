package index

import (
	"structs"
	"unsafe"

	"github.com/softglow/prism/gfx"
)

// DrawCommandNoIndices is one record of a non indexed multi-draw. The
// device reads these records byte for byte, so the field order and packing
// must not change: four uint32 fields, 16 bytes, no padding.
type DrawCommandNoIndices struct {
	_ structs.HostLayout

	// Count is the number of vertices to draw.
	Count uint32

	// InstanceCount is the number of instances to draw. A record with
	// InstanceCount zero is valid and draws nothing.
	InstanceCount uint32

	// FirstIndex is the first vertex to draw in the vertices source.
	FirstIndex uint32

	// BaseInstance is the number of the first instance to draw.
	BaseInstance uint32
}

// DrawCommandIndices is one record of an indexed multi-draw: five uint32
// fields, 20 bytes, no padding.
type DrawCommandIndices struct {
	_ structs.HostLayout

	// Count is the number of indices to use in the index buffer.
	Count uint32

	// InstanceCount is the number of instances to draw. A record with
	// InstanceCount zero is valid and draws nothing.
	InstanceCount uint32

	// FirstIndex is the first index to read in the index buffer.
	FirstIndex uint32

	// BaseVertex is added to every index fetched from the index buffer.
	BaseVertex uint32

	// BaseInstance is the number of the first instance to draw.
	BaseInstance uint32
}

// layout checks against the device command format
var (
	_ [16]byte = [unsafe.Sizeof(DrawCommandNoIndices{})]byte{}
	_ [20]byte = [unsafe.Sizeof(DrawCommandIndices{})]byte{}
)

// DrawCommandsNoIndicesBuffer is a buffer containing a list of non indexed
// draw commands. It owns the underlying allocation and forwards all
// storage operations to it.
type DrawCommandsNoIndicesBuffer struct {
	buffer *gfx.Array[DrawCommandNoIndices]
}

// NewNoIndicesBuffer builds an empty buffer for elements draw commands
// using the default allocation strategy.
func NewNoIndicesBuffer(f gfx.Facade, elements int) (*DrawCommandsNoIndicesBuffer, error) {
	return newNoIndicesBuffer(f, elements, gfx.ModeDefault)
}

// NewNoIndicesBufferDynamic builds an empty buffer optimized for frequent
// rewrites of the command records.
func NewNoIndicesBufferDynamic(f gfx.Facade, elements int) (*DrawCommandsNoIndicesBuffer, error) {
	return newNoIndicesBuffer(f, elements, gfx.ModeDynamic)
}

// NewNoIndicesBufferPersistent builds an empty buffer backed by a host
// mirror, so individual records can be rewritten and read back cheaply.
func NewNoIndicesBufferPersistent(f gfx.Facade, elements int) (*DrawCommandsNoIndicesBuffer, error) {
	return newNoIndicesBuffer(f, elements, gfx.ModePersistent)
}

// NewNoIndicesBufferImmutable builds an empty buffer whose content is
// fixed after the first full write.
func NewNoIndicesBufferImmutable(f gfx.Facade, elements int) (*DrawCommandsNoIndicesBuffer, error) {
	return newNoIndicesBuffer(f, elements, gfx.ModeImmutable)
}

func newNoIndicesBuffer(f gfx.Facade, elements int, mode gfx.BufferMode) (*DrawCommandsNoIndicesBuffer, error) {
	arr, err := gfx.AllocateArray[DrawCommandNoIndices](f, gfx.DrawIndirectBuffer, elements, mode)
	if err != nil {
		return nil, err
	}
	return &DrawCommandsNoIndicesBuffer{buffer: arr}, nil
}

// WithPrimitiveType builds an indices source from this buffer and a
// primitive type. The source borrows the buffer's storage and can be
// passed to the draw path. Record contents are not validated here;
// degenerate records simply draw nothing at submission.
func (b *DrawCommandsNoIndicesBuffer) WithPrimitiveType(primitives PrimitiveType) IndicesSource {
	return MultidrawArray{
		Commands:   b.buffer.Slice(),
		Primitives: primitives,
	}
}

func (b *DrawCommandsNoIndicesBuffer) Len() int {
	return b.buffer.Len()
}

func (b *DrawCommandsNoIndicesBuffer) Mode() gfx.BufferMode {
	return b.buffer.Mode()
}

func (b *DrawCommandsNoIndicesBuffer) Set(i int, cmd DrawCommandNoIndices) error {
	return b.buffer.Set(i, cmd)
}

func (b *DrawCommandsNoIndicesBuffer) At(i int) (DrawCommandNoIndices, error) {
	return b.buffer.At(i)
}

func (b *DrawCommandsNoIndicesBuffer) Write(cmds []DrawCommandNoIndices) error {
	return b.buffer.Write(cmds)
}

func (b *DrawCommandsNoIndicesBuffer) WriteAt(i int, cmds []DrawCommandNoIndices) error {
	return b.buffer.WriteAt(i, cmds)
}

func (b *DrawCommandsNoIndicesBuffer) Read() ([]DrawCommandNoIndices, error) {
	return b.buffer.Read()
}

func (b *DrawCommandsNoIndicesBuffer) Map() ([]DrawCommandNoIndices, error) {
	return b.buffer.Map()
}

func (b *DrawCommandsNoIndicesBuffer) Unmap() error {
	return b.buffer.Unmap()
}

func (b *DrawCommandsNoIndicesBuffer) Slice() gfx.RawSlice {
	return b.buffer.Slice()
}

func (b *DrawCommandsNoIndicesBuffer) Release() {
	b.buffer.Release()
}

// DrawCommandsIndicesBuffer is a buffer containing a list of indexed draw
// commands. Paired with an index buffer it describes a multi-draw where
// every record reads from the shared index data.
type DrawCommandsIndicesBuffer struct {
	buffer *gfx.Array[DrawCommandIndices]
}

// NewIndicesBuffer builds an empty buffer for elements draw commands using
// the default allocation strategy.
func NewIndicesBuffer(f gfx.Facade, elements int) (*DrawCommandsIndicesBuffer, error) {
	return newIndicesBuffer(f, elements, gfx.ModeDefault)
}

// NewIndicesBufferDynamic builds an empty buffer optimized for frequent
// rewrites of the command records.
func NewIndicesBufferDynamic(f gfx.Facade, elements int) (*DrawCommandsIndicesBuffer, error) {
	return newIndicesBuffer(f, elements, gfx.ModeDynamic)
}

// NewIndicesBufferPersistent builds an empty buffer backed by a host
// mirror, so individual records can be rewritten and read back cheaply.
func NewIndicesBufferPersistent(f gfx.Facade, elements int) (*DrawCommandsIndicesBuffer, error) {
	return newIndicesBuffer(f, elements, gfx.ModePersistent)
}

// NewIndicesBufferImmutable builds an empty buffer whose content is fixed
// after the first full write.
func NewIndicesBufferImmutable(f gfx.Facade, elements int) (*DrawCommandsIndicesBuffer, error) {
	return newIndicesBuffer(f, elements, gfx.ModeImmutable)
}

func newIndicesBuffer(f gfx.Facade, elements int, mode gfx.BufferMode) (*DrawCommandsIndicesBuffer, error) {
	arr, err := gfx.AllocateArray[DrawCommandIndices](f, gfx.DrawIndirectBuffer, elements, mode)
	if err != nil {
		return nil, err
	}
	return &DrawCommandsIndicesBuffer{buffer: arr}, nil
}

// WithIndexBuffer builds an indices source from this buffer and an index
// buffer. The element data type and the primitive type are taken from the
// index buffer, since both are properties of how its index data was built.
// The source borrows from both buffers; it must not outlive either.
func (b *DrawCommandsIndicesBuffer) WithIndexBuffer(indexBuffer AnyBuffer) IndicesSource {
	return MultidrawElements{
		Commands:   b.buffer.Slice(),
		Indices:    indexBuffer.IndexSlice(),
		DataType:   indexBuffer.DataType(),
		Primitives: indexBuffer.Primitives(),
	}
}

func (b *DrawCommandsIndicesBuffer) Len() int {
	return b.buffer.Len()
}

func (b *DrawCommandsIndicesBuffer) Mode() gfx.BufferMode {
	return b.buffer.Mode()
}

func (b *DrawCommandsIndicesBuffer) Set(i int, cmd DrawCommandIndices) error {
	return b.buffer.Set(i, cmd)
}

func (b *DrawCommandsIndicesBuffer) At(i int) (DrawCommandIndices, error) {
	return b.buffer.At(i)
}

func (b *DrawCommandsIndicesBuffer) Write(cmds []DrawCommandIndices) error {
	return b.buffer.Write(cmds)
}

func (b *DrawCommandsIndicesBuffer) WriteAt(i int, cmds []DrawCommandIndices) error {
	return b.buffer.WriteAt(i, cmds)
}

func (b *DrawCommandsIndicesBuffer) Read() ([]DrawCommandIndices, error) {
	return b.buffer.Read()
}

func (b *DrawCommandsIndicesBuffer) Map() ([]DrawCommandIndices, error) {
	return b.buffer.Map()
}

func (b *DrawCommandsIndicesBuffer) Unmap() error {
	return b.buffer.Unmap()
}

func (b *DrawCommandsIndicesBuffer) Slice() gfx.RawSlice {
	return b.buffer.Slice()
}

func (b *DrawCommandsIndicesBuffer) Release() {
	b.buffer.Release()
}
