package index

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/softglow/prism/gfx"
)

// Index is implemented by the element types an index buffer can hold.
type Index interface {
	uint16 | uint32
}

// Type tags the element data type of an index buffer.
type Type int

const (
	U16 Type = iota
	U32
)

// Format returns the wgpu index format for this data type.
func (t Type) Format() wgpu.IndexFormat {
	if t == U16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

// Size returns the size of one index in bytes.
func (t Type) Size() int {
	if t == U16 {
		return 2
	}
	return 4
}

func (t Type) String() string {
	switch t {
	case U16:
		return "U16"
	case U32:
		return "U32"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func typeOf[T Index]() Type {
	var zero T
	if unsafe.Sizeof(zero) == 2 {
		return U16
	}
	return U32
}

// AnyBuffer is the type erased view of an index buffer: the index data, its
// element data type, and the primitive type the indices were built for.
type AnyBuffer interface {
	IndexSlice() gfx.RawSlice
	DataType() Type
	Primitives() PrimitiveType
}

// Buffer holds index data in device memory together with the primitive
// type the indices describe. The primitive type is a property of how the
// index data was built, so it travels with the buffer.
type Buffer[T Index] struct {
	array      *gfx.Array[T]
	primitives PrimitiveType
}

// NewBuffer allocates an index buffer with the default strategy and
// uploads the given indices.
func NewBuffer[T Index](f gfx.Facade, primitives PrimitiveType, indices []T) (*Buffer[T], error) {
	return NewBufferWithMode(f, primitives, indices, gfx.ModeDefault)
}

// NewBufferWithMode allocates an index buffer with the given allocation
// strategy and uploads the given indices.
func NewBufferWithMode[T Index](f gfx.Facade, primitives PrimitiveType, indices []T, mode gfx.BufferMode) (*Buffer[T], error) {
	arr, err := gfx.AllocateArray[T](f, gfx.IndexBuffer, len(indices), mode)
	if err != nil {
		return nil, err
	}

	if len(indices) > 0 {
		if err := arr.Write(indices); err != nil {
			arr.Release()
			return nil, err
		}
	}

	return &Buffer[T]{array: arr, primitives: primitives}, nil
}

// NewEmptyBuffer allocates an index buffer for elements indices without
// uploading content.
func NewEmptyBuffer[T Index](f gfx.Facade, primitives PrimitiveType, elements int, mode gfx.BufferMode) (*Buffer[T], error) {
	arr, err := gfx.AllocateArray[T](f, gfx.IndexBuffer, elements, mode)
	if err != nil {
		return nil, err
	}
	return &Buffer[T]{array: arr, primitives: primitives}, nil
}

func (b *Buffer[T]) Len() int {
	return b.array.Len()
}

func (b *Buffer[T]) Write(indices []T) error {
	return b.array.Write(indices)
}

func (b *Buffer[T]) WriteAt(i int, indices []T) error {
	return b.array.WriteAt(i, indices)
}

func (b *Buffer[T]) Read() ([]T, error) {
	return b.array.Read()
}

func (b *Buffer[T]) Map() ([]T, error) {
	return b.array.Map()
}

func (b *Buffer[T]) Unmap() error {
	return b.array.Unmap()
}

func (b *Buffer[T]) Release() {
	b.array.Release()
}

// IndexSlice implements AnyBuffer.
func (b *Buffer[T]) IndexSlice() gfx.RawSlice {
	return b.array.Slice()
}

// DataType implements AnyBuffer.
func (b *Buffer[T]) DataType() Type {
	return typeOf[T]()
}

// Primitives implements AnyBuffer.
func (b *Buffer[T]) Primitives() PrimitiveType {
	return b.primitives
}

// AsSource builds an indices source describing a single indexed draw over
// the full index buffer.
func (b *Buffer[T]) AsSource() IndicesSource {
	return FromBuffer{
		Indices:    b.array.Slice(),
		DataType:   typeOf[T](),
		Primitives: b.primitives,
	}
}
