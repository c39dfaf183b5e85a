package gfx

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// RawSlice is the type erased view of an Array that the draw submission
// path consumes. It borrows the array's storage; it stays valid only as
// long as the array it came from.
type RawSlice struct {
	Buffer DeviceBuffer
	Offset uint64
	Stride uint64
	Len    int
}

// SizeBytes is the byte size of the viewed element range.
func (s RawSlice) SizeBytes() uint64 {
	return s.Stride * uint64(s.Len)
}

// Array is a fixed length array of T in device visible memory. An Array is
// the single owner of the underlying allocation; the element count is fixed
// at creation.
//
// Host reads are only available where the device allows them: persistent
// arrays read from their host mirror, dynamic arrays read back through a
// staging copy, and the other modes fail with ErrNotReadable.
type Array[T any] struct {
	buf    DeviceBuffer
	n      int
	mode   BufferMode
	sealed bool

	// host mirror, ModePersistent only
	shadow []byte
}

// AllocateArray creates device storage for n elements of T, bound as the
// given buffer type. Each BufferMode results in a distinct allocation
// request; if the device rejects it, an *AllocationError is returned and no
// resource is retained.
func AllocateArray[T any](f Facade, typ BufferType, n int, mode BufferMode) (*Array[T], error) {
	if n < 0 {
		return nil, &AllocationError{
			Label: fmt.Sprintf("%s[%d]", typ, n),
			Err:   errors.New("negative element count"),
		}
	}

	var zero T
	stride := uint64(unsafe.Sizeof(zero))

	desc := &wgpu.BufferDescriptor{
		Label: fmt.Sprintf("%s[%d]", typ, n),
		Size:  stride * uint64(n),
		Usage: typ.usages(),
	}

	switch mode {
	case ModeDefault, ModePersistent:
		desc.Usage |= wgpu.BufferUsageCopyDst
	case ModeDynamic:
		desc.Usage |= wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	case ModeImmutable:
		// a zero element array has nothing to write, so there is no
		// initial mapping to fill and unmap
		desc.MappedAtCreation = n > 0
	}

	buf, err := f.AllocateBuffer(desc)
	if err != nil {
		return nil, &AllocationError{Label: desc.Label, Size: desc.Size, Err: err}
	}

	a := &Array[T]{buf: buf, n: n, mode: mode}
	if mode == ModePersistent {
		a.shadow = make([]byte, desc.Size)
	}

	return a, nil
}

func (a *Array[T]) stride() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// Len is the element count the array was created with.
func (a *Array[T]) Len() int {
	return a.n
}

// Mode is the allocation strategy the array was created with.
func (a *Array[T]) Mode() BufferMode {
	return a.mode
}

// SizeBytes is the total byte size of the array.
func (a *Array[T]) SizeBytes() uint64 {
	return a.stride() * uint64(a.n)
}

// Set writes the element at index i.
func (a *Array[T]) Set(i int, v T) error {
	return a.write(i, 1, AsByteSlice(&v))
}

// Write replaces the full content of the array. The value count must match
// the array length.
func (a *Array[T]) Write(values []T) error {
	if len(values) != a.n {
		return ErrOutOfRange
	}
	return a.write(0, len(values), ToBytes(values))
}

// WriteAt writes values starting at element index i. Persistent arrays
// update their host mirror and upload through the queue; immutable arrays
// accept exactly one full Write and reject everything after that.
func (a *Array[T]) WriteAt(i int, values []T) error {
	return a.write(i, len(values), ToBytes(values))
}

func (a *Array[T]) write(i, count int, data []byte) error {
	if a.buf == nil {
		return ErrReleased
	}
	if i < 0 || i+count > a.n {
		return ErrOutOfRange
	}
	if len(data) == 0 {
		return nil
	}

	off := uint64(i) * a.stride()

	switch a.mode {
	case ModePersistent:
		copy(a.shadow[off:], data)
		return a.buf.WriteAt(off, data)

	case ModeImmutable:
		if a.sealed {
			return ErrImmutable
		}
		if i != 0 || count != a.n {
			// immutable content must arrive as one full write
			return ErrImmutable
		}
		dst, err := a.buf.MappedRange(0, uint64(len(data)))
		if err != nil {
			return err
		}
		copy(dst, data)
		if err := a.buf.Unmap(); err != nil {
			return err
		}
		a.sealed = true
		return nil

	default:
		return a.buf.WriteAt(off, data)
	}
}

// Map returns the array content as a host visible slice. Only persistent
// arrays have one: the view aliases the host mirror and reflects every
// write made through this array. Other modes fail with ErrNotReadable;
// use Read for dynamic arrays.
func (a *Array[T]) Map() ([]T, error) {
	if a.buf == nil {
		return nil, ErrReleased
	}
	if a.mode != ModePersistent {
		return nil, ErrNotReadable
	}
	return FromBytes[T](a.shadow), nil
}

// Unmap releases a mapping obtained from Map. The persistent mirror lives
// as long as the array, so this is a no-op.
func (a *Array[T]) Unmap() error {
	if a.buf == nil {
		return ErrReleased
	}
	return nil
}

// Read copies the current array content to host memory. Persistent arrays
// read from their mirror; dynamic arrays read back from the device through
// a staging copy. Default and immutable arrays are not host readable.
func (a *Array[T]) Read() ([]T, error) {
	if a.buf == nil {
		return nil, ErrReleased
	}

	switch a.mode {
	case ModePersistent:
		out := make([]T, a.n)
		copy(out, FromBytes[T](a.shadow))
		return out, nil

	case ModeDynamic:
		data, err := a.buf.ReadBack(0, a.SizeBytes())
		if err != nil {
			return nil, err
		}
		return FromBytes[T](data), nil

	default:
		return nil, ErrNotReadable
	}
}

// At reads the element at index i, under the same mode rules as Read.
func (a *Array[T]) At(i int) (T, error) {
	var zero T
	if a.buf == nil {
		return zero, ErrReleased
	}
	if i < 0 || i >= a.n {
		return zero, ErrOutOfRange
	}

	off := uint64(i) * a.stride()

	switch a.mode {
	case ModePersistent:
		return FromBytes[T](a.shadow[off : off+a.stride()])[0], nil

	case ModeDynamic:
		data, err := a.buf.ReadBack(off, a.stride())
		if err != nil {
			return zero, err
		}
		return FromBytes[T](data)[0], nil

	default:
		return zero, ErrNotReadable
	}
}

// Slice returns the type erased view of the full array. The view borrows
// the array's storage and must not outlive it.
func (a *Array[T]) Slice() RawSlice {
	return RawSlice{
		Buffer: a.buf,
		Stride: a.stride(),
		Len:    a.n,
	}
}

func (a *Array[T]) Release() {
	if a.buf != nil {
		a.buf.Release()
		a.buf = nil
		a.shadow = nil
	}
}
