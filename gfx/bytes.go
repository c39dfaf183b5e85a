package gfx

import "unsafe"

// AsByteSlice returns the memory of a single value as a byte slice.
func AsByteSlice[T any](value *T) []byte {
	var zeroT T

	n := unsafe.Sizeof(zeroT)
	ptr := (*byte)(unsafe.Pointer(value))

	return unsafe.Slice(ptr, n)
}

// ToBytes reinterprets a slice of T as its raw bytes without copying.
func ToBytes[T any](values []T) []byte {
	if len(values) == 0 {
		return nil
	}

	var zeroT T
	n := uintptr(len(values)) * unsafe.Sizeof(zeroT)

	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(values))), n)
}

// FromBytes reinterprets raw bytes as a slice of T without copying. Any
// trailing bytes that do not fill a whole T are dropped.
func FromBytes[T any](data []byte) []T {
	if len(data) == 0 {
		return nil
	}

	var zeroT T
	n := uintptr(len(data)) / unsafe.Sizeof(zeroT)

	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), n)
}
