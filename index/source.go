package index

import "github.com/softglow/prism/gfx"

// IndicesSource describes where the indices (or draw command records) of a
// draw call come from. A source is a borrowed view constructed right before
// a draw: it stays valid only as long as the buffers it was built from and
// should be discarded after the draw that consumes it.
//
// The variant set is closed; the draw path dispatches on the concrete type.
type IndicesSource interface {
	isIndicesSource()
}

// NoIndices draws sequential vertices without any index data.
type NoIndices struct {
	Primitives PrimitiveType
}

// FromBuffer draws once, reading indices from an index buffer.
type FromBuffer struct {
	Indices    gfx.RawSlice
	DataType   Type
	Primitives PrimitiveType
}

// MultidrawArray issues one non indexed draw per command record in a
// single submission.
type MultidrawArray struct {
	Commands   gfx.RawSlice
	Primitives PrimitiveType
}

// MultidrawElements issues one indexed draw per command record, all
// records dereferencing a shared index buffer.
type MultidrawElements struct {
	Commands   gfx.RawSlice
	Indices    gfx.RawSlice
	DataType   Type
	Primitives PrimitiveType
}

func (NoIndices) isIndicesSource()         {}
func (FromBuffer) isIndicesSource()        {}
func (MultidrawArray) isIndicesSource()    {}
func (MultidrawElements) isIndicesSource() {}

// PrimitivesOf reports the primitive type of any indices source.
func PrimitivesOf(src IndicesSource) PrimitiveType {
	switch s := src.(type) {
	case NoIndices:
		return s.Primitives
	case FromBuffer:
		return s.Primitives
	case MultidrawArray:
		return s.Primitives
	case MultidrawElements:
		return s.Primitives
	default:
		// the variant set is closed
		return Points
	}
}
