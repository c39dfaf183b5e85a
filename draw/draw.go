// Package draw encodes indices sources onto a wgpu render pass. It owns
// the dispatch over the source variants: plain draws, single indexed
// draws, and the two multi-draw indirect forms.
package draw

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/softglow/prism/gfx"
	"github.com/softglow/prism/index"
)

// Options adjust how an indices source is encoded.
type Options struct {
	// VertexCount is the number of vertices for a NoIndices source.
	// Ignored for every other variant.
	VertexCount uint32

	// InstanceCount for NoIndices and FromBuffer sources. Zero means one
	// instance. Multi-draw sources carry instance counts per record.
	InstanceCount uint32
}

// ErrSourceReleased reports that an indices source was used after one of
// the buffers it borrows from was released.
var ErrSourceReleased = errors.New("draw: indices source outlived its buffer")

// Encode records the draws described by source into the given render
// pass. The pipeline, including a primitive topology matching
// index.PrimitivesOf(source), must already be set on the pass.
//
// Multi-draw sources are encoded as one indirect draw per record; records
// with InstanceCount zero are submitted as-is and draw nothing. A source
// over zero records encodes zero draws, which is valid.
func Encode(pass *wgpu.RenderPassEncoder, source index.IndicesSource, opts Options) error {
	instances := opts.InstanceCount
	if instances == 0 {
		instances = 1
	}

	switch src := source.(type) {
	case index.NoIndices:
		pass.Draw(opts.VertexCount, instances, 0, 0)
		return nil

	case index.FromBuffer:
		indices, err := rawBuffer(src.Indices)
		if err != nil {
			return err
		}
		pass.SetIndexBuffer(indices, src.DataType.Format(), src.Indices.Offset, src.Indices.SizeBytes())
		pass.DrawIndexed(uint32(src.Indices.Len), instances, 0, 0, 0)
		return nil

	case index.MultidrawArray:
		commands, err := rawBuffer(src.Commands)
		if err != nil {
			return err
		}
		if err := checkCommands(src.Commands, unsafe.Sizeof(index.DrawCommandNoIndices{})); err != nil {
			return err
		}

		slog.Debug("Encode multi-draw", slog.Int("records", src.Commands.Len), slog.Bool("indexed", false))

		// wgpu exposes no multi draw entry point; encode one indirect
		// draw per record at its stride offset
		for i := 0; i < src.Commands.Len; i++ {
			pass.DrawIndirect(commands, src.Commands.Offset+uint64(i)*src.Commands.Stride)
		}
		return nil

	case index.MultidrawElements:
		commands, err := rawBuffer(src.Commands)
		if err != nil {
			return err
		}
		indices, err := rawBuffer(src.Indices)
		if err != nil {
			return err
		}
		if err := checkCommands(src.Commands, unsafe.Sizeof(index.DrawCommandIndices{})); err != nil {
			return err
		}

		slog.Debug("Encode multi-draw", slog.Int("records", src.Commands.Len), slog.Bool("indexed", true))

		pass.SetIndexBuffer(indices, src.DataType.Format(), src.Indices.Offset, src.Indices.SizeBytes())
		for i := 0; i < src.Commands.Len; i++ {
			pass.DrawIndexedIndirect(commands, src.Commands.Offset+uint64(i)*src.Commands.Stride)
		}
		return nil

	default:
		return fmt.Errorf("draw: unsupported indices source %T", source)
	}
}

// rawBuffer resolves the device handle behind a borrowed slice, rejecting
// slices whose backing buffer is gone.
func rawBuffer(s gfx.RawSlice) (*wgpu.Buffer, error) {
	if s.Buffer == nil {
		return nil, ErrSourceReleased
	}

	raw := s.Buffer.Raw()
	if raw == nil {
		return nil, ErrSourceReleased
	}

	return raw, nil
}

// checkCommands verifies that the record stride matches the device command
// layout and that the record range fits the backing allocation.
func checkCommands(s gfx.RawSlice, recordSize uintptr) error {
	if s.Stride != uint64(recordSize) {
		return fmt.Errorf("draw: command stride %d does not match record size %d", s.Stride, recordSize)
	}
	if s.Offset+s.SizeBytes() > s.Buffer.Size() {
		return fmt.Errorf("draw: %d commands at offset %d overflow buffer of %d bytes",
			s.Len, s.Offset, s.Buffer.Size())
	}
	return nil
}
