package index

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/softglow/prism/gfx"
)

func TestDrawCommandLayout(t *testing.T) {
	if size := unsafe.Sizeof(DrawCommandNoIndices{}); size != 16 {
		t.Errorf("DrawCommandNoIndices size = %d, want 16", size)
	}
	if size := unsafe.Sizeof(DrawCommandIndices{}); size != 20 {
		t.Errorf("DrawCommandIndices size = %d, want 20", size)
	}

	// field offsets are part of the device contract
	var plain DrawCommandNoIndices
	offsets := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Count", unsafe.Offsetof(plain.Count), 0},
		{"InstanceCount", unsafe.Offsetof(plain.InstanceCount), 4},
		{"FirstIndex", unsafe.Offsetof(plain.FirstIndex), 8},
		{"BaseInstance", unsafe.Offsetof(plain.BaseInstance), 12},
	}
	for _, o := range offsets {
		if o.got != o.want {
			t.Errorf("DrawCommandNoIndices.%s at offset %d, want %d", o.name, o.got, o.want)
		}
	}

	var indexed DrawCommandIndices
	offsets = []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Count", unsafe.Offsetof(indexed.Count), 0},
		{"InstanceCount", unsafe.Offsetof(indexed.InstanceCount), 4},
		{"FirstIndex", unsafe.Offsetof(indexed.FirstIndex), 8},
		{"BaseVertex", unsafe.Offsetof(indexed.BaseVertex), 12},
		{"BaseInstance", unsafe.Offsetof(indexed.BaseInstance), 16},
	}
	for _, o := range offsets {
		if o.got != o.want {
			t.Errorf("DrawCommandIndices.%s at offset %d, want %d", o.name, o.got, o.want)
		}
	}
}

func TestNoIndicesBufferModes(t *testing.T) {
	tests := []struct {
		name  string
		build func(f gfx.Facade, n int) (*DrawCommandsNoIndicesBuffer, error)
		want  gfx.BufferMode
	}{
		{name: "default", build: NewNoIndicesBuffer, want: gfx.ModeDefault},
		{name: "dynamic", build: NewNoIndicesBufferDynamic, want: gfx.ModeDynamic},
		{name: "persistent", build: NewNoIndicesBufferPersistent, want: gfx.ModePersistent},
		{name: "immutable", build: NewNoIndicesBufferImmutable, want: gfx.ModeImmutable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buffer, err := tc.build(&fakeDevice{}, 4)
			if err != nil {
				t.Fatalf("build: %v", err)
			}

			defer buffer.Release()

			if buffer.Mode() != tc.want {
				t.Errorf("Mode() = %v, want %v", buffer.Mode(), tc.want)
			}
			if buffer.Len() != 4 {
				t.Errorf("Len() = %d, want 4", buffer.Len())
			}
		})
	}
}

func TestIndicesBufferModes(t *testing.T) {
	tests := []struct {
		name  string
		build func(f gfx.Facade, n int) (*DrawCommandsIndicesBuffer, error)
		want  gfx.BufferMode
	}{
		{name: "default", build: NewIndicesBuffer, want: gfx.ModeDefault},
		{name: "dynamic", build: NewIndicesBufferDynamic, want: gfx.ModeDynamic},
		{name: "persistent", build: NewIndicesBufferPersistent, want: gfx.ModePersistent},
		{name: "immutable", build: NewIndicesBufferImmutable, want: gfx.ModeImmutable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buffer, err := tc.build(&fakeDevice{}, 2)
			if err != nil {
				t.Fatalf("build: %v", err)
			}

			defer buffer.Release()

			if buffer.Mode() != tc.want {
				t.Errorf("Mode() = %v, want %v", buffer.Mode(), tc.want)
			}
		})
	}
}

func TestNoIndicesBufferRoundTrip(t *testing.T) {
	// dynamic mode so the content can be read back
	buffer, err := NewNoIndicesBufferDynamic(&fakeDevice{}, 3)
	if err != nil {
		t.Fatalf("NewNoIndicesBufferDynamic: %v", err)
	}

	defer buffer.Release()

	commands := []DrawCommandNoIndices{
		{Count: 36, InstanceCount: 1},
		{Count: 36, InstanceCount: 0, FirstIndex: 36},
		{Count: 12, InstanceCount: 4, FirstIndex: 72, BaseInstance: 2},
	}

	if err := buffer.Write(commands); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := buffer.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	for i := range commands {
		if got[i] != commands[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], commands[i])
		}
	}

	// rewrite a single record slot in place
	if err := buffer.Set(1, DrawCommandNoIndices{Count: 36, InstanceCount: 1, FirstIndex: 36}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	record, err := buffer.At(1)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if record.InstanceCount != 1 {
		t.Errorf("At(1).InstanceCount = %d after Set", record.InstanceCount)
	}
}

func TestPersistentBufferSlotRewrite(t *testing.T) {
	dev := &fakeDevice{}

	buffer, err := NewNoIndicesBufferPersistent(dev, 2)
	if err != nil {
		t.Fatalf("NewNoIndicesBufferPersistent: %v", err)
	}

	defer buffer.Release()

	if err := buffer.Set(1, DrawCommandNoIndices{Count: 6, InstanceCount: 1, FirstIndex: 6}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// slot rewrites must reach the device without mapping the buffer;
	// a mapped buffer cannot be referenced by a queue submission
	buf := dev.allocated[0]
	if buf.mapped {
		t.Error("persistent command buffer is mapped")
	}

	want := []byte{6, 0, 0, 0, 1, 0, 0, 0, 6, 0, 0, 0, 0, 0, 0, 0}
	for i, b := range want {
		if buf.data[16+i] != b {
			t.Fatalf("device byte %d = %d, want %d", 16+i, buf.data[16+i], b)
		}
	}

	// the host mirror serves reads without a device round trip
	record, err := buffer.At(1)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if record.InstanceCount != 1 {
		t.Errorf("At(1).InstanceCount = %d, want 1", record.InstanceCount)
	}
}

func TestNoIndicesBufferDeviceBytes(t *testing.T) {
	dev := &fakeDevice{}

	buffer, err := NewNoIndicesBuffer(dev, 2)
	if err != nil {
		t.Fatalf("NewNoIndicesBuffer: %v", err)
	}

	defer buffer.Release()

	err = buffer.Write([]DrawCommandNoIndices{
		{Count: 1, InstanceCount: 2, FirstIndex: 3, BaseInstance: 4},
		{Count: 5, InstanceCount: 6, FirstIndex: 7, BaseInstance: 8},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	// the device sees the records as packed little endian uint32 words
	want := []byte{
		1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0,
		5, 0, 0, 0, 6, 0, 0, 0, 7, 0, 0, 0, 8, 0, 0, 0,
	}

	got := dev.allocated[0].data
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("device byte %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestWithPrimitiveType(t *testing.T) {
	buffer, err := NewNoIndicesBuffer(&fakeDevice{}, 3)
	if err != nil {
		t.Fatalf("NewNoIndicesBuffer: %v", err)
	}

	defer buffer.Release()

	source := buffer.WithPrimitiveType(TriangleStrip)

	array, ok := source.(MultidrawArray)
	if !ok {
		t.Fatalf("source is %T, want MultidrawArray", source)
	}

	if array.Primitives != TriangleStrip {
		t.Errorf("Primitives = %v, want TriangleStrip", array.Primitives)
	}
	if array.Commands.Len != 3 {
		t.Errorf("Commands.Len = %d, want 3", array.Commands.Len)
	}
	if array.Commands.Stride != 16 {
		t.Errorf("Commands.Stride = %d, want 16", array.Commands.Stride)
	}

	// the source borrows the storage, it does not copy it
	if array.Commands.Buffer != buffer.Slice().Buffer {
		t.Error("source does not borrow the command storage")
	}
}

func TestWithIndexBuffer(t *testing.T) {
	dev := &fakeDevice{}

	commands, err := NewIndicesBuffer(dev, 1)
	if err != nil {
		t.Fatalf("NewIndicesBuffer: %v", err)
	}

	defer commands.Release()

	indices, err := NewBuffer(dev, Triangles, make([]uint16, 100))
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}

	defer indices.Release()

	source := commands.WithIndexBuffer(indices)

	elements, ok := source.(MultidrawElements)
	if !ok {
		t.Fatalf("source is %T, want MultidrawElements", source)
	}

	// index format and topology both come from the index buffer
	if elements.DataType != U16 {
		t.Errorf("DataType = %v, want U16", elements.DataType)
	}
	if elements.Primitives != Triangles {
		t.Errorf("Primitives = %v, want Triangles", elements.Primitives)
	}
	if elements.Commands.Stride != 20 {
		t.Errorf("Commands.Stride = %d, want 20", elements.Commands.Stride)
	}
	if elements.Indices.Len != 100 {
		t.Errorf("Indices.Len = %d, want 100", elements.Indices.Len)
	}
	if elements.Commands.Buffer == elements.Indices.Buffer {
		t.Error("commands and indices share a buffer")
	}
}

func TestEmptyCommandBuffer(t *testing.T) {
	buffer, err := NewNoIndicesBuffer(&fakeDevice{}, 0)
	if err != nil {
		t.Fatalf("NewNoIndicesBuffer: %v", err)
	}

	defer buffer.Release()

	if buffer.Len() != 0 {
		t.Errorf("Len() = %d, want 0", buffer.Len())
	}

	source := buffer.WithPrimitiveType(Triangles)
	if array := source.(MultidrawArray); array.Commands.Len != 0 {
		t.Errorf("Commands.Len = %d, want 0", array.Commands.Len)
	}
}

func TestCommandBufferAllocationFailure(t *testing.T) {
	cause := errors.New("out of device memory")

	_, err := NewIndicesBuffer(&fakeDevice{failWith: cause}, 1<<20)
	if err == nil {
		t.Fatal("expected an error")
	}

	var allocErr *gfx.AllocationError
	if !errors.As(err, &allocErr) {
		t.Fatalf("error %v is no *gfx.AllocationError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("error does not wrap the device failure")
	}
}

func TestCommandBufferOutOfRange(t *testing.T) {
	buffer, err := NewNoIndicesBuffer(&fakeDevice{}, 2)
	if err != nil {
		t.Fatalf("NewNoIndicesBuffer: %v", err)
	}

	defer buffer.Release()

	if err := buffer.Set(2, DrawCommandNoIndices{}); !errors.Is(err, gfx.ErrOutOfRange) {
		t.Errorf("Set(2) = %v, want ErrOutOfRange", err)
	}
	if err := buffer.Write(make([]DrawCommandNoIndices, 3)); !errors.Is(err, gfx.ErrOutOfRange) {
		t.Errorf("oversized Write = %v, want ErrOutOfRange", err)
	}
}
