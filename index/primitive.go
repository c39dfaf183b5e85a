package index

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// PrimitiveType describes how vertices or indices are assembled into
// drawable primitives.
type PrimitiveType int

const (
	Points PrimitiveType = iota
	Lines
	LineStrip
	Triangles
	TriangleStrip
)

var topologies = map[PrimitiveType]wgpu.PrimitiveTopology{
	Points:        wgpu.PrimitiveTopologyPointList,
	Lines:         wgpu.PrimitiveTopologyLineList,
	LineStrip:     wgpu.PrimitiveTopologyLineStrip,
	Triangles:     wgpu.PrimitiveTopologyTriangleList,
	TriangleStrip: wgpu.PrimitiveTopologyTriangleStrip,
}

// Topology returns the wgpu topology for this primitive type.
func (p PrimitiveType) Topology() wgpu.PrimitiveTopology {
	return topologies[p]
}

func (p PrimitiveType) String() string {
	switch p {
	case Points:
		return "Points"
	case Lines:
		return "Lines"
	case LineStrip:
		return "LineStrip"
	case Triangles:
		return "Triangles"
	case TriangleStrip:
		return "TriangleStrip"
	default:
		return fmt.Sprintf("PrimitiveType(%d)", int(p))
	}
}
