// Package wsi owns the window system glue needed by the examples: a glfw
// window without a client GL context, plus the surface descriptor wgpu
// needs to render into it.
package wsi

import (
	"github.com/cogentcore/webgpu/wgpu"
)

type Window interface {
	ShouldClose() bool

	// GetSize returns the current framebuffer size in pixels.
	GetSize() (uint32, uint32)

	// SurfaceDescriptor describes this window as a wgpu render target.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Run invokes render once per frame until the window is closed or
	// render returns an error.
	Run(render func() error) error

	Terminate()
}
