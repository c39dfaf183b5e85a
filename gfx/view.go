package gfx

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// View keeps the surface of a Context configured for presentation.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration
}

func NewView(ctx *Context) *View {
	caps := ctx.Surface.GetCapabilities(ctx.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	return &View{
		Context: ctx,

		surfaceConfig: &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      wgpu.TextureFormatBGRA8Unorm,
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   caps.AlphaModes[0],
		},
	}
}

// Format is the texture format render pipelines must target.
func (vs *View) Format() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

// Configure must be called before the first frame and after every resize.
func (vs *View) Configure(width, height uint32) {
	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height
	vs.Surface.Configure(vs.Adapter, vs.Device, vs.surfaceConfig)
}

// Frame acquires the next surface texture and a render view onto it. The
// caller presents the surface and releases both when done.
func (vs *View) Frame() (*wgpu.Texture, *wgpu.TextureView, error) {
	surface, err := vs.Surface.GetCurrentTexture()
	if err != nil {
		return nil, nil, fmt.Errorf("acquire surface texture: %w", err)
	}

	view, err := surface.CreateView(nil)
	if err != nil {
		surface.Release()
		return nil, nil, fmt.Errorf("create surface view: %w", err)
	}

	return surface, view, nil
}
