package gfx

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
)

// PipelineBuilder creates the specialized render pipeline for a cache key.
type PipelineBuilder[C comparable] func(dev *wgpu.Device, conf C) (*wgpu.RenderPipeline, error)

// PipelineCache caches render pipelines by their specialization key, for
// example the target texture format or the primitive topology. Evicted
// pipelines are released.
type PipelineCache[C comparable] struct {
	device *wgpu.Device
	build  PipelineBuilder[C]
	cache  *lru.Cache[C, *wgpu.RenderPipeline]
}

func NewPipelineCache[C comparable](ctx *Context, build PipelineBuilder[C]) *PipelineCache[C] {
	cache, _ := lru.NewWithEvict[C, *wgpu.RenderPipeline](16, releasePipelineOnEviction[C])

	return &PipelineCache[C]{
		device: ctx.Device,
		build:  build,
		cache:  cache,
	}
}

func (p *PipelineCache[C]) Get(conf C) (*wgpu.RenderPipeline, error) {
	pipeline, ok := p.cache.Get(conf)
	if ok {
		return pipeline, nil
	}

	pipeline, err := p.build(p.device, conf)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	p.cache.Add(conf, pipeline)

	return pipeline, nil
}

// Release drops all cached pipelines.
func (p *PipelineCache[C]) Release() {
	p.cache.Purge()
}

func releasePipelineOnEviction[C any](_ C, pipeline *wgpu.RenderPipeline) {
	pipeline.Release()
}
