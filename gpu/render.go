// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image/color"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/colors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Render manages the color attachment settings for render passes
// on a surface texture view.
type Render struct {
	// ClearColor is the color to clear the frame to at the start
	// of a clearing render pass.
	ClearColor color.Color
}

// NewRender returns a new Render clearing to the given color.
func NewRender(clear color.Color) *Render {
	return &Render{ClearColor: clear}
}

// ClearRenderPass returns a render pass descriptor that clears the framebuffer
func (rd *Render) ClearRenderPass(view *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	r, g, b, a := colors.ToFloat32(rd.ClearColor)
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:   view,
			LoadOp: wgpu.LoadOpClear,
			ClearValue: wgpu.Color{
				R: float64(r),
				G: float64(g),
				B: float64(b),
				A: float64(a),
			},
			StoreOp: wgpu.StoreOpStore,
		}},
	}
}

// LoadRenderPass returns a render pass descriptor that loads previous framebuffer
func (rd *Render) LoadRenderPass(view *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}},
	}
}

// BeginRenderPass adds commands to the given command encoder
// to start a render pass on the given texture view.
// Clears the frame first, according to ClearColor.
// See BeginRenderPassNoClear for the non-clearing version.
func (rd *Render) BeginRenderPass(cmd *wgpu.CommandEncoder, view *wgpu.TextureView) *wgpu.RenderPassEncoder {
	return cmd.BeginRenderPass(rd.ClearRenderPass(view))
}

// BeginRenderPassNoClear adds commands to the given command encoder
// to start a render pass on the given texture view,
// loading the prior contents rather than clearing, so that
// the pass composites over what was already rendered.
func (rd *Render) BeginRenderPassNoClear(cmd *wgpu.CommandEncoder, view *wgpu.TextureView) *wgpu.RenderPassEncoder {
	return cmd.BeginRenderPass(rd.LoadRenderPass(view))
}

// NewCommandEncoder returns a new CommandEncoder for encoding
// rendering commands to this surface's device.
func (sf *Surface) NewCommandEncoder() (*wgpu.CommandEncoder, error) {
	cmd, err := sf.Device.Device.CreateCommandEncoder(nil)
	if errors.Log(err) != nil {
		return nil, err
	}
	return cmd, nil
}
