// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gui bridges Dear ImGui to a WebGPU surface: it feeds window
// input into the imgui context each frame, and translates the
// rendered imgui draw data into GPU buffers and draw commands.
package gui

import (
	"embed"
	"image"
	"unsafe"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/ScottKane/ImGuiWebGPU/gpu"
)

//go:embed gui.wgsl
var shaders embed.FS

// fontTextureID is the TextureID assigned to the font atlas.
// Only one texture is bound; all GUI draw commands sample it.
const fontTextureID = 1

// transform is the uniform block for the vertex shader, mapping
// GUI pixel coordinates to clip space.
type transform struct {
	Scale  [2]float32
	Offset [2]float32
}

// Bridge owns an imgui context and everything needed to render its
// output onto a gpu.Surface: the GUI pipeline, font atlas texture,
// transform uniform, and the input plumbing from the glfw window.
// Call NewFrame at the start of each frame, build the GUI with imgui
// calls, then Render and, after submitting, EndFrame.
type Bridge struct {
	// Surface we render the GUI onto.
	Surface *gpu.Surface

	ctx    *imgui.Context
	io     imgui.IO
	window *glfw.Window

	pipeline  *gpu.GraphicsPipeline
	render    *gpu.Render
	fontTex   *gpu.Texture
	sampler   *wgpu.Sampler
	uniform   *wgpu.Buffer
	layout    *wgpu.BindGroupLayout
	bindGroup *wgpu.BindGroup

	// frameBuffers are the vertex and index buffers of the frame in
	// flight, released in EndFrame once the commands are submitted.
	frameBuffers []*wgpu.Buffer

	chars            charQueue
	mouseJustPressed [3]bool
	time             float64
}

// NewBridge returns a new Bridge rendering an imgui context onto the
// given surface, with input taken from the given window. Installs
// mouse, scroll, key and character callbacks on the window; the
// window's size callback is left alone.
func NewBridge(sf *gpu.Surface, window *glfw.Window) (*Bridge, error) {
	br := &Bridge{Surface: sf, window: window}
	br.ctx = imgui.CreateContext(nil)
	br.io = imgui.CurrentIO()
	br.setKeyMapping()
	br.installCallbacks()
	br.render = &gpu.Render{}
	if err := br.configPipeline(); err != nil {
		br.Release()
		return nil, err
	}
	if err := br.configFontAtlas(); err != nil {
		br.Release()
		return nil, err
	}
	return br, nil
}

// configPipeline builds the GUI render pipeline: alpha-blended
// triangles in the imgui vertex format, with the transform uniform,
// font atlas texture and sampler in bind group 0.
func (br *Bridge) configPipeline() error {
	dev := br.Surface.Device

	ub, err := dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "gui transform",
		Size:  uint64(unsafe.Sizeof(transform{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return err
	}
	br.uniform = ub

	bgl, err := dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "gui",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	br.layout = bgl

	pl := gpu.NewGraphicsPipeline("gui", br.Surface)
	pl.SetAlphaBlend(true)
	sh := pl.AddShader("gui")
	if err := sh.OpenFileFS(shaders, "gui.wgsl"); err != nil {
		return err
	}
	pl.AddEntry(sh, gpu.VertexShader, "vs_main")
	pl.AddEntry(sh, gpu.FragmentShader, "fs_main")

	vertSize, posOff, uvOff, colOff := imgui.VertexBufferLayout()
	pl.SetVertexLayout(wgpu.VertexBufferLayout{
		ArrayStride: uint64(vertSize),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: gpu.Float32Vector2.VertexFormat(), Offset: uint64(posOff), ShaderLocation: 0},
			{Format: gpu.Float32Vector2.VertexFormat(), Offset: uint64(uvOff), ShaderLocation: 1},
			{Format: gpu.Unorm8Vector4.VertexFormat(), Offset: uint64(colOff), ShaderLocation: 2},
		},
	})
	pl.SetBindGroupLayouts(bgl)
	if err := pl.Config(false); err != nil {
		return err
	}
	br.pipeline = pl
	return nil
}

// configFontAtlas uploads the imgui font atlas to a device texture
// and builds the bind group referencing it.
func (br *Bridge) configFontAtlas() error {
	dev := br.Surface.Device
	img := br.io.Fonts().TextureDataRGBA32()
	pix := unsafe.Slice((*byte)(img.Pixels), img.Width*img.Height*4)

	tx := gpu.NewTexture(dev)
	tx.Name = "gui font atlas"
	sz := image.Point{X: img.Width, Y: img.Height}
	if err := tx.SetFromPixels(pix, sz, wgpu.TextureFormatRGBA8Unorm); err != nil {
		return err
	}
	br.fontTex = tx
	br.io.Fonts().SetTextureID(imgui.TextureID(fontTextureID))

	samp, err := gpu.NewSampler(dev, "gui sampler")
	if err != nil {
		return err
	}
	br.sampler = samp

	bg, err := dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "gui",
		Layout: br.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: br.uniform, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: tx.View()},
			{Binding: 2, Sampler: samp},
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	br.bindGroup = bg
	return nil
}

// EndFrame releases the vertex and index buffers of the frame whose
// commands have been submitted. Call after Surface.SubmitRender.
func (br *Bridge) EndFrame() {
	for _, b := range br.frameBuffers {
		b.Release()
	}
	br.frameBuffers = nil
}

// Release releases all GPU resources and destroys the imgui context.
// The surface itself is not released.
func (br *Bridge) Release() {
	br.EndFrame()
	if br.bindGroup != nil {
		br.bindGroup.Release()
		br.bindGroup = nil
	}
	if br.sampler != nil {
		br.sampler.Release()
		br.sampler = nil
	}
	if br.fontTex != nil {
		br.fontTex.Release()
		br.fontTex = nil
	}
	if br.pipeline != nil {
		br.pipeline.Release()
		br.pipeline = nil
	}
	if br.layout != nil {
		br.layout.Release()
		br.layout = nil
	}
	if br.uniform != nil {
		br.uniform.Release()
		br.uniform = nil
	}
	if br.ctx != nil {
		br.ctx.Destroy()
		br.ctx = nil
	}
}
