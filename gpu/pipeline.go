// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"log"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// GraphicsPipeline manages the shaders and render state for one way
// of drawing to a Surface, e.g., the scene geometry or the GUI overlay.
// Configure with the Set* methods and AddShader / AddEntry, then call
// Config once to build the underlying render pipeline.
type GraphicsPipeline struct {
	// unique name of this pipeline
	Name string

	// Surface we render to, which supplies the device and the
	// color target format.
	Surface *Surface

	// Shaders contains actual shader code loaded for this pipeline.
	// A single shader can have multiple entry points: see Entries.
	Shaders map[string]*Shader

	// Entries contains the entry points into shader code,
	// which are what is actually called.
	Entries map[string]*ShaderEntry

	// Primitive has various settings for graphics primitives,
	// e.g., TriangleList
	Primitive wgpu.PrimitiveState

	Multisample wgpu.MultisampleState

	// Blend is the color blend state for the surface target.
	// Defaults to replace; see SetAlphaBlend.
	Blend *wgpu.BlendState

	// vertexLayouts are the per-buffer vertex attribute layouts,
	// set via SetVertexLayout.
	vertexLayouts []wgpu.VertexBufferLayout

	// bindGroupLayouts set via SetBindGroupLayouts; owned by caller.
	bindGroupLayouts []*wgpu.BindGroupLayout

	layout         *wgpu.PipelineLayout
	renderPipeline *wgpu.RenderPipeline
}

// NewGraphicsPipeline returns a new GraphicsPipeline with default
// render state, rendering to the given surface.
func NewGraphicsPipeline(name string, sf *Surface) *GraphicsPipeline {
	pl := &GraphicsPipeline{Name: name, Surface: sf}
	pl.SetGraphicsDefaults()
	return pl
}

// AddShader adds Shader with given name to the pipeline.
func (pl *GraphicsPipeline) AddShader(name string) *Shader {
	if pl.Shaders == nil {
		pl.Shaders = make(map[string]*Shader)
	}
	if sh, has := pl.Shaders[name]; has {
		log.Printf("gpu.GraphicsPipeline AddShader: Shader named: %s already exists in pipline: %s\n", name, pl.Name)
		return sh
	}
	sh := NewShader(name, pl.Surface.Device)
	pl.Shaders[name] = sh
	return sh
}

// AddEntry adds ShaderEntry for given shader, [ShaderTypes], and entry function name.
func (pl *GraphicsPipeline) AddEntry(sh *Shader, typ ShaderTypes, entry string) *ShaderEntry {
	if pl.Entries == nil {
		pl.Entries = make(map[string]*ShaderEntry)
	}
	name := sh.Name + ":" + entry
	if se, has := pl.Entries[name]; has {
		slog.Error("gpu.GraphicsPipeline AddEntry", "ShaderEntry named", name, "already exists in pipline", pl.Name)
		return se
	}
	se := NewShaderEntry(sh, typ, entry)
	pl.Entries[name] = se
	return se
}

// EntryByType returns ShaderEntry by ShaderType.
// Returns nil if not found.
func (pl *GraphicsPipeline) EntryByType(typ ShaderTypes) *ShaderEntry {
	for _, sh := range pl.Entries {
		if sh.Type == typ {
			return sh
		}
	}
	return nil
}

// VertexEntry returns the [ShaderEntry] for [VertexShader].
// Can be nil if no vertex shader defined.
func (pl *GraphicsPipeline) VertexEntry() *ShaderEntry {
	return pl.EntryByType(VertexShader)
}

// FragmentEntry returns the [ShaderEntry] for [FragmentShader].
// Can be nil if no fragment shader defined.
func (pl *GraphicsPipeline) FragmentEntry() *ShaderEntry {
	return pl.EntryByType(FragmentShader)
}

// Config builds the render pipeline once all the Set* options have
// been set and the shaders have been loaded. The rebuild flag forces
// a rebuild of an already-configured pipeline.
func (pl *GraphicsPipeline) Config(rebuild bool) error {
	if pl.renderPipeline != nil {
		if !rebuild {
			return nil
		}
		pl.ReleasePipeline() // starting over: note: requires keeping shaders around
	}
	dev := pl.Surface.Device.Device
	layout, err := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            pl.Name,
		BindGroupLayouts: pl.bindGroupLayouts,
	})
	if errors.Log(err) != nil {
		return err
	}
	pl.layout = layout
	pd := &wgpu.RenderPipelineDescriptor{
		Label:       pl.Name,
		Layout:      pl.layout,
		Primitive:   pl.Primitive,
		Multisample: pl.Multisample,
	}
	ve := pl.VertexEntry()
	if ve != nil {
		pd.Vertex = wgpu.VertexState{
			Module:     ve.Shader.module,
			EntryPoint: ve.Entry,
			Buffers:    pl.vertexLayouts,
		}
	}
	fe := pl.FragmentEntry()
	if fe != nil {
		pd.Fragment = &wgpu.FragmentState{
			Module:     fe.Shader.module,
			EntryPoint: fe.Entry,
			Targets: []wgpu.ColorTargetState{{
				Format:    pl.Surface.Format.Format,
				Blend:     pl.Blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		}
	}
	rp, err := dev.CreateRenderPipeline(pd)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	pl.renderPipeline = rp
	return nil
}

// BindPipeline binds this pipeline as the one to use for next
// commands in the given render pass, configuring it first if needed.
func (pl *GraphicsPipeline) BindPipeline(rp *wgpu.RenderPassEncoder) error {
	if pl.renderPipeline == nil {
		if err := pl.Config(false); err != nil {
			return err
		}
	}
	rp.SetPipeline(pl.renderPipeline)
	return nil
}

func (pl *GraphicsPipeline) Release() {
	pl.releaseShaders()
	pl.ReleasePipeline()
}

func (pl *GraphicsPipeline) ReleasePipeline() {
	if pl.layout != nil {
		pl.layout.Release()
		pl.layout = nil
	}
	if pl.renderPipeline != nil {
		pl.renderPipeline.Release()
		pl.renderPipeline = nil
	}
}

// releaseShaders releases the shaders
func (pl *GraphicsPipeline) releaseShaders() {
	for _, sh := range pl.Shaders {
		sh.Release()
	}
	pl.Shaders = nil
	pl.Entries = nil
}

////////////////////////////////////////////////////////////////
// Set graphics options

// SetGraphicsDefaults configures all the default settings for a
// graphics rendering pipeline.
func (pl *GraphicsPipeline) SetGraphicsDefaults() *GraphicsPipeline {
	pl.SetTopology(TriangleList, false)
	pl.SetFrontFace(wgpu.FrontFaceCCW)
	pl.SetCullMode(wgpu.CullModeNone)
	pl.SetAlphaBlend(false)
	pl.SetMultisample(1)
	return pl
}

// SetTopology sets the topology of vertex position data.
// TriangleList is the default.
func (pl *GraphicsPipeline) SetTopology(topo Topologies, restartEnable bool) *GraphicsPipeline {
	pl.Primitive.Topology = topo.Primitive()
	return pl
}

// SetFrontFace sets the winding order for what counts as a front face.
func (pl *GraphicsPipeline) SetFrontFace(face wgpu.FrontFace) *GraphicsPipeline {
	pl.Primitive.FrontFace = face
	return pl
}

// SetCullMode sets the face culling mode.
func (pl *GraphicsPipeline) SetCullMode(mode wgpu.CullMode) *GraphicsPipeline {
	pl.Primitive.CullMode = mode
	return pl
}

func (pl *GraphicsPipeline) SetMultisample(ms int) *GraphicsPipeline {
	pl.Multisample.Count = uint32(max(1, ms))
	pl.Multisample.Mask = 0xFFFFFFFF
	pl.Multisample.AlphaToCoverageEnabled = false
	return pl
}

// SetAlphaBlend sets standard premultiplied-alpha blending:
// source alpha / one-minus-source-alpha for color, and
// one / one-minus-source-alpha for alpha, which composites
// correctly over an already-rendered scene.
// false means replace: new color overwrites old.
func (pl *GraphicsPipeline) SetAlphaBlend(alphaBlend bool) *GraphicsPipeline {
	if !alphaBlend {
		pl.Blend = &wgpu.BlendStateReplace
		return pl
	}
	pl.Blend = &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
	return pl
}

// SetVertexLayout sets the vertex buffer layouts for the vertex
// shader inputs.
func (pl *GraphicsPipeline) SetVertexLayout(layouts ...wgpu.VertexBufferLayout) *GraphicsPipeline {
	pl.vertexLayouts = layouts
	return pl
}

// SetBindGroupLayouts sets the bind group layouts, in group order.
// The layouts remain owned by the caller.
func (pl *GraphicsPipeline) SetBindGroupLayouts(layouts ...*wgpu.BindGroupLayout) *GraphicsPipeline {
	pl.bindGroupLayouts = layouts
	return pl
}

// Topologies are the different vertex topology
type Topologies int32

const (
	PointList Topologies = iota
	LineList
	LineStrip
	TriangleList
	TriangleStrip
)

func (tp Topologies) Primitive() wgpu.PrimitiveTopology {
	return WebGPUTopologies[tp]
}

var WebGPUTopologies = map[Topologies]wgpu.PrimitiveTopology{
	PointList:     wgpu.PrimitiveTopologyPointList,
	LineList:      wgpu.PrimitiveTopologyLineList,
	LineStrip:     wgpu.PrimitiveTopologyLineStrip,
	TriangleList:  wgpu.PrimitiveTopologyTriangleList,
	TriangleStrip: wgpu.PrimitiveTopologyTriangleStrip,
}
