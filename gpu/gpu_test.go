// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestMemSizeAlign(t *testing.T) {
	assert.Equal(t, 16, MemSizeAlign(12, 16))
	assert.Equal(t, 16, MemSizeAlign(16, 16))
	assert.Equal(t, 32, MemSizeAlign(17, 16))
	assert.Equal(t, 0, MemSizeAlign(0, 4))

	// the 4-byte copy alignment cases: aligned sizes are unchanged,
	// everything else rounds up to the next multiple
	for size := 0; size <= 64; size++ {
		asz := MemSizeAlign(size, CopyBufferAlign)
		assert.GreaterOrEqual(t, asz, size)
		assert.Less(t, asz-size, CopyBufferAlign)
		assert.Equal(t, 0, asz%CopyBufferAlign)
	}
}

func TestTextureFormat(t *testing.T) {
	fm := NewTextureFormat(800, 600, 1)
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, fm.Format)
	assert.True(t, fm.IsStdRGBA())
	assert.Equal(t, 4, fm.BytesPerPixel())
	assert.Equal(t, 4*800, fm.Stride())
	assert.Equal(t, image.Rect(0, 0, 800, 600), fm.Bounds())
	w, h := fm.Size32()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
}

func TestTypes(t *testing.T) {
	assert.Equal(t, wgpu.VertexFormatFloat32x2, Float32Vector2.VertexFormat())
	assert.Equal(t, wgpu.VertexFormatUnorm8x4, Unorm8Vector4.VertexFormat())
	assert.Equal(t, wgpu.IndexFormatUint16, Uint16.IndexType())
	assert.Equal(t, wgpu.IndexFormatUint32, Uint32.IndexType())
	assert.Equal(t, 8, Float32Vector2.Bytes())
	assert.Equal(t, 4, Unorm8Vector4.Bytes())
}

const validShader = `
@vertex
fn vs_main(@builtin(vertex_index) ix: u32) -> @builtin(position) vec4<f32> {
	let x = f32(i32(ix) - 1);
	let y = f32(i32(ix & 1u) * 2 - 1);
	return vec4<f32>(x, y, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func TestValidateWGSL(t *testing.T) {
	assert.NoError(t, ValidateWGSL("valid", validShader))
	assert.Error(t, ValidateWGSL("invalid", "@vertex fn vs_main( -> {"))
}

func TestIncludeFS(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/common.wgsl": &fstest.MapFile{Data: []byte("const pi = 3.14159;")},
		"shaders/main.wgsl":   &fstest.MapFile{Data: []byte("#include \"common.wgsl\"\nfn area(r: f32) -> f32 { return pi * r * r; }")},
	}
	b, err := fsys.ReadFile("shaders/main.wgsl")
	assert.NoError(t, err)
	code := IncludeFS(fsys, "shaders", string(b))
	assert.Contains(t, code, "const pi")
	assert.Contains(t, code, "fn area")
	// the include line itself is kept, commented out
	assert.Contains(t, code, `// #include "common.wgsl"`)
	assert.Equal(t, 1, strings.Count(code, "const pi"))
}

func TestDeviceDescriptor(t *testing.T) {
	gp := &GPU{Name: "test"}
	gp.Limits = wgpu.DefaultLimits()

	var gotReason wgpu.DeviceLostReason
	var gotMessage string
	gp.OnDeviceLost = func(reason wgpu.DeviceLostReason, message string) {
		gotReason = reason
		gotMessage = message
	}
	desc := gp.deviceDescriptor()
	assert.Equal(t, "test", desc.Label)
	assert.NotNil(t, desc.RequiredLimits)
	assert.NotNil(t, desc.DeviceLostCallback)

	desc.DeviceLostCallback(wgpu.DeviceLostReasonDestroyed, "device destroyed")
	assert.Equal(t, wgpu.DeviceLostReasonDestroyed, gotReason)
	assert.Equal(t, "device destroyed", gotMessage)

	// without a hook the callback logs instead; it must not panic
	gp.OnDeviceLost = nil
	assert.NotPanics(t, func() {
		gp.deviceDescriptor().DeviceLostCallback(wgpu.DeviceLostReasonUnknown, "gone")
	})
}

func TestSurfaceSetSize(t *testing.T) {
	sf := &Surface{}
	sf.Format.Defaults()
	sf.Format.Size = image.Point{800, 600}

	sf.SetSize(image.Point{800, 600})
	assert.False(t, sf.needsConfig)

	sf.SetSize(image.Point{1024, 768})
	assert.Equal(t, image.Point{1024, 768}, sf.Format.Size)
	assert.True(t, sf.needsConfig)
}

func TestGPUSurface(t *testing.T) {
	t.Skip("Need software GPU on CI")
	window, wsurf, terminate, _, err := GLFWCreateWindow(image.Point{640, 480}, "test", nil)
	assert.NoError(t, err)
	_ = window
	gp, err := NewGPU(wsurf)
	assert.NoError(t, err)
	gp.Config("test")
	sf, err := NewSurface(gp, wsurf, image.Point{640, 480})
	assert.NoError(t, err)

	view, err := sf.AcquireNextTexture()
	assert.NoError(t, err)
	assert.NotNil(t, view)
	sf.Present()

	// after a resize, the next acquire comes from a swapchain
	// configured at the new size
	sf.SetSize(image.Point{1024, 768})
	view, err = sf.AcquireNextTexture()
	assert.NoError(t, err)
	assert.NotNil(t, view)
	assert.Equal(t, image.Point{1024, 768}, sf.Format.Size)
	assert.False(t, sf.needsConfig)
	sf.Present()

	sf.Release()
	gp.Release()
	terminate()
}
