// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gui

import (
	"testing"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/stretchr/testify/assert"

	"github.com/ScottKane/ImGuiWebGPU/gpu"
)

func TestShaderSource(t *testing.T) {
	b, err := shaders.ReadFile("gui.wgsl")
	assert.NoError(t, err)
	assert.NoError(t, gpu.ValidateWGSL("gui", string(b)))
}

func TestCopyLists(t *testing.T) {
	lists := [][]byte{
		{1, 2, 3},
		{4, 5},
		{},
		{6, 7, 8, 9},
	}
	total := 0
	for _, ls := range lists {
		total += len(ls)
	}
	dst := make([]byte, gpu.MemSizeAlign(total, gpu.CopyBufferAlign))
	offsets := copyLists(dst, lists)

	assert.Equal(t, []int{0, 3, 5, 5}, offsets)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, dst[:total])
	// padding beyond the data stays zeroed
	for _, b := range dst[total:] {
		assert.Equal(t, byte(0), b)
	}

	// each list lands exactly at its reported offset
	for i, ls := range lists {
		assert.Equal(t, ls, dst[offsets[i]:offsets[i]+len(ls)])
	}
}

func TestScissorRect(t *testing.T) {
	// fully inside: passed through unchanged
	x, y, w, h, ok := scissorRect(imgui.Vec4{X: 10, Y: 20, Z: 110, W: 220}, 640, 480)
	assert.True(t, ok)
	assert.Equal(t, uint32(10), x)
	assert.Equal(t, uint32(20), y)
	assert.Equal(t, uint32(100), w)
	assert.Equal(t, uint32(200), h)

	// negative origin clamps to zero, size shrinks accordingly
	x, y, w, h, ok = scissorRect(imgui.Vec4{X: -30, Y: -10, Z: 70, W: 40}, 640, 480)
	assert.True(t, ok)
	assert.Equal(t, uint32(0), x)
	assert.Equal(t, uint32(0), y)
	assert.Equal(t, uint32(70), w)
	assert.Equal(t, uint32(50), h)

	// overflowing the framebuffer clamps to its edge
	_, _, w, h, ok = scissorRect(imgui.Vec4{X: 600, Y: 400, Z: 800, W: 600}, 640, 480)
	assert.True(t, ok)
	assert.Equal(t, uint32(40), w)
	assert.Equal(t, uint32(80), h)

	// entirely off screen in any direction: skipped
	_, _, _, _, ok = scissorRect(imgui.Vec4{X: 700, Y: 10, Z: 800, W: 20}, 640, 480)
	assert.False(t, ok)
	_, _, _, _, ok = scissorRect(imgui.Vec4{X: -50, Y: -50, Z: -10, W: -10}, 640, 480)
	assert.False(t, ok)
	_, _, _, _, ok = scissorRect(imgui.Vec4{X: 10, Y: 500, Z: 20, W: 600}, 640, 480)
	assert.False(t, ok)

	// zero-area rect is skipped
	_, _, _, _, ok = scissorRect(imgui.Vec4{X: 10, Y: 10, Z: 10, W: 10}, 640, 480)
	assert.False(t, ok)
}
