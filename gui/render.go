// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gui

import (
	"unsafe"

	"cogentcore.org/core/base/errors"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/ScottKane/ImGuiWebGPU/gpu"
)

// copyLists copies each list into dst back to back, returning the
// byte offset where each list starts. dst must be at least the total
// length of the lists; any remainder is left as is.
func copyLists(dst []byte, lists [][]byte) []int {
	offsets := make([]int, len(lists))
	off := 0
	for i, ls := range lists {
		offsets[i] = off
		copy(dst[off:], ls)
		off += len(ls)
	}
	return offsets
}

// scissorRect converts an imgui clip rectangle (min x, min y, max x,
// max y) to a scissor rectangle within a framebuffer of the given
// size. The rectangle is clamped to the framebuffer, with negative
// origins clamped to zero; ok is false when the rectangle is entirely
// off screen and the draw should be skipped.
func scissorRect(clip imgui.Vec4, fbw, fbh int) (x, y, w, h uint32, ok bool) {
	minX := math32.Max(clip.X, 0)
	minY := math32.Max(clip.Y, 0)
	maxX := math32.Min(clip.Z, float32(fbw))
	maxY := math32.Min(clip.W, float32(fbh))
	if maxX <= minX || maxY <= minY {
		return 0, 0, 0, 0, false
	}
	return uint32(minX), uint32(minY), uint32(maxX - minX), uint32(maxY - minY), true
}

// Render finishes the current imgui frame and encodes the rendered
// draw data into the given command encoder, as a render pass that
// composites over the already-rendered frame in view. All draw lists
// are packed into one vertex and one index buffer, created mapped at
// creation for this frame and released in EndFrame.
func (br *Bridge) Render(cmd *wgpu.CommandEncoder, view *wgpu.TextureView) error {
	imgui.Render()
	dd := imgui.RenderedDrawData()
	lists := dd.CommandLists()

	dispW, dispH := br.window.GetSize()
	fbw, fbh := br.window.GetFramebufferSize()
	if len(lists) == 0 || fbw <= 0 || fbh <= 0 || dispW <= 0 || dispH <= 0 {
		return nil
	}
	dd.ScaleClipRects(imgui.Vec2{
		X: float32(fbw) / float32(dispW),
		Y: float32(fbh) / float32(dispH),
	})

	// map GUI pixel space, origin top left and y down, to clip space
	xf := transform{
		Scale:  [2]float32{2 / float32(dispW), -2 / float32(dispH)},
		Offset: [2]float32{-1, 1},
	}
	dev := br.Surface.Device
	if err := gpu.SetValueFrom(dev, br.uniform, []transform{xf}); err != nil {
		return err
	}

	vertSize, _, _, _ := imgui.VertexBufferLayout()
	indexSize := imgui.IndexBufferLayout()

	vtxData := make([][]byte, len(lists))
	idxData := make([][]byte, len(lists))
	totalVtx, totalIdx := 0, 0
	for i, list := range lists {
		vptr, vsz := list.VertexBuffer()
		iptr, isz := list.IndexBuffer()
		vtxData[i] = unsafe.Slice((*byte)(vptr), vsz)
		idxData[i] = unsafe.Slice((*byte)(iptr), isz)
		totalVtx += vsz
		totalIdx += isz
	}

	vbuf, vm, err := gpu.NewMappedBuffer(dev, "gui vertex", wgpu.BufferUsageVertex, totalVtx)
	if err != nil {
		return err
	}
	vtxOffsets := copyLists(vm, vtxData)
	errors.Log(vbuf.Unmap())

	ibuf, im, err := gpu.NewMappedBuffer(dev, "gui index", wgpu.BufferUsageIndex, totalIdx)
	if err != nil {
		vbuf.Release()
		return err
	}
	idxOffsets := copyLists(im, idxData)
	errors.Log(ibuf.Unmap())
	br.frameBuffers = append(br.frameBuffers, vbuf, ibuf)

	idxType := gpu.Uint32
	if indexSize == 2 {
		idxType = gpu.Uint16
	}

	rp := br.render.BeginRenderPassNoClear(cmd, view)
	if err := br.pipeline.BindPipeline(rp); err != nil {
		rp.End()
		rp.Release()
		return err
	}
	rp.SetVertexBuffer(0, vbuf, 0, wgpu.WholeSize)
	rp.SetIndexBuffer(ibuf, idxType.IndexType(), 0, wgpu.WholeSize)
	rp.SetBindGroup(0, br.bindGroup, nil)

	for i, list := range lists {
		firstIndex := idxOffsets[i] / indexSize
		baseVertex := vtxOffsets[i] / vertSize
		elemOff := 0
		for _, dc := range list.Commands() {
			if dc.HasUserCallback() {
				dc.CallUserCallback(list)
			} else {
				x, y, w, h, ok := scissorRect(dc.ClipRect(), fbw, fbh)
				if ok {
					rp.SetScissorRect(x, y, w, h)
					rp.DrawIndexed(uint32(dc.ElementCount()), 1,
						uint32(firstIndex+elemOff), int32(baseVertex), 0)
				}
			}
			elemOff += dc.ElementCount()
		}
	}
	rp.End()
	rp.Release()
	return nil
}
