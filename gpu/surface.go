// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoTexture is returned by AcquireNextTexture when the surface
// could not provide a texture even after reconfiguring. The frame
// should be skipped; the next frame will try again.
var ErrNoTexture = errors.New("gpu.Surface: unable to acquire surface texture")

// Surface manages the swapchain of textures for presenting rendered
// frames to a window surface. It owns the logical Device used for
// all rendering to the window.
type Surface struct {
	// GPU is the adapter this surface renders with.
	GPU *GPU

	// Device is the logical device for this surface, owned by it.
	Device *Device

	// Format has the current size and texture format of the surface.
	Format TextureFormat

	// surface is the underlying WebGPU handle to the window surface.
	surface *wgpu.Surface

	// alphaMode is selected from the surface capabilities at config.
	alphaMode wgpu.CompositeAlphaMode

	// current holds the acquired texture between acquire and present.
	curTexture *wgpu.Texture
	curView    *wgpu.TextureView

	// needsConfig is set when the size has changed and the
	// swapchain must be reconfigured before the next acquire.
	needsConfig bool

	// sync guards size changes against frame rendering, which can
	// be on different goroutines.
	sync.Mutex
}

// NewSurface returns a new Surface for the given window surface handle
// and initial size, making a new logical Device on the given GPU and
// configuring the swapchain in FIFO (vsync) present mode.
func NewSurface(gp *GPU, wsurf *wgpu.Surface, size image.Point) (*Surface, error) {
	sf := &Surface{GPU: gp, surface: wsurf}
	sf.Format.Defaults()
	sf.Format.Size = size
	dev, err := NewDevice(gp)
	if err != nil {
		return nil, err
	}
	sf.Device = dev
	sf.configSwapchain()
	return sf, nil
}

// configSwapchain configures the swapchain for the current size and
// the first format the surface reports as supported.
func (sf *Surface) configSwapchain() {
	caps := sf.surface.GetCapabilities(sf.GPU.Adapter)
	sf.Format.Format = caps.Formats[0]
	sf.alphaMode = caps.AlphaModes[0]
	w, h := sf.Format.Size32()
	sf.surface.Configure(sf.GPU.Adapter, sf.Device.Device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      sf.Format.Format,
		Width:       w,
		Height:      h,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   sf.alphaMode,
	})
	sf.needsConfig = false
	if Debug {
		slog.Info("gpu.Surface swapchain configured", "size", sf.Format.Size,
			"format", sf.Format.Format)
	}
}

// SetSize records a new surface size, from a window resize callback.
// The swapchain is reconfigured lazily at the start of the next frame;
// a zero size (minimized window) is recorded but not configured.
func (sf *Surface) SetSize(size image.Point) {
	sf.Lock()
	defer sf.Unlock()
	if size == sf.Format.Size {
		return
	}
	sf.Format.Size = size
	sf.needsConfig = true
}

// Resized is a synonym for SetSize, for resize callbacks.
func (sf *Surface) Resized(size image.Point) {
	sf.SetSize(size)
}

// AcquireNextTexture acquires the next swapchain texture and returns
// a view of it for rendering. If the surface is out of date, it is
// reconfigured at the current size and acquisition is retried once;
// if that also fails, ErrNoTexture is returned and the caller should
// skip the frame. Present must be called after rendering, which
// releases the texture and view.
func (sf *Surface) AcquireNextTexture() (*wgpu.TextureView, error) {
	sf.Lock()
	defer sf.Unlock()
	if sf.Format.Size.X == 0 || sf.Format.Size.Y == 0 {
		return nil, ErrNoTexture
	}
	if sf.needsConfig {
		sf.configSwapchain()
	}
	tx, err := sf.surface.GetCurrentTexture()
	if err != nil {
		// one retry after a fresh configure, then give up on the frame
		if Debug {
			slog.Info("gpu.Surface: reconfiguring after acquire failure", "err", err)
		}
		sf.configSwapchain()
		tx, err = sf.surface.GetCurrentTexture()
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrNoTexture, err)
			if sf.GPU.OnUncapturedError != nil {
				sf.GPU.OnUncapturedError(err)
			}
			return nil, err
		}
	}
	view, err := tx.CreateView(nil)
	if err != nil {
		tx.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoTexture, err)
	}
	sf.curTexture = tx
	sf.curView = view
	return view, nil
}

// SubmitRender finishes the given command encoder and submits the
// commands to the device queue.
func (sf *Surface) SubmitRender(cmd *wgpu.CommandEncoder) error {
	cmdBuffer, err := cmd.Finish(nil)
	if err != nil {
		return err
	}
	sf.Device.Queue.Submit(cmdBuffer)
	cmdBuffer.Release()
	return nil
}

// Present presents the texture acquired by AcquireNextTexture to the
// window, releasing the texture and its view.
func (sf *Surface) Present() {
	sf.Lock()
	defer sf.Unlock()
	if sf.curTexture == nil {
		return
	}
	sf.surface.Present()
	sf.curView.Release()
	sf.curView = nil
	sf.curTexture.Release()
	sf.curTexture = nil
}

// Release waits for the device to finish and releases the device and
// surface resources. The Surface must not be used after this.
func (sf *Surface) Release() {
	sf.Lock()
	defer sf.Unlock()
	if sf.curView != nil {
		sf.curView.Release()
		sf.curView = nil
	}
	if sf.curTexture != nil {
		sf.curTexture.Release()
		sf.curTexture = nil
	}
	if sf.Device != nil {
		sf.Device.Release()
		sf.Device = nil
	}
	if sf.surface != nil {
		sf.surface.Release()
		sf.surface = nil
	}
}
