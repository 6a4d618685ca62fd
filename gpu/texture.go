// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"
	"image/draw"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture represents a WebGPU Texture with an associated TextureView.
// The WebGPU Texture is in device memory, in an optimized format.
type Texture struct {
	// Name of the texture, e.g., the name of the atlas or image
	// it holds. This is helpful for debugging.
	Name string

	// Format & size of texture
	Format TextureFormat

	// WebGPU texture handle, in device memory
	texture *wgpu.Texture

	// WebGPU texture view
	view *wgpu.TextureView

	// keep track of device for uploading and destroying view
	device Device
}

func NewTexture(dev *Device) *Texture {
	tx := &Texture{}
	tx.device = *dev
	tx.Format.Defaults()
	return tx
}

// View returns the texture view, for binding.
func (tx *Texture) View() *wgpu.TextureView {
	return tx.view
}

// SetFromGoImage sets texture data from a standard Go image.
// This is most efficiently done using an image.RGBA, but other
// formats will be converted as necessary.
// This does the full WriteTexture call to upload to device.
func (tx *Texture) SetFromGoImage(img image.Image) error {
	rimg := ImageToRGBA(img)
	sz := rimg.Rect.Size()
	return tx.SetFromPixels(rimg.Pix, sz, wgpu.TextureFormatRGBA8UnormSrgb)
}

// SetFromPixels sets texture data from raw 4-byte-per-pixel data of
// the given size, in the given format, e.g., a font atlas in
// wgpu.TextureFormatRGBA8Unorm. This creates the texture and does the
// full WriteTexture call to upload to device.
func (tx *Texture) SetFromPixels(pix []byte, sz image.Point, format wgpu.TextureFormat) error {
	tx.Format.Size = sz
	tx.Format.Format = format
	tx.Format.Layers = 1

	err := tx.CreateTexture(wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst)
	if err != nil { // already logged
		return err
	}

	size := tx.Format.Extent3D()

	// https://www.w3.org/TR/webgpu/#gpuimagecopytexture
	tx.device.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  tx.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * uint32(sz.X),
			RowsPerImage: uint32(sz.Y),
		},
		&size,
	)
	return nil
}

// CreateTexture creates the texture based on current settings,
// and a view of that texture.  Calls release first.
func (tx *Texture) CreateTexture(usage wgpu.TextureUsage) error {
	tx.Release()

	sz := tx.Format.Size
	size := wgpu.Extent3D{
		Width:              uint32(sz.X),
		Height:             uint32(sz.Y),
		DepthOrArrayLayers: uint32(tx.Format.Layers),
	}
	t, err := tx.device.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         tx.Name,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   uint32(tx.Format.Samples),
		Dimension:     wgpu.TextureDimension2D,
		Format:        tx.Format.Format,
		Usage:         usage,
	})
	if errors.Log(err) != nil {
		return err
	}
	tx.texture = t
	vw, err := t.CreateView(nil)
	if errors.Log(err) != nil {
		return err
	}
	tx.view = vw
	return nil
}

// ReleaseView destroys any existing view
func (tx *Texture) ReleaseView() {
	if tx.view == nil {
		return
	}
	tx.view.Release()
	tx.view = nil
}

// Release destroys the view and frees the device memory
// version of the texture.
func (tx *Texture) Release() {
	tx.ReleaseView()
	if tx.texture == nil {
		return
	}
	tx.texture.Release()
	tx.texture = nil
}

// ImageToRGBA returns image as an image.RGBA, converting if necessary.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rimg, ok := img.(*image.RGBA); ok {
		return rimg
	}
	rimg := image.NewRGBA(img.Bounds())
	draw.Draw(rimg, rimg.Bounds(), img, img.Bounds().Min, draw.Src)
	return rimg
}

// NewSampler returns a standard linear-filtering sampler with
// clamp-to-edge addressing, e.g., for sampling a font atlas.
func NewSampler(dev *Device, label string) (*wgpu.Sampler, error) {
	samp, err := dev.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	return samp, nil
}
