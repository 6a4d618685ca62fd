// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// CopyBufferAlign is the alignment requirement, in bytes, on the
// total size of any buffer written through the mapped-at-creation
// path. Sizes are rounded up with MemSizeAlign; the padding bytes
// are left zeroed.
const CopyBufferAlign = 4

// MemSizeAlign returns the size aligned according to align byte increments
// e.g., if align = 16 and size = 12, it returns 16
func MemSizeAlign(size, align int) int {
	if size%align == 0 {
		return size
	}
	nb := size / align
	return (nb + 1) * align
}

// NewMappedBuffer returns a new buffer of the given usage, mapped at
// creation, with its size rounded up to CopyBufferAlign, along with
// the mapped byte range to copy data into. The mapped bytes are
// zeroed, so any padding beyond the data is defined. The caller must
// call Unmap on the buffer before using it in a command.
func NewMappedBuffer(dev *Device, label string, usage wgpu.BufferUsage, size int) (*wgpu.Buffer, []byte, error) {
	asz := MemSizeAlign(size, CopyBufferAlign)
	buf, err := dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(asz),
		Usage:            usage,
		MappedAtCreation: true,
	})
	if errors.Log(err) != nil {
		return nil, nil, err
	}
	bm := buf.GetMappedRange(0, uint(asz))
	return buf, bm, nil
}

// SetValueFrom writes the given values to the buffer through the
// device queue, e.g., for updating a uniform.
func SetValueFrom[E any](dev *Device, buf *wgpu.Buffer, from []E) error {
	return errors.Log(dev.Queue.WriteBuffer(buf, 0, wgpu.ToBytes(from)))
}
