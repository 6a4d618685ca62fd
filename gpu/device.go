// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device holds a logical device and its command queue.
// A Surface owns one; everything rendering to that surface
// shares it.
type Device struct {
	// Device is the logical device, negotiated from the adapter.
	Device *wgpu.Device

	// Queue is the default command queue of the device.
	Queue *wgpu.Queue
}

// deviceDescriptor returns the descriptor for making logical devices
// on the given GPU: its configured limits and name, and the
// device-lost callback routed to the OnDeviceLost hook.
func (gp *GPU) deviceDescriptor() *wgpu.DeviceDescriptor {
	return &wgpu.DeviceDescriptor{
		Label:          gp.Name,
		RequiredLimits: &wgpu.RequiredLimits{Limits: gp.Limits},
		DeviceLostCallback: func(reason wgpu.DeviceLostReason, message string) {
			if gp.OnDeviceLost != nil {
				gp.OnDeviceLost(reason, message)
				return
			}
			slog.Error("wgpu device lost", "reason", reason, "message", message)
		},
	}
}

// NewDevice negotiates a new logical Device from the given GPU,
// requesting the GPU's configured limits.
func NewDevice(gp *GPU) (*Device, error) {
	wdev, err := gp.Adapter.RequestDevice(gp.deviceDescriptor())
	if err != nil {
		return nil, errors.Log(fmt.Errorf("gpu.NewDevice: failed: %w", err))
	}
	dev := &Device{Device: wdev, Queue: wdev.GetQueue()}
	return dev, nil
}

// WaitDone blocks until all submitted work on the device is done.
func (dv *Device) WaitDone() {
	if dv.Device == nil {
		return
	}
	dv.Device.Poll(true, nil)
}

// Release waits for the device to be done and releases it
// along with its queue.
func (dv *Device) Release() {
	if dv.Device == nil {
		return
	}
	dv.Device.Poll(true, nil)
	dv.Queue.Release()
	dv.Device.Release()
	dv.Device = nil
	dv.Queue = nil
}
