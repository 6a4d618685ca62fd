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

// Debug turns on extra logging of device negotiation, surface
// reconfiguration, and frame acquisition failures.
var Debug = false

var theInstance *wgpu.Instance

// Instance returns the global wgpu.Instance, creating it on first call.
// There is only ever one instance per process.
func Instance() *wgpu.Instance {
	if theInstance == nil {
		theInstance = wgpu.CreateInstance(nil)
	}
	return theInstance
}

// GPU represents the physical GPU hardware: the WebGPU adapter
// selected for rendering, and the limits requested of devices made
// from it. There is one GPU per application; each Surface makes its
// own logical Device from it.
type GPU struct {
	// Instance is the global WebGPU instance.
	Instance *wgpu.Instance

	// Adapter is the selected adapter (physical GPU).
	Adapter *wgpu.Adapter

	// Limits are requested for each logical device.
	// Set to the WebGPU defaults in Config; can be raised before
	// creating devices if a pipeline needs more.
	Limits wgpu.Limits

	// Name of the application, used as a label on devices.
	Name string

	// OnUncapturedError is called for device errors with no other
	// handler, e.g., repeated surface acquisition failure.
	// The default logs via slog.Error.
	OnUncapturedError func(err error)

	// OnDeviceLost is called with the driver's reason and message
	// when a logical device made from this GPU is lost. Device loss
	// is fatal: it is logged, not recovered from.
	// The default logs via slog.Error.
	OnDeviceLost func(reason wgpu.DeviceLostReason, message string)
}

// NewGPU returns a new GPU with the global instance and a selected
// adapter, compatible with the given surface. Surface can be nil for
// headless use. Config must be called before use.
func NewGPU(sf *wgpu.Surface) (*GPU, error) {
	gp := &GPU{}
	if err := gp.init(sf); err != nil {
		return nil, err
	}
	return gp, nil
}

func (gp *GPU) init(sf *wgpu.Surface) error {
	gp.Instance = Instance()
	gp.OnUncapturedError = func(err error) {
		slog.Error("wgpu uncaptured error", "err", err)
	}
	gp.OnDeviceLost = func(reason wgpu.DeviceLostReason, message string) {
		slog.Error("wgpu device lost", "reason", reason, "message", message)
	}
	opts := &wgpu.RequestAdapterOptions{
		CompatibleSurface: sf,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	}
	ad, err := gp.Instance.RequestAdapter(opts)
	if err != nil {
		return errors.Log(fmt.Errorf("gpu.GPU: no WebGPU adapter available: %w", err))
	}
	gp.Adapter = ad
	return nil
}

// Config configures the GPU with the given application name,
// setting the default device limits. Returns the GPU for chaining.
func (gp *GPU) Config(name string) *GPU {
	gp.Name = name
	gp.Limits = wgpu.DefaultLimits()
	if Debug {
		slog.Info("gpu.GPU configured", "app", name)
	}
	return gp
}

// NewDevice returns a new logical Device for this GPU.
// It is the caller's responsibility to Release it when done.
func (gp *GPU) NewDevice() (*Device, error) {
	return NewDevice(gp)
}

// Release releases the adapter resources.
// Call after all associated Devices and Surfaces have been released.
func (gp *GPU) Release() {
	if gp.Adapter != nil {
		gp.Adapter.Release()
		gp.Adapter = nil
	}
}
