// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// Shader manages a single WGSL shader module.
// A single shader can have multiple entry points: see ShaderEntry.
type Shader struct {
	// Name of shader, which should be the filename without extension.
	Name string

	module *wgpu.ShaderModule
	device Device
}

// NewShader returns a new Shader with given name for given device.
func NewShader(name string, dev *Device) *Shader {
	sh := &Shader{Name: name}
	sh.device = *dev
	return sh
}

// OpenFile loads WGSL shader code from the given file
// and compiles it into a module.
func (sh *Shader) OpenFile(fname string) error {
	b, err := os.ReadFile(fname)
	if errors.Log(err) != nil {
		return err
	}
	return sh.OpenCode(string(b))
}

// OpenFileFS loads WGSL shader code from the given file in the given
// filesystem, e.g., an embed.FS, processing any #include statements,
// and compiles it into a module.
func (sh *Shader) OpenFileFS(fsys fs.FS, fname string) error {
	b, err := fs.ReadFile(fsys, fname)
	if errors.Log(err) != nil {
		return err
	}
	code := IncludeFS(fsys, filepath.Dir(fname), string(b))
	return sh.OpenCode(code)
}

// OpenCode compiles the given WGSL shader code into a module.
// The code is first checked with the naga front end, which produces
// much better error messages than the driver does, and catches
// malformed shaders before they reach the device.
func (sh *Shader) OpenCode(code string) error {
	if err := ValidateWGSL(sh.Name, code); err != nil {
		return errors.Log(err)
	}
	module, err := sh.device.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: sh.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: code,
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	sh.module = module
	return nil
}

// Release releases the shader module.
func (sh *Shader) Release() {
	if sh.module == nil {
		return
	}
	sh.module.Release()
	sh.module = nil
}

// ValidateWGSL parses and lowers the given WGSL source,
// returning an error describing the first problem found.
func ValidateWGSL(name, code string) error {
	ast, err := naga.Parse(code)
	if err != nil {
		return fmt.Errorf("gpu.Shader %s: WGSL parse error: %w", name, err)
	}
	if _, err := naga.Lower(ast); err != nil {
		return fmt.Errorf("gpu.Shader %s: WGSL validation error: %w", name, err)
	}
	return nil
}

// ShaderTypes are the different shader stages.
type ShaderTypes int32

const (
	UnknownShader ShaderTypes = iota
	VertexShader
	FragmentShader
	ComputeShader
)

// ShaderEntry is an entry point into a Shader, for a specific stage.
type ShaderEntry struct {
	// Shader has the code
	Shader *Shader

	// Type is the stage of this entry point.
	Type ShaderTypes

	// Entry is the name of the function to call for this entry.
	Entry string
}

// NewShaderEntry returns a new ShaderEntry for given shader,
// stage and entry function name.
func NewShaderEntry(sh *Shader, typ ShaderTypes, entry string) *ShaderEntry {
	return &ShaderEntry{Shader: sh, Type: typ, Entry: entry}
}
