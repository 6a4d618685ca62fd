// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gui

import (
	"math"
	"sync/atomic"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
)

// charQueueSize bounds the number of characters buffered between
// frames. Input beyond this in a single frame is dropped.
const charQueueSize = 256

// charQueue is a bounded single-producer single-consumer queue of
// typed characters: the glfw char callback pushes, NewFrame drains.
type charQueue struct {
	buf        [charQueueSize]rune
	head, tail atomic.Uint64
}

// push adds a character, reporting false if the queue is full.
func (q *charQueue) push(r rune) bool {
	head := q.head.Load()
	tail := q.tail.Load()
	if head-tail >= charQueueSize {
		return false
	}
	q.buf[head%charQueueSize] = r
	q.head.Store(head + 1)
	return true
}

// pop removes the oldest character, reporting false if empty.
func (q *charQueue) pop() (rune, bool) {
	tail := q.tail.Load()
	if tail == q.head.Load() {
		return 0, false
	}
	r := q.buf[tail%charQueueSize]
	q.tail.Store(tail + 1)
	return r, true
}

// glfwButtonByIndex maps imgui mouse button indexes to glfw buttons.
var glfwButtonByIndex = [3]glfw.MouseButton{
	glfw.MouseButton1,
	glfw.MouseButton2,
	glfw.MouseButton3,
}

// installCallbacks hooks the window input callbacks into the imgui
// context. The size callback is not touched: that belongs to the
// surface owner.
func (br *Bridge) installCallbacks() {
	br.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		for i, b := range glfwButtonByIndex {
			if b == button {
				// remembered until the next frame so that clicks
				// shorter than a frame still register
				br.mouseJustPressed[i] = true
			}
		}
	})
	br.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		br.io.AddMouseWheelDelta(float32(xoff), float32(yoff))
	})
	br.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			br.io.KeyPress(int(key))
		case glfw.Release:
			br.io.KeyRelease(int(key))
		}
		// modifier state from the key codes, not the mods bitfield,
		// which is not reliable across platforms
		br.io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
		br.io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
		br.io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
		br.io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
	})
	br.window.SetCharCallback(func(w *glfw.Window, char rune) {
		br.chars.push(char)
	})
}

// setKeyMapping tells imgui which glfw key codes correspond to its
// navigation and editing keys.
func (br *Bridge) setKeyMapping() {
	keys := map[int]int{
		imgui.KeyTab:        int(glfw.KeyTab),
		imgui.KeyLeftArrow:  int(glfw.KeyLeft),
		imgui.KeyRightArrow: int(glfw.KeyRight),
		imgui.KeyUpArrow:    int(glfw.KeyUp),
		imgui.KeyDownArrow:  int(glfw.KeyDown),
		imgui.KeyPageUp:     int(glfw.KeyPageUp),
		imgui.KeyPageDown:   int(glfw.KeyPageDown),
		imgui.KeyHome:       int(glfw.KeyHome),
		imgui.KeyEnd:        int(glfw.KeyEnd),
		imgui.KeyInsert:     int(glfw.KeyInsert),
		imgui.KeyDelete:     int(glfw.KeyDelete),
		imgui.KeyBackspace:  int(glfw.KeyBackspace),
		imgui.KeySpace:      int(glfw.KeySpace),
		imgui.KeyEnter:      int(glfw.KeyEnter),
		imgui.KeyEscape:     int(glfw.KeyEscape),
		imgui.KeyA:          int(glfw.KeyA),
		imgui.KeyC:          int(glfw.KeyC),
		imgui.KeyV:          int(glfw.KeyV),
		imgui.KeyX:          int(glfw.KeyX),
		imgui.KeyY:          int(glfw.KeyY),
		imgui.KeyZ:          int(glfw.KeyZ),
	}
	for imguiKey, nativeKey := range keys {
		br.io.KeyMap(imguiKey, nativeKey)
	}
}

// NewFrame syncs the window input state into the imgui context and
// starts a new GUI frame: display size, frame delta time, mouse
// position and buttons, and any characters typed since the last
// frame. Call once at the start of each frame loop, before any
// imgui widget calls.
func (br *Bridge) NewFrame() {
	w, h := br.window.GetSize()
	br.io.SetDisplaySize(imgui.Vec2{X: float32(w), Y: float32(h)})

	now := glfw.GetTime()
	if br.time > 0 {
		br.io.SetDeltaTime(float32(now - br.time))
	} else {
		br.io.SetDeltaTime(1.0 / 60.0)
	}
	br.time = now

	if br.window.GetAttrib(glfw.Focused) != 0 {
		x, y := br.window.GetCursorPos()
		br.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	} else {
		br.io.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
	}
	for i := range glfwButtonByIndex {
		down := br.mouseJustPressed[i] ||
			br.window.GetMouseButton(glfwButtonByIndex[i]) == glfw.Press
		br.io.SetMouseButtonDown(i, down)
		br.mouseJustPressed[i] = false
	}

	for {
		char, ok := br.chars.pop()
		if !ok {
			break
		}
		br.io.AddInputCharacters(string(char))
	}

	imgui.NewFrame()
}
