// Copyright (c) 2025, The ImGuiWebGPU Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharQueueOrder(t *testing.T) {
	var q charQueue
	_, ok := q.pop()
	assert.False(t, ok)

	for _, r := range "hello" {
		assert.True(t, q.push(r))
	}
	var got []rune
	for {
		r, ok := q.pop()
		if !ok {
			break
		}
		got = append(got, r)
	}
	assert.Equal(t, "hello", string(got))
}

func TestCharQueueBounded(t *testing.T) {
	var q charQueue
	for i := 0; i < charQueueSize; i++ {
		assert.True(t, q.push(rune('a'+i%26)))
	}
	// full: further input is dropped, not overwritten
	assert.False(t, q.push('x'))

	r, ok := q.pop()
	assert.True(t, ok)
	assert.Equal(t, 'a', r)

	// one slot freed
	assert.True(t, q.push('x'))
	assert.False(t, q.push('y'))
}

func TestCharQueueWraps(t *testing.T) {
	var q charQueue
	// cycle more than the capacity through the queue
	for i := 0; i < charQueueSize*3; i++ {
		want := rune('a' + i%26)
		assert.True(t, q.push(want))
		r, ok := q.pop()
		assert.True(t, ok)
		assert.Equal(t, want, r)
	}
}
