// This file is part of bfvm - https://github.com/db47h/bfvm
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

// DefaultTapeSize is the initial tape length of a new Instance.
const DefaultTapeSize = 256

// Tape is the VM memory: a growable sequence of byte cells.
//
// Accesses past the end of the tape never fail: the tape grows to fit the
// accessed position and the new cells are zero filled. A Tape never shrinks
// unless explicitly resized. Cell arithmetic wraps around modulo 256.
type Tape struct {
	cells []byte
}

// NewTape returns a zero filled tape of the given length.
func NewTape(size int) *Tape {
	return &Tape{make([]byte, size)}
}

// Len returns the current tape length.
func (t *Tape) Len() int {
	return len(t.cells)
}

// grow grows the tape so that k is a valid position.
func (t *Tape) grow(k int) {
	if k >= len(t.cells) {
		t.cells = append(t.cells, make([]byte, k+1-len(t.cells))...)
	}
}

// Get returns the value of cell k.
func (t *Tape) Get(k int) byte {
	t.grow(k)
	return t.cells[k]
}

// Set sets the value of cell k.
func (t *Tape) Set(k int, v byte) {
	t.grow(k)
	t.cells[k] = v
}

// Inc increments cell k and returns its new value.
func (t *Tape) Inc(k int) byte {
	t.grow(k)
	t.cells[k]++
	return t.cells[k]
}

// Dec decrements cell k and returns its new value.
func (t *Tape) Dec(k int) byte {
	t.grow(k)
	t.cells[k]--
	return t.cells[k]
}

// Reset sets all cells to 0. The tape length is unchanged.
func (t *Tape) Reset() {
	clear(t.cells)
}

// Resize sets the tape length to size. Cells past size are dropped and new
// cells are zero filled.
func (t *Tape) Resize(size int) {
	if size <= len(t.cells) {
		t.cells = t.cells[:size]
		return
	}
	t.grow(size - 1)
}

// Bytes returns a copy of the tape cells.
func (t *Tape) Bytes() []byte {
	return append([]byte(nil), t.cells...)
}
