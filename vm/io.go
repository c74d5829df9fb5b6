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

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrInputClosed is returned when writing to a closed InputQueue.
var ErrInputClosed = errors.New("input queue closed")

// EOFMode selects what the , instruction does when the input queue is closed
// and empty.
type EOFMode int

// EOF modes.
const (
	EOFUnchanged EOFMode = iota // leave the current cell as is
	EOFZero                     // set the current cell to 0
	EOFMax                      // set the current cell to 255
)

var eofModes = [...]string{"unchanged", "zero", "max"}

func (m EOFMode) String() string {
	if m >= 0 && int(m) < len(eofModes) {
		return eofModes[m]
	}
	return "EOFMode(" + strconv.Itoa(int(m)) + ")"
}

// ParseEOFMode returns the EOFMode with the given name ("unchanged", "zero" or
// "max").
func ParseEOFMode(s string) (EOFMode, error) {
	for k, v := range eofModes {
		if strings.EqualFold(s, v) {
			return EOFMode(k), nil
		}
	}
	return EOFUnchanged, errors.Errorf("unknown EOF mode %q", s)
}

func (m EOFMode) apply(v byte) byte {
	switch m {
	case EOFZero:
		return 0
	case EOFMax:
		return 0xff
	}
	return v
}

// InputQueue is the FIFO of bytes consumed by the , instruction. It is safe
// for concurrent use: the UI side feeds it while the VM consumes it.
//
// InputQueue implements io.Writer, io.ByteWriter, io.StringWriter and
// io.ReaderFrom, so it can be fed with io.Copy or fmt.Fprint.
type InputQueue struct {
	mu     sync.Mutex
	buf    []byte
	closed bool
	ready  chan struct{}
}

func newInputQueue() *InputQueue {
	return &InputQueue{ready: make(chan struct{}, 1)}
}

// notify wakes up a VM waiting for input. It never blocks.
func (q *InputQueue) notify() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Write appends p to the queue.
func (q *InputQueue) Write(p []byte) (int, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0, ErrInputClosed
	}
	q.buf = append(q.buf, p...)
	q.mu.Unlock()
	q.notify()
	return len(p), nil
}

// WriteByte appends c to the queue.
func (q *InputQueue) WriteByte(c byte) error {
	_, err := q.Write([]byte{c})
	return err
}

// WriteString appends s to the queue.
func (q *InputQueue) WriteString(s string) (int, error) {
	return q.Write([]byte(s))
}

// ReadFrom feeds the queue with data read from r until EOF or error. Data is
// made available to the VM as soon as it is read, which makes it suitable for
// interactive input. A nil error is returned on EOF. ReadFrom does not close
// the queue.
func (q *InputQueue) ReadFrom(r io.Reader) (n int64, err error) {
	var b [512]byte
	for {
		m, rerr := r.Read(b[:])
		if m > 0 {
			if _, err = q.Write(b[:m]); err != nil {
				return n, err
			}
			n += int64(m)
		}
		if rerr != nil {
			if rerr == io.EOF {
				return n, nil
			}
			return n, errors.Wrap(rerr, "input read failed")
		}
	}
}

// Close marks the end of input. Pending bytes can still be consumed.
func (q *InputQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notify()
	return nil
}

// Closed returns true if Close has been called.
func (q *InputQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of pending bytes.
func (q *InputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Reset drops any pending bytes and re-opens the queue.
func (q *InputQueue) Reset() {
	q.mu.Lock()
	q.buf = nil
	q.closed = false
	q.mu.Unlock()
	q.notify()
}

// pop removes the next byte from the queue. If the queue is empty, ok is false
// and eof reports whether it has been closed.
func (q *InputQueue) pop() (c byte, ok bool, eof bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return 0, false, q.closed
	}
	c = q.buf[0]
	q.buf = q.buf[1:]
	if len(q.buf) == 0 {
		q.buf = nil
	}
	return c, true, false
}

type flusher interface {
	Flush() error
}

// writeByte writes c to w, using WriteByte if w implements io.ByteWriter.
func writeByte(w io.Writer, c byte) error {
	if bw, ok := w.(io.ByteWriter); ok {
		return bw.WriteByte(c)
	}
	_, err := w.Write([]byte{c})
	return err
}
