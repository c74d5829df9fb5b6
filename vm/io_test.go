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

package vm_test

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/db47h/bfvm/vm"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
)

func TestInputQueue(t *testing.T) {
	i, err := vm.New(",.,.,.,.", vm.Input([]byte("a")), vm.EOF(vm.EOFZero))
	assert.NoError(t, err)
	q := i.Input()
	assert.NoError(t, q.WriteByte('b'))
	_, err = fmt.Fprint(q, "c")
	assert.NoError(t, err)
	assert.Equal(t, 3, q.Len())
	assert.False(t, q.Closed())

	assert.NoError(t, q.Close())
	assert.True(t, q.Closed())
	_, err = q.Write([]byte("d"))
	assert.Equal(t, vm.ErrInputClosed, err)
	// pending bytes are still consumed after Close
	assert.Equal(t, 3, q.Len())

	assert.NoError(t, i.Start())
	i.Wait()
	assert.Equal(t, "abc\x00", string(i.Output()))
	assert.Equal(t, 0, q.Len())

	q.Reset()
	assert.False(t, q.Closed())
	assert.NoError(t, i.Feed([]byte("xy")))
	q.Reset()
	assert.Equal(t, 0, q.Len())
}

type errReader struct{ io.Reader }

var errRead = errors.New("read error")

func (r errReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	if err == io.EOF {
		return n, errRead
	}
	return n, err
}

func TestInputQueue_ReadFrom(t *testing.T) {
	i, err := vm.New(",.")
	assert.NoError(t, err)
	q := i.Input()

	data := bytes.Repeat([]byte("0123456789"), 200)
	n, err := q.ReadFrom(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, len(data), q.Len())

	n, err = q.ReadFrom(errReader{strings.NewReader("abc")})
	assert.Equal(t, int64(3), n)
	assert.True(t, errors.Cause(err) == errRead)
	assert.Equal(t, len(data)+3, q.Len())

	assert.NoError(t, q.Close())
	n, err = q.ReadFrom(strings.NewReader("abc"))
	assert.Equal(t, int64(0), n)
	assert.Equal(t, vm.ErrInputClosed, err)
}

func TestParseEOFMode(t *testing.T) {
	for _, m := range []vm.EOFMode{vm.EOFUnchanged, vm.EOFZero, vm.EOFMax} {
		p, err := vm.ParseEOFMode(m.String())
		assert.NoError(t, err)
		assert.Equal(t, m, p)
	}
	p, err := vm.ParseEOFMode("MAX")
	assert.NoError(t, err)
	assert.Equal(t, vm.EOFMax, p)
	_, err = vm.ParseEOFMode("-1")
	assert.ErrorContains(t, err, "unknown EOF mode")
	assert.Equal(t, "EOFMode(7)", vm.EOFMode(7).String())
}
