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

package bf_test

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/db47h/bfvm/lang/bf"
	"github.com/db47h/bfvm/vm"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
)

func TestExec(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		input string
		opts  []vm.Option
		out   string
	}{
		{"out", "+.", "", nil, "\x01"},
		{"in", ",.", "A", nil, "A"},
		{"eofUnchanged", "+,.", "", nil, "\x01"},
		{"eofMax", "+,.", "", []vm.Option{vm.EOF(vm.EOFMax)}, "\xff"},
		{"rev", ">,[>,]<[.<]", "olleh", []vm.Option{vm.EOF(vm.EOFZero)}, "hello"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := bf.Exec(context.Background(), test.code, []byte(test.input), test.opts...)
			assert.NoError(t, err)
			assert.Equal(t, test.out, string(out))
		})
	}
}

func TestExec_errors(t *testing.T) {
	out, err := bf.Exec(context.Background(), "+.]", nil)
	assert.Equal(t, "\x01", string(out))
	assert.True(t, errors.Cause(err) == vm.ErrUnmatchedBracket)

	_, err = bf.Exec(context.Background(), "", nil)
	assert.Equal(t, vm.ErrEmptyProgram, err)

	_, err = bf.Exec(context.Background(), "+", nil, vm.TapeSize(0))
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	out, err = bf.Exec(ctx, "+[.]", nil, vm.Delay(time.Millisecond))
	assert.Equal(t, context.DeadlineExceeded, err)
	assert.NotEmpty(t, out)
}

func TestExec_options(t *testing.T) {
	opts := make([]vm.Option, 1, 4)
	opts[0] = vm.EOF(vm.EOFMax)
	out, err := bf.Exec(context.Background(), ",.", nil, opts...)
	assert.NoError(t, err)
	assert.Equal(t, "\xff", string(out))
	// spare capacity of the caller's slice is left alone
	assert.True(t, opts[:2][1] == nil)
}

func TestUsed(t *testing.T) {
	tests := []struct {
		tape string
		dp   int
		exp  string
	}{
		{"\x01\x00\x00", 0, "\x01"},
		{"\x01\x00\x00", 1, "\x01\x00"},
		{"\x00\x00\x00", 0, "\x00"},
		{"\x00\x00\x05", 0, "\x00\x00\x05"},
		{"\x00\x00\x00", 2, "\x00\x00\x00"},
	}
	for _, test := range tests {
		assert.Equal(t, test.exp, string(bf.Used([]byte(test.tape), test.dp)))
	}
}

func TestDump(t *testing.T) {
	i, err := vm.New("++>+++.<", vm.TapeSize(8))
	assert.NoError(t, err)
	assert.NoError(t, i.Start())
	i.Wait()

	var b bytes.Buffer
	assert.NoError(t, bf.Dump(&b, i.Snapshot(), true))
	exp := "\x1Ccompleted 8 0 8\x1D2 3\x1D3"
	if s := b.String(); s != exp {
		t.Fatalf("Expected:\n%s\ngot: %s", strconv.Quote(exp), strconv.Quote(s))
	}

	b.Reset()
	assert.NoError(t, bf.Dump(&b, i.Snapshot(), false))
	exp = "\x1Ccompleted 8 0 8\x1D2 3 0 0 0 0 0 0\x1D3"
	if s := b.String(); s != exp {
		t.Fatalf("Expected:\n%s\ngot: %s", strconv.Quote(exp), strconv.Quote(s))
	}

	b.Reset()
	assert.NoError(t, bf.Dump(&b, vm.Snapshot{}, true))
	assert.Equal(t, "\x1Cidle 0 0 0\x1D\x1D", b.String())
}

func TestStatus(t *testing.T) {
	p := vm.NewProgram("+>,")
	s := vm.Snapshot{
		State:    vm.Running,
		IP:       2,
		DP:       1,
		Tape:     []byte{1, 0, 0, 0, 0, 0},
		Awaiting: true,
		Steps:    2,
	}
	assert.Equal(t, "running (input) ip=2 in dp=1 steps=2 | 1 [0] 0  0 ", bf.Status(s, p, 4))

	s = vm.Snapshot{State: vm.Completed, IP: 3, DP: 5, Tape: []byte{1, 2, 3, 4, 5, 6}, Steps: 3, Err: errors.New("oops")}
	assert.Equal(t, "completed ip=3 dp=5 steps=3 | 4  5 [6] error: oops", bf.Status(s, p, 3))
}
