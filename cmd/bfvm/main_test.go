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

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/db47h/bfvm/internal/config"
	"github.com/db47h/bfvm/vm"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "prog.bf")
	assert.NoError(t, os.WriteFile(fn, []byte(src), 0o644))
	return fn
}

func TestParseFlags(t *testing.T) {
	cfg := config.Config{Delay: time.Second, TapeSize: 30000, TapeStep: 2, EOF: "zero"}
	var b bytes.Buffer

	o, err := parseFlags([]string{"-tape", "10", "-dump", "hello.bf"}, cfg, &b)
	assert.NoError(t, err)
	assert.Equal(t, "hello.bf", o.file)
	assert.Equal(t, time.Second, o.delay)
	assert.Equal(t, 10, o.tapeSize)
	assert.Equal(t, 2, o.tapeStep)
	assert.Equal(t, "zero", o.eof)
	assert.True(t, o.dump)
	assert.False(t, o.trace)

	_, err = parseFlags(nil, cfg, &b)
	assert.Error(t, err)
	assert.Contains(t, b.String(), "usage: bfvm")

	_, err = parseFlags([]string{"-delay", "soon", "x.bf"}, cfg, &b)
	assert.Error(t, err)

	o, err = parseFlags([]string{"-version"}, cfg, &b)
	assert.NoError(t, err)
	assert.True(t, o.showVersion)
}

func TestEOTReader(t *testing.T) {
	data, err := io.ReadAll(eotReader{strings.NewReader("abc\x04def")})
	assert.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestRun(t *testing.T) {
	logger := log.NewTestLogger(t)
	tests := []struct {
		name  string
		code  string
		o     options
		stdin io.Reader
		out   string
	}{
		{"hello", "++++++++[>++++++++<-]>+.+.", options{}, nil, "AB"},
		{"input", ",.,.,.", options{input: "a"}, strings.NewReader("bc"), "abc"},
		{"eof", "+,.", options{eof: "max"}, nil, "\xff"},
		{"list", "+++[-]", options{list: true}, nil, "         0\tinc 3\n         3\tjz 5\n         4\tdec\n         5\tjnz 3\n"},
		{"dump", "+>++", options{dump: true}, nil, "\x1Ccompleted 4 1 4\x1D1 2\x1D"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			o := test.o
			o.file = writeProgram(t, test.code)
			if o.tapeSize == 0 {
				o.tapeSize = 8
			}
			o.tapeStep = 1
			if o.eof == "" {
				o.eof = "unchanged"
			}
			var b bytes.Buffer
			_, err := run(context.Background(), logger, &o, test.stdin, &b)
			assert.NoError(t, err)
			assert.Equal(t, test.out, b.String())
		})
	}
}

func TestRun_errors(t *testing.T) {
	logger := log.NewTestLogger(t)
	var b bytes.Buffer

	o := &options{file: filepath.Join(t.TempDir(), "missing.bf"), tapeSize: 1, tapeStep: 1, eof: "zero"}
	_, err := run(context.Background(), logger, o, nil, &b)
	assert.ErrorContains(t, err, "load failed")

	o.file = writeProgram(t, "+.]")
	i, err := run(context.Background(), logger, o, nil, &b)
	assert.True(t, errors.Cause(err) == vm.ErrUnmatchedBracket)
	assert.Equal(t, vm.Completed, i.State())
	assert.Equal(t, "\x01", b.String())

	o.eof = "sometimes"
	_, err = run(context.Background(), logger, o, nil, &b)
	assert.ErrorContains(t, err, "unknown EOF mode")
}

func TestRun_cancel(t *testing.T) {
	o := &options{file: writeProgram(t, "+[]"), delay: time.Millisecond, tapeSize: 1, tapeStep: 1, eof: "zero"}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var b bytes.Buffer
	i, err := run(ctx, log.NewTestLogger(t), o, nil, &b)
	assert.NoError(t, err)
	assert.Equal(t, vm.Stopped, i.State())
}
