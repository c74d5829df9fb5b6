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

// Package bf provides utility functions for running programs on a bfvm
// Virtual Machine and rendering its state.
package bf

import (
	"context"

	"github.com/db47h/bfvm/vm"
	"github.com/pkg/errors"
)

// Exec runs src to completion with the given input and returns its output.
// The input queue is closed before the run starts, so reading past the end of
// input applies the configured vm.EOFMode instead of blocking.
//
// If ctx is cancelled, the run is stopped and Exec returns the output produced
// so far along with ctx.Err(). If the run halts, the error is returned along
// with the output produced so far.
func Exec(ctx context.Context, src string, input []byte, opts ...vm.Option) ([]byte, error) {
	i, err := vm.New(src, append(append([]vm.Option(nil), opts...), vm.Input(input))...)
	if err != nil {
		return nil, err
	}
	if err = i.Input().Close(); err != nil {
		return nil, err
	}
	if err = i.Start(); err != nil {
		return nil, err
	}
	select {
	case <-i.Done():
	case <-ctx.Done():
		i.Stop()
		return i.Output(), ctx.Err()
	}
	if err = i.Err(); err != nil {
		return i.Output(), errors.Wrap(err, "run halted")
	}
	return i.Output(), nil
}

// Used returns the used part of a tape: all cells up to the data pointer or
// the last non-zero cell, whichever comes last.
func Used(tape []byte, dp int) []byte {
	n := len(tape)
	for n > 0 && n > dp+1 && tape[n-1] == 0 {
		n--
	}
	return tape[:n]
}
