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

package asm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/db47h/bfvm/internal/bfi"
	"github.com/db47h/bfvm/vm"
)

// Assemble reads program source from the supplied io.Reader and returns the
// program text stripped of anything that is not an instruction symbol.
//
// Then name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// Unbalanced brackets are reported in the returned error, which can safely be
// cast to an ErrAsm value. The program is returned in either case since the VM
// handles unmatched brackets at run time.
func Assemble(name string, r io.Reader) (string, error) {
	var p parser
	err := p.Parse(name, r)
	return p.code.String(), err
}

// run length of the instruction at pc
func runLen(p *vm.Program, pc int) int {
	op := p.At(pc)
	n := 1
	switch op {
	case vm.OpRight, vm.OpLeft, vm.OpInc, vm.OpDec:
		for pc+n < p.Len() && p.At(pc+n) == op {
			n++
		}
	default:
		if vm.IsOp(op) {
			break
		}
		for pc+n < p.Len() && !vm.IsOp(p.At(pc+n)) {
			n++
		}
	}
	return n
}

// Disassemble writes a disassembly of the instruction in the given program at
// position pc to the specified io.Writer and returns the position of the next
// instruction and any write error.
//
// Runs of identical > < + - instructions and runs of no-op bytes are folded
// into a single line with a repeat count. Brackets show the position of their
// partner, or ??? if unmatched.
func Disassemble(p *vm.Program, pc int, w io.Writer) (next int, err error) {
	ew := bfi.NewErrWriter(w)

	op := p.At(pc)
	n := runLen(p, pc)
	ew.WriteString(vm.OpName(op))
	switch op {
	case vm.OpJz, vm.OpJnz:
		ew.WriteByte(' ')
		if m := p.Match(pc); m >= 0 {
			ew.WriteString(strconv.Itoa(m))
		} else {
			ew.WriteString("???")
		}
	default:
		if n > 1 {
			ew.WriteByte(' ')
			ew.WriteString(strconv.Itoa(n))
		}
	}
	return pc + n, ew.Err
}

// DisassembleAll writes a disassembly of the whole program to the specified
// io.Writer. The base argument is added to the position of each instruction.
// It will return any write error.
func DisassembleAll(p *vm.Program, base int, w io.Writer) error {
	ew := bfi.NewErrWriter(w)
	for pc := 0; pc < p.Len(); {
		fmt.Fprintf(ew, "% 10d\t", base+pc)
		pc, _ = Disassemble(p, pc, ew)
		ew.WriteByte('\n')
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
