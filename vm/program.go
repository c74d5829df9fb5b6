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

// Program is an immutable program text along with its jump table.
type Program struct {
	code  []byte
	jumps []int
}

// NewProgram returns a new Program for the given source. The source is used
// as-is: bytes that are not instruction symbols are kept and executed as
// no-ops.
//
// Bracket pairs are resolved once in a single pass; the jump table gives for
// every bracket the position of its partner, or -1 if it has none.
func NewProgram(src string) *Program {
	p := &Program{
		code:  []byte(src),
		jumps: make([]int, len(src)),
	}
	var open []int
	for pc, c := range p.code {
		p.jumps[pc] = -1
		switch c {
		case OpJz:
			open = append(open, pc)
		case OpJnz:
			if n := len(open); n > 0 {
				m := open[n-1]
				open = open[:n-1]
				p.jumps[pc], p.jumps[m] = m, pc
			}
		}
	}
	return p
}

// Len returns the program length in bytes.
func (p *Program) Len() int {
	return len(p.code)
}

// At returns the instruction at position pc.
func (p *Program) At(pc int) byte {
	return p.code[pc]
}

// Match returns the position of the bracket matching the one at pc. It returns
// -1 if the instruction at pc is not a bracket or if the bracket is unmatched.
func (p *Program) Match(pc int) int {
	if pc < 0 || pc >= len(p.jumps) {
		return -1
	}
	return p.jumps[pc]
}

// String returns the program text.
func (p *Program) String() string {
	return string(p.code)
}
