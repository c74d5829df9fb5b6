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

// Instruction symbols.
const (
	OpRight byte = '>'
	OpLeft  byte = '<'
	OpInc   byte = '+'
	OpDec   byte = '-'
	OpOut   byte = '.'
	OpIn    byte = ','
	OpJz    byte = '['
	OpJnz   byte = ']'
)

var opcodes = [...]string{
	OpRight: "right",
	OpLeft:  "left",
	OpInc:   "inc",
	OpDec:   "dec",
	OpOut:   "out",
	OpIn:    "in",
	OpJz:    "jz",
	OpJnz:   "jnz",
}

// IsOp returns true if c is one of the eight instruction symbols.
func IsOp(c byte) bool {
	return int(c) < len(opcodes) && opcodes[c] != ""
}

// OpName returns the mnemonic of the instruction c, or "nop" if c is not an
// instruction symbol.
func OpName(c byte) string {
	if !IsOp(c) {
		return "nop"
	}
	return opcodes[c]
}
