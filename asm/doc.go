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

// Package asm provides utility functions to load and disassemble bfvm
// programs.
//
// Assemble strips program source down to the eight instruction symbols and
// reports unbalanced brackets with their line and column:
//
//	symbol	asm	description
//	------	---	------------------------------------------------------------
//	>	right	increment DP
//	<	left	decrement DP, if not 0
//	+	inc	increment the cell at DP
//	-	dec	decrement the cell at DP
//	.	out	output the cell at DP
//	,	in	read one byte of input into the cell at DP
//	[	jz	jump past the matching ] if the cell at DP is 0
//	]	jnz	jump back past the matching [ if the cell at DP is not 0
//	any	nop	no-op
//
// Comments:
//
// Any byte other than the eight symbols is a comment. Comments do not need to
// be valid UTF-8.
//
// Disassembly:
//
// The listing produced by Disassemble and DisassembleAll shows one line per
// instruction, prefixed with its position. Consecutive identical right, left,
// inc and dec instructions are folded together and the repeat count is shown
// as an argument:
//
//	         0	inc 8
//	         8	jz 48
//	         9	right
//
// Jump instructions show the position of the matching bracket, or ??? if
// there is none.
package asm
