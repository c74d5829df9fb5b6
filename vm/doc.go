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

// Package vm implements a stepping virtual machine for the eight symbol tape
// language commonly known as brainfuck.
//
// The machine has a growable tape of byte cells, a data pointer (DP) into the
// tape and an instruction pointer (IP) into the program text. The recognized
// instructions are:
//
//	>	increment DP, growing the tape as needed
//	<	decrement DP. Does nothing if DP is 0
//	+	increment the cell at DP (modulo 256)
//	-	decrement the cell at DP (modulo 256)
//	.	append the cell at DP to the output
//	,	pop one byte from the input queue into the cell at DP
//	[	if the cell at DP is 0, jump past the matching ]
//	]	if the cell at DP is not 0, jump back past the matching [
//
// Any other byte in the program is a no-op. No-ops advance the IP without
// being paced by the instance delay, so comments do not slow down a run.
//
// An Instance runs programs on its own goroutine. Start returns immediately
// and the caller observes progress by polling Snapshot (or the individual
// accessors) while the VM is running. The VM goroutine owns the tape and the
// IP/DP registers for the duration of a run and publishes their state after
// every instruction. Stop cancels a run cooperatively and returns only once the
// VM goroutine has exited.
//
// Jump targets are computed once when the program is loaded. A [ without a
// matching ] jumps to the end of the program, which completes the run. A ]
// without a matching [ halts the run with ErrUnmatchedBracket.
//
// When the input queue is empty, the , instruction does not advance: the run
// reports StepAwaitInput and blocks until more input is fed, the queue is
// closed or the run is stopped. Reading from a closed and empty queue applies
// the EOFMode of the instance.
package vm
