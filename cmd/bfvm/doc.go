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

// The bfvm command line tool runs programs written in the eight symbol tape
// language commonly known as brainfuck on the VM implemented by package
// github.com/db47h/bfvm/vm.
//
// Usage:
//
//	bfvm [flags] program.bf
//
//	-debug
//		  enable debug diagnostics
//	-delay duration
//		  pause between two instructions
//	-dump
//		  dump the VM state upon exit
//	-eof string
//		  behavior of , at end of input: unchanged, zero or max (default "unchanged")
//	-input bytes
//		  feed bytes to the program before stdin
//	-list
//		  print a disassembly of the program and exit
//	-noraw
//		  disable raw terminal IO
//	-q	only log errors
//	-step int
//		  tape grow/shrink step in cells (default 1)
//	-tape int
//		  initial tape length in cells (default 256)
//	-trace
//		  show a live status line on stderr
//	-version
//		  print version and exit
//
// The defaults of -delay, -tape, -step, -eof and -debug can be set with the
// BFVM_DELAY, BFVM_TAPE_SIZE, BFVM_TAPE_STEP, BFVM_EOF and BFVM_DEBUG
// environment variables.
//
// -debug: will print a full stacktrace and the VM state should the program
// halt with an error.
//
// -dump: dumps the run state, registers, used part of the tape and program
// output to stdout, in the format of bf.Dump.
//
// -noraw: upon startup, bfvm switches the terminal to raw mode unless stdin
// has been redirected. This flag disables this behavior. In raw mode, CTRL-D
// ends the input.
//
// -input: these bytes are queued before anything read from stdin. Use it with
// stdin redirected from /dev/null to run non interactively.
//
// Unbalanced brackets in the program are reported as warnings. The program
// still runs: a [ without a matching ] ends the program when its jump is
// taken, and a ] without a matching [ halts it with an error.
//
// Sending SIGINT (CTRL-C) stops the running program.
package main
