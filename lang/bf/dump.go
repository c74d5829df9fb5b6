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

package bf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/db47h/bfvm/internal/bfi"
	"github.com/db47h/bfvm/vm"
)

func dumpSlice(w io.Writer, prefix byte, a []byte) error {
	var err error
	l := len(a) - 1
	b := make([]byte, 0, 8)
	b = append(b, prefix)
	if l >= 0 {
		for i := 0; i < l; i++ {
			b = strconv.AppendUint(b, uint64(a[i]), 10)
			b = append(b, ' ')
			_, err = w.Write(b)
			if err != nil {
				return err
			}
			b = b[:0]
		}
		b = strconv.AppendUint(b, uint64(a[l]), 10)
	}
	_, err = w.Write(b)
	return err
}

// Dump dumps a VM snapshot to the specified io.Writer.
//
// The dump consists of the run state, IP, DP and instruction count, prefixed
// with '\x1C', followed by the tape cells and the output bytes, each prefixed
// with '\x1D'. Values are written in decimal and separated by spaces. If
// shrink is true, only the used part of the tape is dumped (see Used).
func Dump(w io.Writer, s vm.Snapshot, shrink bool) error {
	ew := bfi.NewErrWriter(w)
	fmt.Fprintf(ew, "\x1C%s %d %d %d", s.State, s.IP, s.DP, s.Steps)
	tape := s.Tape
	if shrink {
		tape = Used(tape, s.DP)
	}
	if err := dumpSlice(ew, '\x1D', tape); err != nil {
		return err
	}
	return dumpSlice(ew, '\x1D', s.Output)
}

// window returns the bounds of a width cells wide tape window centered on dp.
func window(l, dp, width int) (lo, hi int) {
	lo = dp - width/2
	if lo+width > l {
		lo = l - width
	}
	if lo < 0 {
		lo = 0
	}
	hi = lo + width
	if hi > l {
		hi = l
	}
	return lo, hi
}

// Status renders a one line summary of a snapshot: the run state, the
// instruction at IP, DP and a window of the tape around DP where the current
// cell is bracketed. The tape window is at most cells wide.
func Status(s vm.Snapshot, p *vm.Program, cells int) string {
	var b strings.Builder
	b.WriteString(s.State.String())
	if s.Awaiting {
		b.WriteString(" (input)")
	}
	fmt.Fprintf(&b, " ip=%d", s.IP)
	if s.IP < p.Len() {
		fmt.Fprintf(&b, " %s", vm.OpName(p.At(s.IP)))
	}
	fmt.Fprintf(&b, " dp=%d steps=%d |", s.DP, s.Steps)
	lo, hi := window(len(s.Tape), s.DP, cells)
	for k := lo; k < hi; k++ {
		if k == s.DP {
			fmt.Fprintf(&b, "[%d]", s.Tape[k])
		} else {
			fmt.Fprintf(&b, " %d ", s.Tape[k])
		}
	}
	if s.Err != nil {
		fmt.Fprintf(&b, " error: %v", s.Err)
	}
	return b.String()
}
