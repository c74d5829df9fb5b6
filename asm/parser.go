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
	"bytes"
	"io"
	"sort"
	"strings"
	"text/scanner"

	"github.com/db47h/bfvm/vm"
)

// maximum number of errors reported by Assemble.
const maxErrors = 10

// Error is a single assembler diagnostic.
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrAsm is the error returned by Assemble. It holds up to 10 diagnostics in
// source order.
type ErrAsm []Error

func (e ErrAsm) Error() string {
	var b strings.Builder
	for k := range e {
		if k > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e[k].Error())
	}
	return b.String()
}

type parser struct {
	s    scanner.Scanner
	code bytes.Buffer
	open []scanner.Position // positions of pending [
	errs ErrAsm
}

func (p *parser) error(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, Error{pos, msg})
	}
}

// Parse reads the source from r and keeps only instruction symbols.
func (p *parser) Parse(name string, r io.Reader) error {
	p.s.Init(r)
	p.s.Filename = name
	// every rune is a token: no idents, numbers, strings or comments
	p.s.Mode = 0
	p.s.Whitespace = 0
	// anything goes in comments, even invalid UTF-8
	p.s.Error = func(*scanner.Scanner, string) {}

	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		if tok < 0 || tok >= 0x80 || !vm.IsOp(byte(tok)) {
			continue
		}
		c := byte(tok)
		switch c {
		case vm.OpJz:
			p.open = append(p.open, p.s.Position)
		case vm.OpJnz:
			if n := len(p.open); n > 0 {
				p.open = p.open[:n-1]
			} else {
				p.error(p.s.Position, "unmatched ]")
			}
		}
		p.code.WriteByte(c)
	}
	for _, pos := range p.open {
		p.error(pos, "unmatched [")
	}
	if len(p.errs) > 0 {
		// unmatched [ come last; keep diagnostics in source order
		sort.SliceStable(p.errs, func(i, j int) bool { return p.errs[i].Pos.Offset < p.errs[j].Pos.Offset })
		return p.errs
	}
	return nil
}
