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
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/db47h/bfvm/asm"
	"github.com/db47h/bfvm/internal/config"
	"github.com/db47h/bfvm/lang/bf"
	"github.com/db47h/bfvm/vm"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

const traceInterval = 100 * time.Millisecond

type options struct {
	file        string
	delay       time.Duration
	tapeSize    int
	tapeStep    int
	eof         string
	input       string
	noRawIO     bool
	trace       bool
	list        bool
	dump        bool
	debug       bool
	quiet       bool
	showVersion bool

	raw bool // stdin is a terminal in raw mode
}

// parseFlags parses the command line. Flag defaults come from cfg.
func parseFlags(args []string, cfg config.Config, output io.Writer) (*options, error) {
	o := new(options)
	fs := flag.NewFlagSet("bfvm", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: bfvm [flags] program.bf\n\n")
		fs.PrintDefaults()
	}
	fs.DurationVar(&o.delay, "delay", cfg.Delay, "pause between two instructions")
	fs.IntVar(&o.tapeSize, "tape", cfg.TapeSize, "initial tape length in cells")
	fs.IntVar(&o.tapeStep, "step", cfg.TapeStep, "tape grow/shrink step in cells")
	fs.StringVar(&o.eof, "eof", cfg.EOF, "behavior of , at end of input: unchanged, zero or max")
	fs.StringVar(&o.input, "input", "", "feed `bytes` to the program before stdin")
	fs.BoolVar(&o.noRawIO, "noraw", false, "disable raw terminal IO")
	fs.BoolVar(&o.trace, "trace", false, "show a live status line on stderr")
	fs.BoolVar(&o.list, "list", false, "print a disassembly of the program and exit")
	fs.BoolVar(&o.dump, "dump", false, "dump the VM state upon exit")
	fs.BoolVar(&o.debug, "debug", cfg.Debug, "enable debug diagnostics")
	fs.BoolVar(&o.quiet, "q", false, "only log errors")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.showVersion {
		return o, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one program file")
	}
	o.file = fs.Arg(0)
	return o, nil
}

// eotReader returns io.EOF when reading a CTRL-D. In raw tty mode, we need to
// handle it ourselves.
type eotReader struct {
	r io.Reader
}

func (r eotReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if k := bytes.IndexByte(p[:n], 4); k >= 0 {
		return k, io.EOF
	}
	return n, err
}

// pump feeds the VM input queue from r and closes the queue at end of input.
func pump(logger *log.Logger, in *vm.InputQueue, r io.Reader) {
	if _, err := in.ReadFrom(r); err != nil {
		logger.Debug("Input pump stopped", log.Err(err))
	}
	in.Close()
}

func load(logger *log.Logger, name string) (string, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Wrap(err, "load failed")
	}
	if _, err = asm.Assemble(name, bytes.NewReader(src)); err != nil {
		if errs, ok := err.(asm.ErrAsm); ok {
			for _, e := range errs {
				logger.Warn("Unbalanced bracket", log.String("pos", e.Pos.String()), log.String("msg", e.Msg))
			}
		} else {
			return "", err
		}
	}
	return string(src), nil
}

func trace(ctx context.Context, i *vm.Instance, w io.Writer, width func() (int, int)) {
	t := time.NewTicker(traceInterval)
	defer t.Stop()
	p := i.Program()
	for {
		cols, _ := width()
		if cols <= 0 {
			cols = 80
		}
		// each cell takes up to 4 columns, keep some room for registers
		fmt.Fprintf(w, "\r\x1b[K%s", bf.Status(i.Snapshot(), p, (cols-40)/4))
		select {
		case <-ctx.Done():
			fmt.Fprint(w, "\n")
			return
		case <-t.C:
		}
	}
}

func run(ctx context.Context, logger *log.Logger, o *options, stdin io.Reader, stdout io.Writer) (i *vm.Instance, err error) {
	src, err := load(logger, o.file)
	if err != nil {
		return nil, err
	}
	eof, err := vm.ParseEOFMode(o.eof)
	if err != nil {
		return nil, err
	}
	out := bufio.NewWriter(stdout)
	defer func() {
		if ferr := out.Flush(); ferr != nil && err == nil {
			err = errors.Wrap(ferr, "flush failed")
		}
	}()

	i, err = vm.New(src,
		vm.Delay(o.delay),
		vm.TapeSize(o.tapeSize),
		vm.TapeStep(o.tapeStep),
		vm.EOF(eof),
		vm.Input([]byte(o.input)),
		vm.Output(out),
		vm.Logger(logger))
	if err != nil {
		return nil, err
	}

	if o.list {
		return i, asm.DisassembleAll(i.Program(), 0, out)
	}

	if stdin != nil {
		if o.raw {
			stdin = eotReader{stdin}
		}
		go pump(logger, i.Input(), stdin)
	} else {
		i.Input().Close()
	}

	if err = i.Start(); err != nil {
		return i, err
	}

	if o.trace {
		tctx, cancel := context.WithCancel(ctx)
		traceDone := make(chan struct{})
		go func() {
			trace(tctx, i, os.Stderr, consoleSize(os.Stderr))
			close(traceDone)
		}()
		defer func() {
			cancel()
			<-traceDone
		}()
	}

	select {
	case <-i.Done():
	case <-ctx.Done():
		i.Stop()
		logger.Info("Run cancelled", log.Int("ip", i.IP()))
	}

	if o.dump {
		if err = bf.Dump(out, i.Snapshot(), true); err != nil {
			return i, err
		}
	}
	return i, i.Err()
}

func atExit(i *vm.Instance, debug bool, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	if i != nil {
		fmt.Fprintf(os.Stderr, "%s\n", bf.Status(i.Snapshot(), i.Program(), 16))
	}
	os.Exit(1)
}

func main() {
	ctx := app.Context()

	cfg, err := config.Load()
	if err != nil {
		atExit(nil, false, err)
	}
	o, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		os.Exit(2)
	}
	if o.showVersion {
		fmt.Printf("version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	logger := config.CreateLogger(o.debug, o.quiet)
	logger.Debug("bfvm", log.String("version", buildinfo.Version(version, commit, date)))

	// try to switch the terminal to raw mode.
	var tearDown func()
	if !o.noRawIO && !o.list {
		if tearDown, err = setRawIO(); err == nil {
			o.raw = true
		} else {
			logger.Debug("Raw terminal IO unavailable", log.Err(err))
		}
	}

	i, err := run(ctx, logger, o, os.Stdin, os.Stdout)
	if tearDown != nil {
		tearDown()
	}
	atExit(i, o.debug, err)
}
