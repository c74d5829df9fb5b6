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

import (
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// Errors returned by the Instance control functions.
var (
	ErrRunning          = errors.New("vm is running")
	ErrEmptyProgram     = errors.New("empty program")
	ErrUnmatchedBracket = errors.New("unmatched ]")
)

// State is the lifecycle phase of an Instance.
type State int

// Run states.
const (
	Idle      State = iota // no run started yet
	Running                // the VM goroutine is executing the program
	Completed              // the IP reached the end of the program, or the run halted
	Stopped                // the run was cancelled by Stop
)

var states = [...]string{"idle", "running", "completed", "stopped"}

func (s State) String() string {
	if s >= 0 && int(s) < len(states) {
		return states[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// StepStatus is the outcome of executing a single instruction.
type StepStatus int

// Step results.
const (
	StepContinue   StepStatus = iota // the instruction was executed
	StepAwaitInput                   // , with an empty input queue; the IP did not move
	StepDone                         // the IP is at the end of the program
	StepHalt                         // the run cannot continue, see the returned error
)

var stepStatuses = [...]string{"continue", "await input", "done", "halt"}

func (s StepStatus) String() string {
	if s >= 0 && int(s) < len(stepStatuses) {
		return stepStatuses[s]
	}
	return "StepStatus(" + strconv.Itoa(int(s)) + ")"
}

// Snapshot is a copy of the observable state of an Instance.
type Snapshot struct {
	State    State
	IP       int    // instruction pointer
	DP       int    // data pointer
	Tape     []byte // tape cells
	Output   []byte // output produced by the current run
	Awaiting bool   // the VM is blocked on an empty input queue
	Err      error  // reason for a halted run
	Steps    int64  // instructions executed by the current run
}

// Instance represents a VM instance.
//
// All methods are safe for concurrent use. The tape, IP and DP are owned by
// the VM goroutine while Running; other goroutines only see the published
// copy returned by Snapshot and the other accessors.
type Instance struct {
	ctl      sync.Mutex // serializes control functions
	prog     *Program
	tape     *Tape
	ip       int
	dp       int
	steps    int64
	delay    time.Duration
	tapeStep int
	eof      EOFMode
	in       *InputQueue
	out      io.Writer
	logger   *log.Logger
	quit     chan struct{}
	done     chan struct{}

	mu  sync.RWMutex // guards pub
	pub Snapshot
}

// Option interface
type Option func(*Instance) error

// TapeSize sets the tape length. The default is DefaultTapeSize cells. Setting
// it on an existing instance truncates or zero-extends the tape.
func TapeSize(size int) Option {
	return func(i *Instance) error {
		if size < 1 {
			return errors.Errorf("invalid tape size %d", size)
		}
		if i.tape == nil {
			i.tape = NewTape(size)
			return nil
		}
		i.resize(size)
		return nil
	}
}

// TapeStep sets the number of cells added or removed by GrowTape and
// ShrinkTape. The default is 1.
func TapeStep(n int) Option {
	return func(i *Instance) error {
		if n < 1 {
			return errors.Errorf("invalid tape step %d", n)
		}
		i.tapeStep = n
		return nil
	}
}

// Delay sets the pause between two instructions. No-op bytes in the program
// are never paced. The default is 0.
func Delay(d time.Duration) Option {
	return func(i *Instance) error {
		if d < 0 {
			return errors.Errorf("invalid delay %v", d)
		}
		i.delay = d
		return nil
	}
}

// Output configures a writer that receives every byte written by the .
// instruction, in addition to the output kept in the instance. If w implements
// Flush() error, it is flushed on every new line and when a run ends.
func Output(w io.Writer) Option {
	return func(i *Instance) error {
		i.out = w
		return nil
	}
}

// Input appends p to the input queue.
func Input(p []byte) Option {
	return func(i *Instance) error {
		_, err := i.in.Write(p)
		return err
	}
}

// EOF sets the behavior of the , instruction on a closed and empty input
// queue. The default is EOFUnchanged.
func EOF(m EOFMode) Option {
	return func(i *Instance) error {
		if m < EOFUnchanged || m > EOFMax {
			return errors.Errorf("invalid EOF mode %v", m)
		}
		i.eof = m
		return nil
	}
}

// Logger sets a logger for run lifecycle events. Events are logged at debug
// level.
func Logger(l *log.Logger) Option {
	return func(i *Instance) error {
		i.logger = l
		return nil
	}
}

// SetOptions sets the provided options. It returns ErrRunning if the VM is
// running.
func (i *Instance) SetOptions(opts ...Option) error {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	if i.busy() {
		return ErrRunning
	}
	return i.setOptions(opts...)
}

func (i *Instance) setOptions(opts ...Option) error {
	defer i.sync()
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new VM instance for the given program source.
//
// Options will be set by calling SetOptions.
func New(src string, opts ...Option) (*Instance, error) {
	i := &Instance{
		prog:     NewProgram(src),
		tapeStep: 1,
		in:       newInputQueue(),
	}
	if err := i.setOptions(opts...); err != nil {
		return nil, err
	}
	if i.tape == nil {
		i.tape = NewTape(DefaultTapeSize)
		i.sync()
	}
	return i, nil
}

// SetProgram replaces the program and moves the IP back to 0.
func (i *Instance) SetProgram(src string) error {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	if i.busy() {
		return ErrRunning
	}
	i.prog = NewProgram(src)
	i.ip = 0
	i.sync()
	return nil
}

// Program returns the loaded program.
func (i *Instance) Program() *Program {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	return i.prog
}

// SetDelay sets the pause between two instructions. It returns ErrRunning if
// the VM is running.
func (i *Instance) SetDelay(d time.Duration) error {
	return i.SetOptions(Delay(d))
}

// Delay returns the pause between two instructions.
func (i *Instance) Delay() time.Duration {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	return i.delay
}

// resize resizes the tape and keeps the DP within bounds.
func (i *Instance) resize(size int) {
	i.tape.Resize(size)
	if i.dp >= size {
		i.dp = size - 1
	}
}

// ResizeTape sets the tape length. Cells past the new length are lost. It
// returns ErrRunning if the VM is running.
func (i *Instance) ResizeTape(size int) error {
	return i.SetOptions(TapeSize(size))
}

// GrowTape adds TapeStep cells to the tape.
func (i *Instance) GrowTape() error {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	if i.busy() {
		return ErrRunning
	}
	i.resize(i.tape.Len() + i.tapeStep)
	i.sync()
	return nil
}

// ShrinkTape removes TapeStep cells from the tape. The tape keeps at least one
// cell.
func (i *Instance) ShrinkTape() error {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	if i.busy() {
		return ErrRunning
	}
	size := i.tape.Len() - i.tapeStep
	if size < 1 {
		size = 1
	}
	i.resize(size)
	i.sync()
	return nil
}

// Input returns the input queue.
func (i *Instance) Input() *InputQueue {
	return i.in
}

// Feed appends p to the input queue.
func (i *Instance) Feed(p []byte) error {
	_, err := i.in.Write(p)
	return err
}

// Snapshot returns a copy of the current observable state.
func (i *Instance) Snapshot() Snapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()
	s := i.pub
	s.Tape = append([]byte(nil), s.Tape...)
	s.Output = append([]byte(nil), s.Output...)
	return s
}

// State returns the run state.
func (i *Instance) State() State {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.pub.State
}

// IP returns the instruction pointer.
func (i *Instance) IP() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.pub.IP
}

// DP returns the data pointer.
func (i *Instance) DP() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.pub.DP
}

// Tape returns a copy of the tape cells.
func (i *Instance) Tape() []byte {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]byte(nil), i.pub.Tape...)
}

// Output returns a copy of the output produced by the current run.
func (i *Instance) Output() []byte {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]byte(nil), i.pub.Output...)
}

// Err returns the reason why the last run halted, or nil.
func (i *Instance) Err() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.pub.Err
}

// InstructionCount returns the number of instructions executed so far by the
// current run.
func (i *Instance) InstructionCount() int64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.pub.Steps
}

// sync publishes the IP, DP and a full copy of the tape.
func (i *Instance) sync() {
	if i.tape == nil {
		return
	}
	i.mu.Lock()
	i.pub.IP = i.ip
	i.pub.DP = i.dp
	i.pub.Steps = i.steps
	i.pub.Tape = append(i.pub.Tape[:0], i.tape.cells...)
	i.mu.Unlock()
}

// publish publishes the registers after an instruction. If cell is true, the
// cell at DP has changed. If out is not negative, it is appended to the output.
func (i *Instance) publish(cell bool, out int) {
	i.mu.Lock()
	i.pub.IP = i.ip
	i.pub.DP = i.dp
	i.pub.Steps = i.steps
	if n := i.tape.Len(); len(i.pub.Tape) < n {
		i.pub.Tape = append(i.pub.Tape, make([]byte, n-len(i.pub.Tape))...)
	}
	if cell {
		i.pub.Tape[i.dp] = i.tape.cells[i.dp]
	}
	if out >= 0 {
		i.pub.Output = append(i.pub.Output, byte(out))
	}
	i.mu.Unlock()
}

func (i *Instance) setAwaiting(v bool) {
	i.mu.Lock()
	i.pub.Awaiting = v
	i.mu.Unlock()
}
