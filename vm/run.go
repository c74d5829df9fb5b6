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
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// busy returns true if a VM goroutine is running. The caller must hold ctl.
func (i *Instance) busy() bool {
	if i.done == nil {
		return false
	}
	select {
	case <-i.done:
		return false
	default:
		return true
	}
}

// reset zero fills the tape, clears the output and moves IP and DP back to 0.
func (i *Instance) reset() {
	i.tape.Reset()
	i.ip, i.dp, i.steps = 0, 0, 0
	i.mu.Lock()
	i.pub.Output = i.pub.Output[:0:0]
	i.pub.Err = nil
	i.pub.Awaiting = false
	i.mu.Unlock()
	i.sync()
}

func (i *Instance) setState(s State, err error) {
	i.mu.Lock()
	i.pub.State = s
	i.pub.Err = err
	i.pub.Awaiting = false
	i.mu.Unlock()
}

// Reset moves the IP and DP back to 0, zero fills the tape and clears the
// output. The run state is set to Idle. The tape length and the input queue
// are left untouched.
func (i *Instance) Reset() error {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	if i.busy() {
		return ErrRunning
	}
	i.reset()
	i.setState(Idle, nil)
	return nil
}

// Start starts execution of the program on a new goroutine and returns
// immediately.
//
// Start is a no-op if the VM is already running, in which case it returns
// ErrRunning, or if the program is empty, in which case it returns
// ErrEmptyProgram. Otherwise the tape is zero filled, the output is cleared
// and the run starts at IP 0, DP 0. Pending input is preserved.
func (i *Instance) Start() error {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	if i.busy() {
		return ErrRunning
	}
	if i.prog.Len() == 0 {
		return ErrEmptyProgram
	}
	i.reset()
	i.setState(Running, nil)
	i.quit = make(chan struct{})
	i.done = make(chan struct{})
	if i.logger != nil {
		i.logger.Debug("Run started",
			log.Int("program_size", i.prog.Len()),
			log.Int("tape_size", i.tape.Len()),
			log.String("delay", i.delay.String()))
	}
	go i.run(i.quit, i.done)
	return nil
}

// Stop requests the running program to stop and waits for the VM goroutine
// to exit. No instruction is executed once Stop returns.
//
// A run in progress is stopped at the next instruction boundary, or while it
// is pausing between instructions or waiting for input. The run state is then
// Stopped. If the run was already over, Stop does nothing.
func (i *Instance) Stop() {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	if !i.busy() {
		return
	}
	close(i.quit)
	<-i.done
}

// Done returns a channel that is closed when the current run ends. If no run
// was ever started, the returned channel is already closed.
func (i *Instance) Done() <-chan struct{} {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	if i.done == nil {
		return closedChan
	}
	return i.done
}

// Wait blocks until the current run ends.
func (i *Instance) Wait() {
	<-i.Done()
}

// Step executes a single instruction on the calling goroutine. It is meant
// for single stepping through a program and returns ErrRunning if the VM is
// running.
//
// Unlike Start, Step does not reset the VM: it continues from the current IP.
// Step leaves the run state as is until the program completes or halts, at
// which point the run state is set to Completed.
// If the input queue is empty, Step returns StepAwaitInput without blocking.
func (i *Instance) Step() (StepStatus, error) {
	i.ctl.Lock()
	defer i.ctl.Unlock()
	if i.busy() {
		return StepHalt, ErrRunning
	}
	if i.prog.Len() == 0 {
		return StepHalt, ErrEmptyProgram
	}
	st, _, err := i.exec()
	switch st {
	case StepDone:
		i.finish(Completed, nil)
	case StepHalt:
		i.finish(Completed, err)
	default:
		i.setAwaiting(st == StepAwaitInput)
	}
	return st, err
}

// finish publishes the final state of a run.
func (i *Instance) finish(s State, err error) {
	i.setState(s, err)
	if i.logger == nil {
		return
	}
	ip, steps := i.ip, i.steps
	switch {
	case err != nil:
		i.logger.Warn("Run halted", log.Int("ip", ip), log.Int("steps", int(steps)), log.Err(err))
	case s == Stopped:
		i.logger.Debug("Run stopped", log.Int("ip", ip), log.Int("steps", int(steps)))
	default:
		i.logger.Debug("Run completed", log.Int("steps", int(steps)))
	}
}

// run is the VM goroutine. It executes instructions until the program
// completes, halts or quit is closed.
func (i *Instance) run(quit <-chan struct{}, done chan<- struct{}) {
	var (
		state = Stopped
		err   error
		t     *time.Timer
	)
	defer func() {
		if e := recover(); e != nil {
			state = Completed
			err = errors.Errorf("recovered: %v @ip=%d/%d, dp=%d/%d", e, i.ip, i.prog.Len(), i.dp, i.tape.Len())
		}
		if f, ok := i.out.(flusher); ok {
			if ferr := f.Flush(); ferr != nil && err == nil {
				err = errors.Wrap(ferr, "output flush failed")
			}
		}
		i.finish(state, err)
		close(done)
	}()

	for {
		select {
		case <-quit:
			return
		default:
		}
		st, paced, serr := i.exec()
		switch st {
		case StepDone:
			state = Completed
			return
		case StepHalt:
			state, err = Completed, serr
			return
		case StepAwaitInput:
			i.setAwaiting(true)
			select {
			case <-quit:
				return
			case <-i.in.ready:
			}
			i.setAwaiting(false)
			continue
		}
		if !paced || i.delay <= 0 {
			continue
		}
		if t == nil {
			t = time.NewTimer(i.delay)
		} else {
			t.Reset(i.delay)
		}
		select {
		case <-quit:
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// exec executes the instruction at IP and publishes the new VM state. paced
// is false for no-ops, which are not subject to the instance delay.
//
// If an error occurs, the IP will point to the instruction that triggered the
// error.
func (i *Instance) exec() (st StepStatus, paced bool, err error) {
	if i.ip >= i.prog.Len() {
		return StepDone, false, nil
	}
	var (
		cell bool
		out  = -1
	)
	switch op := i.prog.At(i.ip); op {
	case OpRight:
		i.dp++
		i.tape.grow(i.dp)
		i.ip++
	case OpLeft:
		if i.dp > 0 {
			i.dp--
		}
		i.ip++
	case OpInc:
		i.tape.Inc(i.dp)
		cell = true
		i.ip++
	case OpDec:
		i.tape.Dec(i.dp)
		cell = true
		i.ip++
	case OpOut:
		c := i.tape.Get(i.dp)
		if i.out != nil {
			if err = writeByte(i.out, c); err != nil {
				return StepHalt, false, errors.Wrapf(err, "output write failed @ip=%d", i.ip)
			}
			if f, ok := i.out.(flusher); ok && c == '\n' {
				if err = f.Flush(); err != nil {
					return StepHalt, false, errors.Wrapf(err, "output flush failed @ip=%d", i.ip)
				}
			}
		}
		out = int(c)
		i.ip++
	case OpIn:
		c, ok, eof := i.in.pop()
		switch {
		case ok:
			i.tape.Set(i.dp, c)
		case eof:
			i.tape.Set(i.dp, i.eof.apply(i.tape.Get(i.dp)))
		default:
			return StepAwaitInput, false, nil
		}
		cell = true
		i.ip++
	case OpJz:
		if i.tape.Get(i.dp) != 0 {
			i.ip++
		} else if m := i.prog.Match(i.ip); m < 0 {
			i.ip = i.prog.Len()
		} else {
			i.ip = m + 1
		}
	case OpJnz:
		if i.tape.Get(i.dp) == 0 {
			i.ip++
		} else if m := i.prog.Match(i.ip); m < 0 {
			return StepHalt, false, errors.Wrapf(ErrUnmatchedBracket, "@ip=%d", i.ip)
		} else {
			i.ip = m + 1
		}
	default:
		i.ip++
		i.steps++
		i.publish(false, -1)
		return StepContinue, false, nil
	}
	i.steps++
	i.publish(cell, out)
	return StepContinue, true, nil
}
