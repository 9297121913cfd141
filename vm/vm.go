// This file is part of intcode - https://github.com/db47h/intcode
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

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Cell is the raw type stored in a memory location.
type Cell int64

// State is the execution state of an Instance.
type State int

// Instance states. Running is never returned by Run; it is the state of a
// new instance and of an instance that stopped on a fault.
const (
	Running State = iota
	NeedsInput
	ProducedOutput
	Halted
)

var stateNames = [...]string{"running", "needs input", "produced output", "halted"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid state"
}

// Instance represents an Intcode VM instance.
type Instance struct {
	PC       int    // Program Counter (aka. Instruction Pointer)
	Mem      Memory // Memory image
	base     Cell
	input    []Cell
	output   []Cell
	state    State
	insCount int64
	log      *zap.Logger
	trace    TraceFunc
}

// Option interface
type Option func(*Instance) error

// Input appends the given values to the input queue.
func Input(values ...Cell) Option {
	return func(i *Instance) error { i.PushInput(values...); return nil }
}

// StartAt sets the initial value of the PC. The default is 0.
func StartAt(pc int) Option {
	return func(i *Instance) error {
		if pc < 0 {
			return errors.Errorf("invalid start address %d", pc)
		}
		i.PC = pc
		return nil
	}
}

// Logger sets the logger used to report suspensions and faults at debug
// level. The default is a no-op logger.
func Logger(l *zap.Logger) Option {
	return func(i *Instance) error {
		if l == nil {
			l = zap.NewNop()
		}
		i.log = l
		return nil
	}
}

// TraceFunc is the function prototype for trace hooks. It is called before
// dispatching the instruction at address pc.
type TraceFunc func(i *Instance, pc int)

// Trace sets a trace hook. A nil fn disables tracing.
func Trace(fn TraceFunc) Option {
	return func(i *Instance) error { i.trace = fn; return nil }
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode Virtual Machine instance.
//
// The program is copied, so that several instances can be created from the
// same program without sharing memory.
//
// Options will be set by calling SetOptions.
func New(program []Cell, opts ...Option) (*Instance, error) {
	i := &Instance{
		Mem: append(Memory(nil), program...),
		log: zap.NewNop(),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// Clone returns a deep copy of the instance. The clone shares the logger and
// trace hook of i, but nothing else.
func (i *Instance) Clone() *Instance {
	c := *i
	c.Mem = append(Memory(nil), i.Mem...)
	c.input = append([]Cell(nil), i.input...)
	c.output = append([]Cell(nil), i.output...)
	return &c
}

// Base returns the current value of the relative base register.
func (i *Instance) Base() Cell {
	return i.base
}

// State returns the state of the instance after the last call to Run.
func (i *Instance) State() State {
	return i.state
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Peek returns the value at address addr. It panics if addr is negative.
func (i *Instance) Peek(addr int) Cell {
	return i.Mem.Read(addr)
}

// Poke stores v at address addr. It panics if addr is negative.
func (i *Instance) Poke(addr int, v Cell) {
	i.Mem.Write(addr, v)
}

// Dump dumps the virtual machine registers, queues and memory to the
// specified io.Writer.
func (i *Instance) Dump(w io.Writer) error {
	ew := iox.NewErrWriter(w)
	ew.Printf("pc=%d base=%d state=%s instructions=%d\n", i.PC, i.base, i.state, i.insCount)
	ew.Printf("input=%v\noutput=%v\n", i.input, i.output)
	if ew.Err != nil {
		return ew.Err
	}
	return Encode(ew, i.Mem)
}
