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
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Guest program faults. Run reports them as an *Error whose cause is one of
// these.
var (
	ErrBadOpcode       = errors.New("bad opcode")
	ErrBadMode         = errors.New("bad addressing mode")
	ErrImmediateWrite  = errors.New("write to immediate parameter")
	ErrNegativeAddress = errors.New("negative address")
	ErrAddressRange    = errors.New("address out of range")
	ErrHalted          = errors.New("instance halted")
)

// Error is a fatal error raised by a guest program. PC and Word are the
// address and value of the faulting instruction.
type Error struct {
	PC   int
	Word Cell
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pc=%d word=%d: %v", e.PC, e.Word, e.Err)
}

// Cause returns the underlying cause of the error.
func (e *Error) Cause() error { return e.Err }

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Err }

func fault(err error) *Error {
	return &Error{Err: err}
}

func negativeAddress(addr int) *Error {
	return fault(errors.Wrapf(ErrNegativeAddress, "address %d", addr))
}

func addressRange(addr int) *Error {
	return fault(errors.Wrapf(ErrAddressRange, "address %d", addr))
}

// address converts a cell value to a memory address.
func address(v Cell) int {
	if v < 0 {
		panic(negativeAddress(int(v)))
	}
	return int(v)
}

// addr resolves the address of the n-th parameter of the instruction at pc.
func (i *Instance) addr(word Cell, pc, n int) int {
	switch m := ParamMode(word, n); m {
	case Position:
		return address(i.Mem.Read(pc + n))
	case Immediate:
		return pc + n
	case Relative:
		return address(i.base + i.Mem.Read(pc+n))
	default:
		panic(fault(errors.Wrapf(ErrBadMode, "parameter %d: %v", n, m)))
	}
}

// param returns the value of the n-th parameter of the instruction at pc.
func (i *Instance) param(word Cell, pc, n int) Cell {
	return i.Mem.Read(i.addr(word, pc, n))
}

// dst returns the write address of the n-th parameter of the instruction at pc.
func (i *Instance) dst(word Cell, pc, n int) int {
	if ParamMode(word, n) == Immediate {
		panic(fault(errors.Wrapf(ErrImmediateWrite, "parameter %d", n)))
	}
	return i.addr(word, pc, n)
}

func bool2Cell(b bool) Cell {
	if b {
		return 1
	}
	return 0
}

// Run resumes execution of the VM until the guest program needs input, has
// produced quota outputs during this call, or halts. A quota <= 0 never
// pauses on output.
//
// When Run returns NeedsInput, the PC points to the input instruction, which
// will be executed again on the next call. Call PushInput or SetInput before
// resuming.
//
// Guest program faults are returned as an *Error wrapped with a stack trace;
// the PC is left on the faulting instruction. Running a halted instance
// returns ErrHalted.
func (i *Instance) Run(quota int) (st State, err error) {
	if i.state == Halted {
		return Halted, errors.WithStack(&Error{PC: i.PC, Word: i.Mem.Read(i.PC), Err: ErrHalted})
	}
	defer func() {
		if e := recover(); e != nil {
			f, ok := e.(*Error)
			if !ok {
				panic(e)
			}
			f.PC = i.PC
			if i.PC >= 0 {
				f.Word = i.Mem.Read(i.PC)
			}
			i.log.Debug("fault", zap.Int("pc", f.PC), zap.Int64("word", int64(f.Word)), zap.Error(f.Err))
			st, err = i.state, errors.WithStack(f)
		}
	}()
	i.state = Running
	var outputs int
	for {
		pc := i.PC
		word := i.Mem.Read(pc)
		if i.trace != nil {
			i.trace(i, pc)
		}
		switch Opcode(word) {
		case OpAdd:
			a, b := i.param(word, pc, 1), i.param(word, pc, 2)
			i.Mem.Write(i.dst(word, pc, 3), a+b)
			i.PC += 4
		case OpMul:
			a, b := i.param(word, pc, 1), i.param(word, pc, 2)
			i.Mem.Write(i.dst(word, pc, 3), a*b)
			i.PC += 4
		case OpIn:
			if len(i.input) == 0 {
				return i.suspend(NeedsInput), nil
			}
			i.Mem.Write(i.dst(word, pc, 1), i.input[0])
			i.input = i.input[1:]
			i.PC += 2
		case OpOut:
			i.output = append(i.output, i.param(word, pc, 1))
			i.PC += 2
			outputs++
			if quota > 0 && outputs >= quota {
				i.insCount++
				return i.suspend(ProducedOutput), nil
			}
		case OpJnz:
			if i.param(word, pc, 1) != 0 {
				i.PC = address(i.param(word, pc, 2))
			} else {
				i.PC += 3
			}
		case OpJz:
			if i.param(word, pc, 1) == 0 {
				i.PC = address(i.param(word, pc, 2))
			} else {
				i.PC += 3
			}
		case OpLt:
			a, b := i.param(word, pc, 1), i.param(word, pc, 2)
			i.Mem.Write(i.dst(word, pc, 3), bool2Cell(a < b))
			i.PC += 4
		case OpEq:
			a, b := i.param(word, pc, 1), i.param(word, pc, 2)
			i.Mem.Write(i.dst(word, pc, 3), bool2Cell(a == b))
			i.PC += 4
		case OpArb:
			i.base += i.param(word, pc, 1)
			i.PC += 2
		case OpHalt:
			i.insCount++
			return i.suspend(Halted), nil
		default:
			panic(fault(ErrBadOpcode))
		}
		i.insCount++
	}
}

func (i *Instance) suspend(st State) State {
	i.state = st
	i.log.Debug("suspend",
		zap.Stringer("state", st),
		zap.Int("pc", i.PC),
		zap.Int("outputs", len(i.output)),
		zap.Int("inputs", len(i.input)))
	return st
}
