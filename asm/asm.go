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

package asm

import (
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
)

// maximum number of errors reported by Assemble
const maxErrors = 10

var mnemonics = map[string]vm.Cell{}

func init() {
	for _, op := range []vm.Cell{vm.OpAdd, vm.OpMul, vm.OpIn, vm.OpOut, vm.OpJnz, vm.OpJz, vm.OpLt, vm.OpEq, vm.OpArb, vm.OpHalt} {
		info, _ := vm.Lookup(op)
		mnemonics[info.Name] = op
	}
}

// Error is a single assembly error.
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// ErrAsm is the error type returned by Assemble. It lists the errors found in
// source order.
type ErrAsm []Error

func (e ErrAsm) Error() string {
	l := make([]string, len(e))
	for i := range e {
		l[i] = e[i].Error()
	}
	return strings.Join(l, "\n")
}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting program and error if any.
//
// Then name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value that
// will contain up to 10 entries.
func Assemble(name string, r io.Reader) (prog []vm.Cell, err error) {
	p := newParser()
	prog, err = p.Parse(name, r)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

// operand formats a parameter value according to its addressing mode.
func operand(v vm.Cell, m vm.Mode) string {
	switch m {
	case vm.Position:
		return "[" + strconv.FormatInt(int64(v), 10) + "]"
	case vm.Relative:
		switch {
		case v == 0:
			return "[rb]"
		case v < 0:
			return "[rb" + strconv.FormatInt(int64(v), 10) + "]"
		default:
			return "[rb+" + strconv.FormatInt(int64(v), 10) + "]"
		}
	}
	return strconv.FormatInt(int64(v), 10)
}

// decode returns the description and parameter modes of the instruction word
// at pc. The boolean result is false if the cell at pc cannot be decoded as a
// complete and valid instruction.
func decode(mem []vm.Cell, pc int) (vm.OpInfo, []vm.Mode, bool) {
	word := mem[pc]
	info, ok := vm.Lookup(vm.Opcode(word))
	if !ok || word < 0 || pc+info.Params >= len(mem) {
		return info, nil, false
	}
	modes := make([]vm.Mode, info.Params)
	for n := range modes {
		m := vm.ParamMode(word, n+1)
		if !m.Valid() || (n+1 == info.Dst && m == vm.Immediate) {
			return info, nil, false
		}
		modes[n] = m
	}
	// reject stray mode digits
	if vm.Word(vm.Opcode(word), modes...) != word {
		return info, nil, false
	}
	return info, modes, true
}

// Disassemble writes a disassembly of the cells in the given slice at position
// pc to the specified io.Writer and returns the position of the next
// instruction and any write error.
//
// Cells that do not decode to a valid instruction are written as a .data
// directive. The output can be fed back to Assemble.
func Disassemble(mem []vm.Cell, pc int, w io.Writer) (next int, err error) {
	ew := iox.NewErrWriter(w)

	info, modes, ok := decode(mem, pc)
	if !ok {
		ew.WriteString(".data ")
		ew.WriteString(strconv.FormatInt(int64(mem[pc]), 10))
		return pc + 1, ew.Err
	}
	ew.WriteString(info.Name)
	for n, m := range modes {
		if n == 0 {
			ew.Write([]byte{' '})
		} else {
			ew.WriteString(", ")
		}
		ew.WriteString(operand(mem[pc+n+1], m))
	}
	return pc + info.Width(), ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first cell (mem[0]). It will return any write error.
func DisassembleAll(mem []vm.Cell, base int, w io.Writer) error {
	ew := iox.NewErrWriter(w)
	for pc := 0; pc < len(mem); {
		ew.Printf("% 10d\t", base+pc)
		pc, _ = Disassemble(mem, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
