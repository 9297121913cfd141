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

import "strconv"

// Intcode Virtual Machine Opcodes.
const (
	OpAdd  Cell = 1
	OpMul  Cell = 2
	OpIn   Cell = 3
	OpOut  Cell = 4
	OpJnz  Cell = 5
	OpJz   Cell = 6
	OpLt   Cell = 7
	OpEq   Cell = 8
	OpArb  Cell = 9
	OpHalt Cell = 99
)

// Mode is a parameter addressing mode.
type Mode int

// Addressing modes.
const (
	Position  Mode = iota // parameter is an address
	Immediate             // parameter is a literal value
	Relative              // parameter is an offset from the relative base
)

var modeNames = [...]string{"position", "immediate", "relative"}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Valid returns true if m is one of Position, Immediate or Relative.
func (m Mode) Valid() bool {
	return m >= Position && m <= Relative
}

// OpInfo describes an instruction.
type OpInfo struct {
	Name   string // assembler mnemonic
	Params int    // number of parameters
	Dst    int    // 1-based index of the parameter written to, 0 if none
}

// Width returns the number of cells used by the instruction, opcode included.
func (o OpInfo) Width() int {
	return o.Params + 1
}

var opcodes = map[Cell]OpInfo{
	OpAdd:  {"add", 3, 3},
	OpMul:  {"mul", 3, 3},
	OpIn:   {"in", 1, 1},
	OpOut:  {"out", 1, 0},
	OpJnz:  {"jnz", 2, 0},
	OpJz:   {"jz", 2, 0},
	OpLt:   {"lt", 3, 3},
	OpEq:   {"eq", 3, 3},
	OpArb:  {"arb", 1, 0},
	OpHalt: {"hlt", 0, 0},
}

// Lookup returns the description of the given opcode. The boolean result is
// false if op is not a valid opcode.
func Lookup(op Cell) (OpInfo, bool) {
	info, ok := opcodes[op]
	return info, ok
}

var modeDiv = [...]Cell{1, 100, 1000, 10000}

// Opcode returns the opcode part of an instruction word.
func Opcode(word Cell) Cell {
	return word % 100
}

// ParamMode returns the addressing mode of the n-th parameter (1 to 3) of an
// instruction word. The returned mode is not validated.
func ParamMode(word Cell, n int) Mode {
	return Mode(word / modeDiv[n] % 10)
}

// Word builds an instruction word from an opcode and parameter modes.
func Word(op Cell, modes ...Mode) Cell {
	w := op
	for n, m := range modes {
		w += Cell(m) * modeDiv[n+1]
	}
	return w
}
