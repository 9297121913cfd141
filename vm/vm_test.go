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

package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type C []vm.Cell

func assemble(t testing.TB, name, code string) []vm.Cell {
	t.Helper()
	prog, err := asm.Assemble(name, strings.NewReader(code))
	require.NoError(t, err)
	return prog
}

func setup(t testing.TB, prog []vm.Cell, opts ...vm.Option) *vm.Instance {
	t.Helper()
	i, err := vm.New(prog, opts...)
	require.NoError(t, err)
	return i
}

// check runs i to completion and checks its output.
func check(t *testing.T, i *vm.Instance, output C) {
	t.Helper()
	st, err := i.Run(0)
	require.NoError(t, err, "%+v", err)
	assert.Equal(t, vm.Halted, st)
	assert.Equal(t, output, C(i.TakeOutput()))
}

var tests = [...]struct {
	name   string
	code   string
	input  C
	output C
}{
	{"add", "add [a], [b], [c]\nout [c]\nhlt\na: .data 2\nb: .data 3\nc: .data 0", nil, C{5}},
	{"add_immediate", "add 2, -7, [c]\nout [c]\nhlt\nc: .data 0", nil, C{-5}},
	{"mul", "mul -3, 7, [c]\nout [c]\nhlt\nc: .data 0", nil, C{-21}},
	{"in", "in [c]\nout [c]\nin [c]\nout [c]\nhlt\nc: .data 0", C{42, -1}, C{42, -1}},
	{"out", "out 1\nout [0]\nhlt", nil, C{1, 104}},
	{"jnz", "jnz 0, skip\nout 1\nskip: jnz 7, end\nout 2\nend: hlt", nil, C{1}},
	{"jz", "jz 1, skip\nout 1\nskip: jz 0, end\nout 2\nend: hlt", nil, C{1}},
	{"lt", "lt 1, 2, [c]\nout [c]\nlt 2, 1, [c]\nout [c]\nlt 2, 2, [c]\nout [c]\nhlt\nc: .data 0", nil, C{1, 0, 0}},
	{"eq", "eq 5, 5, [c]\nout [c]\neq -5, 5, [c]\nout [c]\nhlt\nc: .data 0", nil, C{1, 0}},
	{"arb", "arb data+1\narb -1\nout [rb]\nout [rb+1]\nhlt\ndata: .data 11, 12", nil, C{11, 12}},
	{"relative_write", "arb buf\nin [rb+1]\nout [buf+1]\nhlt\nbuf: .data 0, 0", C{9}, C{9}},
	{"grow", "add 3, 4, [1000]\nout [1000]\nout [999]\nout [5000]\nhlt", nil, C{7, 0, 0}},
	{"large", "mul 34915192, 34915192, [c]\nout [c]\nout 1125899906842624\nhlt\nc: .data 0", nil, C{1219070632396864, 1125899906842624}},
}

func TestCore(t *testing.T) {
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			i := setup(t, assemble(t, test.name, test.code), vm.Input(test.input...))
			check(t, i, test.output)
		})
	}
}

const fib = `
	in [n]
	add 0, 0, [a]
	add 1, 0, [b]
loop:	jz [n], done
	add [a], [b], [t]
	add [b], 0, [a]
	add [t], 0, [b]
	add [n], -1, [n]
	jnz 1, loop
done:	out [a]
	hlt
n:	.data 0
a:	.data 0
b:	.data 0
t:	.data 0
`

func TestFib(t *testing.T) {
	prog := assemble(t, "fib", fib)
	for n, want := range map[vm.Cell]vm.Cell{0: 0, 1: 1, 10: 55, 90: 2880067194370816120} {
		check(t, setup(t, prog, vm.Input(n)), C{want})
	}
}

func TestPrograms(t *testing.T) {
	larger := C{3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31,
		1106, 0, 36, 98, 0, 0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104,
		999, 1105, 1, 46, 1101, 1000, 1, 20, 4, 20, 1105, 1, 46, 98, 99}
	quine := C{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}

	tests := []struct {
		name   string
		prog   C
		input  C
		output C
		mem    map[int]vm.Cell
	}{
		{"add_mul", C{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}, nil, nil, map[int]vm.Cell{0: 3500, 3: 70}},
		{"add", C{1, 0, 0, 0, 99}, nil, nil, map[int]vm.Cell{0: 2}},
		{"mul", C{2, 3, 0, 3, 99}, nil, nil, map[int]vm.Cell{3: 6}},
		{"square", C{2, 4, 4, 5, 99, 0}, nil, nil, map[int]vm.Cell{5: 9801}},
		{"self_modify", C{1, 1, 1, 4, 99, 5, 6, 0, 99}, nil, nil, map[int]vm.Cell{0: 30, 4: 2}},
		{"negative", C{1101, 100, -1, 4, 0}, nil, nil, map[int]vm.Cell{4: 99}},
		{"modes", C{1002, 4, 3, 4, 33}, nil, nil, map[int]vm.Cell{4: 99}},
		{"eq8_position", C{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}, C{8}, C{1}, nil},
		{"eq8_position_false", C{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}, C{7}, C{0}, nil},
		{"lt8_position", C{3, 9, 7, 9, 10, 9, 4, 9, 99, -1, 8}, C{5}, C{1}, nil},
		{"eq8_immediate", C{3, 3, 1108, -1, 8, 3, 4, 3, 99}, C{8}, C{1}, nil},
		{"lt8_immediate", C{3, 3, 1107, -1, 8, 3, 4, 3, 99}, C{9}, C{0}, nil},
		{"jump_position_0", C{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9}, C{0}, C{0}, nil},
		{"jump_position_5", C{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9}, C{5}, C{1}, nil},
		{"jump_immediate_0", C{3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1}, C{0}, C{0}, nil},
		{"jump_immediate_3", C{3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1}, C{3}, C{1}, nil},
		{"below_8", larger, C{7}, C{999}, nil},
		{"equal_8", larger, C{8}, C{1000}, nil},
		{"above_8", larger, C{9}, C{1001}, nil},
		{"quine", quine, nil, quine, nil},
		{"16_digits", C{1102, 34915192, 34915192, 7, 4, 7, 99, 0}, nil, C{1219070632396864}, nil},
		{"large_literal", C{104, 1125899906842624, 99}, nil, C{1125899906842624}, nil},
		{"relative_base", C{109, 2000, 109, 19, 204, -34, 99}, nil, C{0}, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			i := setup(t, test.prog, vm.Input(test.input...))
			check(t, i, test.output)
			for addr, v := range test.mem {
				assert.Equal(t, v, i.Peek(addr), "address %d", addr)
			}
		})
	}
}

func TestRun_needsInput(t *testing.T) {
	prog := C{3, 9, 4, 9, 3, 9, 4, 9, 99, 0}
	i := setup(t, prog)

	st, err := i.Run(0)
	require.NoError(t, err)
	assert.Equal(t, vm.NeedsInput, st)
	assert.Equal(t, vm.NeedsInput, i.State())
	assert.Equal(t, 0, i.PC)
	assert.Equal(t, vm.Memory(prog), i.Mem)
	assert.EqualValues(t, 0, i.InstructionCount())

	// resuming without input is harmless
	st, err = i.Run(0)
	require.NoError(t, err)
	assert.Equal(t, vm.NeedsInput, st)

	i.PushInput(5)
	st, err = i.Run(0)
	require.NoError(t, err)
	assert.Equal(t, vm.NeedsInput, st)
	assert.Equal(t, 4, i.PC)
	assert.Equal(t, C{5}, C(i.Output()))

	i.PushInput(6)
	st, err = i.Run(0)
	require.NoError(t, err)
	assert.Equal(t, vm.Halted, st)
	assert.Equal(t, C{5, 6}, C(i.TakeOutput()))
	assert.EqualValues(t, 5, i.InstructionCount())
}

func TestRun_quota(t *testing.T) {
	prog := C{104, 1, 104, 2, 104, 3, 99}
	i := setup(t, prog)

	st, err := i.Run(1)
	require.NoError(t, err)
	assert.Equal(t, vm.ProducedOutput, st)
	assert.Equal(t, C{1}, C(i.TakeOutput()))

	// the quota counts outputs of the current call only
	st, err = i.Run(2)
	require.NoError(t, err)
	assert.Equal(t, vm.ProducedOutput, st)
	assert.Equal(t, C{2, 3}, C(i.TakeOutput()))

	st, err = i.Run(2)
	require.NoError(t, err)
	assert.Equal(t, vm.Halted, st)
	assert.Empty(t, i.TakeOutput())

	// no quota
	i = setup(t, prog)
	st, err = i.Run(0)
	require.NoError(t, err)
	assert.Equal(t, vm.Halted, st)
	assert.Equal(t, C{1, 2, 3}, C(i.Output()))

	// output is kept until taken
	i = setup(t, prog)
	for n := 0; n < 3; n++ {
		st, err = i.Run(1)
		require.NoError(t, err)
		require.Equal(t, vm.ProducedOutput, st)
	}
	st, err = i.Run(1)
	require.NoError(t, err)
	assert.Equal(t, vm.Halted, st)
	assert.Equal(t, C{1, 2, 3}, C(i.Output()))
}

func TestNew_copy(t *testing.T) {
	prog := C{1, 0, 0, 0, 99}
	i := setup(t, prog)
	check(t, i, nil)
	assert.Equal(t, C{1, 0, 0, 0, 99}, prog)
	assert.EqualValues(t, 2, i.Peek(0))

	prog[4] = 42
	assert.EqualValues(t, 99, i.Peek(4))
}

func TestStartAt(t *testing.T) {
	prog := C{99, 104, 7, 99}
	check(t, setup(t, prog, vm.StartAt(1)), C{7})

	_, err := vm.New(prog, vm.StartAt(-1))
	assert.Error(t, err)
}

func TestPoke(t *testing.T) {
	// patch the first operand of add before running
	prog := C{1, 5, 6, 0, 99, 30, 40}
	i := setup(t, prog)
	i.Poke(1, 6)
	i.Poke(10, 3)
	check(t, i, nil)
	assert.EqualValues(t, 80, i.Peek(0))
	assert.Len(t, i.Mem, 11)
	assert.EqualValues(t, 0, i.Peek(100))
}

func TestClone(t *testing.T) {
	prog := assemble(t, "clone", "in [c]\nout [c]\nin [c]\nout [c]\nhlt\nc: .data 0")
	i := setup(t, prog, vm.Input(1))
	st, err := i.Run(0)
	require.NoError(t, err)
	require.Equal(t, vm.NeedsInput, st)

	c := i.Clone()
	c.PushInput(3)
	check(t, c, C{1, 3})

	i.PushInput(2)
	check(t, i, C{1, 2})
	assert.EqualValues(t, 2, i.Peek(len(prog)-1))
	assert.EqualValues(t, 3, c.Peek(len(prog)-1))
}

func TestTrace(t *testing.T) {
	var pcs []int
	i := setup(t, C{104, 1, 1101, 1, 2, 7, 99, 0}, vm.Trace(func(i *vm.Instance, pc int) {
		pcs = append(pcs, pc)
	}))
	check(t, i, C{1})
	assert.Equal(t, []int{0, 2, 6}, pcs)
	assert.EqualValues(t, 3, i.InstructionCount())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	i := setup(t, C{3, 5, 4, 5, 99, 0}, vm.Logger(zap.New(core)))
	st, err := i.Run(0)
	require.NoError(t, err)
	require.Equal(t, vm.NeedsInput, st)
	i.PushInput(12)
	check(t, i, C{12})

	entries := logs.FilterMessage("suspend").AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "needs input", entries[0].ContextMap()["state"])
	assert.Equal(t, "halted", entries[1].ContextMap()["state"])
	assert.EqualValues(t, 4, entries[1].ContextMap()["pc"])
}

func TestDump(t *testing.T) {
	i := setup(t, C{104, -1, 99})
	check(t, i, C{-1})
	var b bytes.Buffer
	require.NoError(t, i.Dump(&b))
	lines := strings.Split(b.String(), "\n")
	assert.Equal(t, "pc=2 base=0 state=halted instructions=2", lines[0])
	assert.Equal(t, "104,-1,99", lines[3])
}

func Benchmark_Fib(b *testing.B) {
	prog := assemble(b, "fib", fib)
	for c := 0; c < b.N; c++ {
		i, _ := vm.New(prog, vm.Input(90))
		i.Run(0)
	}
}
