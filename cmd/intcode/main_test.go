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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fileName, []byte(data), 0o600))
	return fileName
}

func execute(a *app, args ...string) (string, error) {
	var out, log bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&log)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun(t *testing.T) {
	echo := writeFile(t, "echo.txt", "3,0,4,0,99\n")
	patched := writeFile(t, "patch.txt", "4,5,99,0,0,7")
	text := writeFile(t, "text.s", `
	out 'h'
	out 'i'
	out 10
	out 1000
	hlt
`)
	tests := []struct {
		name string
		args []string
		out  string
	}{
		{"input", []string{"run", "-i", "42", echo}, "42\n"},
		{"text", []string{"run", "-t", "x", echo}, "120\n"},
		{"patch", []string{"run", "--set", "5=13", patched}, "13\n"},
		{"ascii", []string{"run", "--ascii", text}, "hi\n1000\n"},
		{"trace", []string{"run", "--trace", "-i", "7", echo}, "7\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := execute(new(app), test.args...)
			require.NoError(t, err)
			assert.Equal(t, test.out, out)
		})
	}
}

func TestRun_save(t *testing.T) {
	prog := writeFile(t, "prog.txt", "1,0,0,0,99")
	save := filepath.Join(t.TempDir(), "out.txt")
	out, err := execute(new(app), "run", "-o", save, prog)
	require.NoError(t, err)
	assert.Empty(t, out)
	mem, err := vm.Load(save)
	require.NoError(t, err)
	assert.Equal(t, vm.Memory{2, 0, 0, 0, 99}, mem)
}

func TestRun_errors(t *testing.T) {
	_, err := execute(new(app), "run", writeFile(t, "in.txt", "3,0,99"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs input")

	_, err = execute(new(app), "run", "--set", "x", writeFile(t, "p.txt", "99"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "addr=value")

	_, err = execute(new(app), "run", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestRun_outputBeforeFault(t *testing.T) {
	out, err := execute(new(app), "run", writeFile(t, "fault.txt", "104,7,104,8,42"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad opcode")
	assert.Equal(t, "7,8\n", out)
}

func TestAtExit_debug(t *testing.T) {
	a := &app{debug: true}
	_, err := execute(a, "run", writeFile(t, "fault.txt", "1,0,0,0,77"))
	require.Error(t, err)
	require.NotNil(t, a.inst)

	var buf bytes.Buffer
	assert.Equal(t, 1, atExit(a, &buf, err))
	s := buf.String()
	assert.Contains(t, s, "bad opcode")
	assert.Contains(t, s, "pc=4 base=0")
	assert.Contains(t, s, "2,0,0,0,77\n")
	assert.Contains(t, s, "at 4: .data 77")

	buf.Reset()
	assert.Equal(t, 0, atExit(a, &buf, nil))
	assert.Empty(t, buf.String())
}

func TestAsm(t *testing.T) {
	src := writeFile(t, "prog.s", "\tout 42\n\thlt\n")
	out, err := execute(new(app), "asm", src)
	require.NoError(t, err)
	assert.Equal(t, "104,42,99\n", out)

	dis, err := execute(new(app), "disasm", writeFile(t, "prog.txt", out))
	require.NoError(t, err)
	assert.Equal(t, "         0\tout 42\n         2\thlt\n", dis)
}

func TestAmp(t *testing.T) {
	prog := writeFile(t, "amp.txt", "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0")
	out, err := execute(new(app), "amp", "--workers", "2", prog)
	require.NoError(t, err)
	assert.Equal(t, "43210 [4 3 2 1 0]\n", out)

	loop := writeFile(t, "loop.txt", "3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5")
	out, err = execute(new(app), "amp", "--feedback", loop)
	require.NoError(t, err)
	assert.Equal(t, "139629729 [9 8 7 6 5]\n", out)
}

// ring relays a packet around a ring of 5 nodes; the last node sends it to the
// NAT with Y decremented until it reaches 0.
const ring = `
	.equ N 5
	in [addr]
	add [addr], 1, [next]
	jnz [addr], loop
	out 1
	out 5
	out 3
loop:	in [x]
	eq [x], -1, [t]
	jnz [t], loop
	in [y]
	eq [next], N, [t]
	jnz [t], nat
	out [next]
	out [x]
	out [y]
	jnz 1, loop
nat:	lt 0, [y], [t]
	jz [t], send
	add [y], -1, [y]
send:	out 255
	out [x]
	out [y]
	jnz 1, loop
addr:	.data 0
next:	.data 0
x:	.data 0
y:	.data 0
t:	.data 0
`

func TestNetwork(t *testing.T) {
	prog := writeFile(t, "ring.s", ring)
	out, err := execute(new(app), "network", "--size", "5", prog)
	require.NoError(t, err)
	assert.Equal(t, "5 2\n", out)

	out, err = execute(new(app), "network", "--size", "5", "--mode", "wake", "--idle-passes", "2", prog)
	require.NoError(t, err)
	assert.Equal(t, "5 0\n", out)

	_, err = execute(new(app), "network", "--size", "5", "--mode", "bogus", prog)
	assert.Error(t, err)
}

func TestParsePatch(t *testing.T) {
	p, err := parsePatch(" 1 = 12 ")
	require.NoError(t, err)
	assert.Equal(t, patch{1, 12}, p)

	for _, s := range []string{"", "1", "-1=2", "a=2", "1=b"} {
		_, err = parsePatch(s)
		assert.Error(t, err, s)
	}
}
