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
	"io"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
)

// dumpVM writes the registers and memory of i to w, followed by a disassembly
// of the instruction at PC when it is within memory.
func dumpVM(i *vm.Instance, w io.Writer) error {
	ew := iox.NewErrWriter(w)
	i.Dump(ew)
	if i.PC >= 0 && i.PC < len(i.Mem) {
		ew.Printf("at %d: ", i.PC)
		asm.Disassemble(i.Mem, i.PC, ew)
		ew.Write([]byte{'\n'})
	}
	return ew.Err
}
