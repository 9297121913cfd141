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

// Package vm implements the Intcode VM.
//
// Intcode is a stored-program register machine: a single memory of 64 bit
// signed cells holds both the program and its data, a PC points to the next
// instruction and a relative base register is used by relative addressing.
//
// An instruction word encodes its opcode in its two lowest decimal digits and
// the addressing mode of each parameter in the following digits:
//
//	word = opcode + 100*mode1 + 1000*mode2 + 10000*mode3
//
// Mode 0 (Position) means the parameter is an address, mode 1 (Immediate) that
// it is a literal value and mode 2 (Relative) that it is an offset from the
// relative base.
//
// Memory behaves as if it was unbounded: reads past its end return 0 and writes
// past its end grow it.
//
// The VM never blocks. Input is taken from a FIFO queue filled by the host
// with PushInput or SetInput, and output values accumulate in a buffer read
// back with Output or TakeOutput. Run returns NeedsInput when the program
// tries to read from an empty queue, ProducedOutput once a given number of
// values have been output, or Halted. This lets a host drive any number of
// instances from a single goroutine, like the pipeline and network packages
// do.
//
// For performance reasons, the PC is not incremented in a single place, rather
// each opcode deals with the PC as needed.
package vm
