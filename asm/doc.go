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

// Package asm provides utility functions to assemble and disassemble Intcode
// VM code.
//
// Supported assembler mnemonics:
//
//	a and b are input parameters, dst is the parameter written to.
//
//	opcode	asm	params		description
//	------	---	------		---------------------------------------------------
//	1	add	a, b, dst	dst = a + b
//	2	mul	a, b, dst	dst = a * b
//	3	in	dst		dst = next input value, suspends if there is none
//	4	out	a		output a
//	5	jnz	a, b		jump to b if a != 0
//	6	jz	a, b		jump to b if a == 0
//	7	lt	a, b, dst	dst = 1 if a < b, else 0
//	8	eq	a, b, dst	dst = 1 if a == b, else 0
//	9	arb	a		add a to the relative base
//	99	hlt			halt
//
// Parameters:
//
// The addressing mode of a parameter is given by its syntax:
//
//	42		immediate: the value 42
//	[42]		position: the value at address 42
//	[rb+2]		relative: the value at address relative base + 2
//	[rb-2]		relative, negative offset
//	[rb]		relative, zero offset
//
// The assembler sets the mode digits of the instruction word accordingly, so
// "add [rb+1], 7, [20]" compiles to 1201, 1, 7, 20. The dst parameter of add,
// mul, in, lt and eq cannot be immediate.
//
// Values are expressions: a sum or difference of integer literals (any Go
// integer syntax), Go character literals and symbol names, like in
// "jnz [count], loop+2" or "out 'A'-1".
//
// Statements:
//
// There is one statement per line. Comments are Go style comments (// and
// /* */).
//
// Labels are defined by suffixing them with a colon (no space before the
// colon) and evaluate to the address of the next cell. Forward references are
// ok. A label definition can be followed by a statement on the same line:
//
//	loop:	in [rb]
//		jz [rb], done
//		jnz 1, loop
//	done:	hlt
//
// The name "rb" is reserved.
//
// Assembler directives:
//
//	.data <value>, ...
//
// Compiles the specified values as-is. Values can also be Go string literals,
// in which case each character is compiled to one cell. This is primarily used
// for variables and ASCII text:
//
//	count:	.data 10
//	msg:	.data "Hello\n", 0
//
//	.equ <IDENTIFIER> <value>
//
// defines a constant value. The value expression can only reference other
// constants or labels defined before the .equ directive.
package asm
