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

// The intcode command line tool runs Intcode programs and is a showcase for the
// packages github.com/db47h/intcode/vm, asm, pipeline, network and lang/ascii.
//
// Usage:
//
//	intcode [command] [flags] program
//
// Commands:
//
//	run       run a program until it halts and print its output
//	asm       assemble a source file
//	disasm    disassemble a program
//	amp       find the phase settings giving the highest amplifier signal
//	network   run a network of instances connected through a NAT
//	console   run an ASCII program interactively
//
// Global flags:
//
//	--config file
//		  YAML configuration file
//	--log-level level
//		  log level: debug, info, warn or error (default "info")
//	--debug
//		  print stack traces and a memory dump on fatal errors
//
// Program files are comma separated lists of integers. Files with a .s or .asm
// extension are assembled on the fly, see package asm for the syntax.
//
// run: -i/--input sets input values, -t/--text appends a line of ASCII input,
// --set addr=value patches memory before running (e.g. --set 1=12 --set 2=2).
// With --ascii, ASCII output is printed as text. -o/--save writes the final
// memory to a file. --trace logs every executed instruction.
//
// amp: tries every permutation of --phases (default 0,1,2,3,4, or 5,6,7,8,9
// with --feedback) and prints the highest signal followed by the phases.
//
// network: --mode nat prints the X and Y values of the first packet sent to the
// NAT. --mode wake prints the first packet sent twice in a row by the NAT to
// node 0.
//
// console: commands from a --script file are sent first, then commands are
// read from the terminal with line editing and history.
//
// Configuration:
//
// Defaults can be changed with a YAML file:
//
//	log:
//	  level: info
//	  format: console   # or json
//	pipeline:
//	  workers: 8
//	network:
//	  size: 50
//	  nat_address: 255
//	  idle_passes: 1
//	console:
//	  prompt: "> "
//	  history_file: /tmp/intcode_history
//
// Every value can be overridden with an environment variable named after its
// path, like INTCODE_LOG_LEVEL or INTCODE_NETWORK_IDLE_PASSES. Command line
// flags take precedence over both.
package main
