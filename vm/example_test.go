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
	"fmt"

	"github.com/db47h/intcode/vm"
)

// Shows how to drive an instance that needs more input than initially
// provided: Run returns NeedsInput and execution resumes where it left off
// once input is pushed.
func ExampleInstance_Run() {
	// outputs 1 if its input is equal to 8, 0 otherwise, then halts.
	prog, err := vm.ParseString("3,9,8,9,10,9,4,9,99,-1,8")
	if err != nil {
		panic(err)
	}
	i, err := vm.New(prog)
	if err != nil {
		panic(err)
	}

	for {
		st, err := i.Run(0)
		if err != nil {
			panic(err)
		}
		fmt.Println(st)
		if st == vm.Halted {
			break
		}
		i.PushInput(8)
	}
	fmt.Println(i.TakeOutput())

	// Output:
	// needs input
	// halted
	// [1]
}

// An output quota of 1 makes Run return after each output value.
func ExampleInstance_Run_quota() {
	i, err := vm.New([]vm.Cell{104, 1, 104, 2, 99})
	if err != nil {
		panic(err)
	}
	for {
		st, err := i.Run(1)
		if err != nil {
			panic(err)
		}
		fmt.Println(st, i.TakeOutput())
		if st == vm.Halted {
			break
		}
	}

	// Output:
	// produced output [1]
	// produced output [2]
	// halted []
}

// Memory can be patched before running a program.
func ExampleInstance_Poke() {
	prog, _ := vm.ParseString("1,0,0,0,99")
	i, _ := vm.New(prog)
	i.Poke(1, 4)
	i.Poke(2, 4)
	i.Run(0)
	fmt.Println(i.Peek(0))

	// Output:
	// 198
}
