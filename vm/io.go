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

// PushInput appends values to the input queue.
func (i *Instance) PushInput(values ...Cell) {
	i.input = append(i.input, values...)
}

// SetInput replaces the input queue with values.
func (i *Instance) SetInput(values ...Cell) {
	i.input = append(i.input[:0:0], values...)
}

// PendingInput returns the number of values waiting in the input queue.
func (i *Instance) PendingInput() int {
	return len(i.input)
}

// Output returns the output buffer without consuming it. Changing the
// returned values affects the buffer.
func (i *Instance) Output() []Cell {
	return i.output
}

// TakeOutput returns the output buffer and clears it.
func (i *Instance) TakeOutput() []Cell {
	out := i.output
	i.output = nil
	return out
}
