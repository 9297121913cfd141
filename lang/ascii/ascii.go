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

// Package ascii provides utility functions and types to run Intcode programs
// that talk ASCII: they read commands as lines of text terminated by '\n' and
// output text, possibly mixed with non-ASCII values.
package ascii

import (
	"strings"

	"github.com/db47h/intcode/vm"
)

// Encode converts lines of text to input values. Each line is terminated by a
// '\n'.
//
// Lines are encoded byte by byte: text outside the ASCII range yields one value
// in 128-255 per byte of its UTF-8 encoding, and invalid UTF-8 is passed
// through unchanged.
func Encode(lines ...string) []vm.Cell {
	var in []vm.Cell
	for _, l := range lines {
		for k := 0; k < len(l); k++ {
			in = append(in, vm.Cell(l[k]))
		}
		in = append(in, '\n')
	}
	return in
}

// IsText returns true if v is an ASCII character.
func IsText(v vm.Cell) bool {
	return v >= 0 && v < 128
}

// Decode splits program output into text and non-ASCII values, in order of
// appearance.
func Decode(out []vm.Cell) (text string, values []vm.Cell) {
	var sb strings.Builder
	for _, v := range out {
		if IsText(v) {
			sb.WriteByte(byte(v))
		} else {
			values = append(values, v)
		}
	}
	return sb.String(), values
}
