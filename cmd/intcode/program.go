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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// loadProgram loads a program file. Files with a .s or .asm extension are
// assembled, anything else is parsed as comma separated cells.
func loadProgram(fileName string) ([]vm.Cell, error) {
	switch filepath.Ext(fileName) {
	case ".s", ".asm":
		f, err := os.Open(fileName)
		if err != nil {
			return nil, errors.Wrap(err, "load program")
		}
		defer f.Close()
		return asm.Assemble(fileName, f)
	default:
		return vm.Load(fileName)
	}
}

// parseCells parses a comma separated list of cells. An empty string yields
// no cells.
func parseCells(s string) ([]vm.Cell, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return vm.ParseString(s)
}

type patch struct {
	addr int
	v    vm.Cell
}

// parsePatch parses a memory patch in the form addr=value.
func parsePatch(s string) (patch, error) {
	a, v, ok := strings.Cut(s, "=")
	if !ok {
		return patch{}, errors.Errorf("bad patch %q: expected addr=value", s)
	}
	addr, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil || addr < 0 {
		return patch{}, errors.Errorf("bad patch %q: invalid address", s)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return patch{}, errors.Wrapf(err, "bad patch %q", s)
	}
	return patch{addr, vm.Cell(n)}, nil
}
