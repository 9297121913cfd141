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

// Package pipeline connects Intcode VM instances in series, each instance
// feeding its output to the next one, like a chain of amplifiers.
//
// Each instance is started with a phase setting as its first input value. In a
// Chain, each instance runs once; in a Feedback loop, the output of the last
// instance is fed back to the first one until the program halts.
package pipeline

import (
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// ErrNoOutput is returned when an instance stops without producing the
// expected output value.
var ErrNoOutput = errors.New("no output")

func start(program []vm.Cell, phases []vm.Cell, opts []vm.Option) ([]*vm.Instance, error) {
	amps := make([]*vm.Instance, len(phases))
	for k, phase := range phases {
		i, err := vm.New(program, opts...)
		if err != nil {
			return nil, err
		}
		i.PushInput(phase)
		amps[k] = i
	}
	return amps, nil
}

// Chain runs a fresh instance of program for each phase setting. An instance
// gets its phase setting and the signal output by the previous instance as
// input. The first instance gets a signal of 0. Chain returns the signal output
// by the last instance.
func Chain(program []vm.Cell, phases []vm.Cell, opts ...vm.Option) (vm.Cell, error) {
	amps, err := start(program, phases, opts)
	if err != nil {
		return 0, err
	}
	var signal vm.Cell
	for k, i := range amps {
		i.PushInput(signal)
		st, err := i.Run(1)
		if err != nil {
			return 0, errors.Wrapf(err, "stage %d", k)
		}
		if st != vm.ProducedOutput {
			return 0, errors.Wrapf(ErrNoOutput, "stage %d: %v", k, st)
		}
		signal = i.TakeOutput()[0]
	}
	return signal, nil
}

// Feedback connects one instance of program per phase setting in a feedback
// loop: the output of the last instance is fed to the first one. The first
// instance gets an initial signal of 0.
//
// Instances are run in turn, one output value at a time, until one of them
// halts. Feedback then returns the last signal output by the last instance.
func Feedback(program []vm.Cell, phases []vm.Cell, opts ...vm.Option) (vm.Cell, error) {
	amps, err := start(program, phases, opts)
	if err != nil {
		return 0, err
	}
	var (
		signal, thrust vm.Cell
		seen           bool
		last           = len(amps) - 1
	)
	for k := 0; len(amps) > 0; k = (k + 1) % len(amps) {
		i := amps[k]
		i.PushInput(signal)
		st, err := i.Run(1)
		if err != nil {
			return 0, errors.Wrapf(err, "stage %d", k)
		}
		switch st {
		case vm.ProducedOutput:
			signal = i.TakeOutput()[0]
			if k == last {
				thrust, seen = signal, true
			}
		case vm.Halted:
			if !seen {
				return 0, errors.Wrapf(ErrNoOutput, "stage %d halted", k)
			}
			return thrust, nil
		default:
			return 0, errors.Wrapf(ErrNoOutput, "stage %d: %v", k, st)
		}
	}
	return 0, errors.Wrap(ErrNoOutput, "empty pipeline")
}
