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

package pipeline

import (
	"context"
	"runtime"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Mode selects how instances are connected.
type Mode int

// Supported modes.
const (
	ModeChain    Mode = iota // see Chain
	ModeFeedback             // see Feedback
)

func (m Mode) String() string {
	switch m {
	case ModeChain:
		return "chain"
	case ModeFeedback:
		return "feedback"
	}
	return "invalid mode"
}

// Result is the outcome of a search for the best phase settings.
type Result struct {
	Phases []vm.Cell
	Signal vm.Cell
}

type options struct {
	workers int
	log     *zap.Logger
	vmOpts  []vm.Option
}

// Option configures Best.
type Option func(*options)

// Workers sets the maximum number of permutations evaluated concurrently. The
// default is runtime.NumCPU().
func Workers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// Logger sets the logger used to report results.
func Logger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// VMOptions sets options passed to each VM instance.
func VMOptions(opts ...vm.Option) Option {
	return func(o *options) { o.vmOpts = opts }
}

// Best tries every permutation of phases in the given mode and returns the one
// giving the highest signal. On ties, the permutation that comes first in the
// order of Permutations wins.
//
// Permutations are evaluated concurrently. The first error cancels the search.
func Best(ctx context.Context, program []vm.Cell, phases []vm.Cell, mode Mode, opts ...Option) (Result, error) {
	o := options{workers: runtime.NumCPU(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	var run func([]vm.Cell, []vm.Cell, ...vm.Option) (vm.Cell, error)
	switch mode {
	case ModeChain:
		run = Chain
	case ModeFeedback:
		run = Feedback
	default:
		return Result{}, errors.Errorf("invalid mode %d", mode)
	}

	perms := Permutations(phases)
	signals := make([]vm.Cell, len(perms))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for k := range perms {
		k := k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := run(program, perms[k], o.vmOpts...)
			if err != nil {
				return errors.Wrapf(err, "phases %v", perms[k])
			}
			o.log.Debug("permutation", zap.Stringer("mode", mode), zap.Any("phases", perms[k]), zap.Int64("signal", int64(s)))
			signals[k] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if len(perms) == 0 {
		return Result{}, errors.New("no phase settings")
	}

	best := 0
	for k, s := range signals {
		if s > signals[best] {
			best = k
		}
	}
	r := Result{Phases: perms[best], Signal: signals[best]}
	o.log.Info("best phase settings", zap.Stringer("mode", mode), zap.Any("phases", r.Phases), zap.Int64("signal", int64(r.Signal)))
	return r, nil
}

// Permutations returns all permutations of values in lexicographic order of
// their indices: the first permutation is values itself and the last one is
// values reversed.
func Permutations(values []vm.Cell) [][]vm.Cell {
	if len(values) == 0 {
		return nil
	}
	var (
		perms [][]vm.Cell
		cur   = make([]vm.Cell, 0, len(values))
		used  = make([]bool, len(values))
		gen   func()
	)
	gen = func() {
		if len(cur) == len(values) {
			perms = append(perms, append([]vm.Cell(nil), cur...))
			return
		}
		for k, v := range values {
			if used[k] {
				continue
			}
			used[k] = true
			cur = append(cur, v)
			gen()
			cur = cur[:len(cur)-1]
			used[k] = false
		}
	}
	gen()
	return perms
}
