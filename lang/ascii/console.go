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

package ascii

import (
	"context"
	"io"
	"strconv"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LineReader is the interface that wraps the Readline method.
//
// Readline returns the next line of user input, without its line terminator.
// *readline.Instance from github.com/chzyer/readline implements it.
type LineReader interface {
	Readline() (string, error)
}

// Console drives an ASCII program: program text is written to an io.Writer
// and commands are read from a LineReader whenever the program needs input.
type Console struct {
	i      *vm.Instance
	in     LineReader
	out    io.Writer
	script []string
	values bool
	log    *zap.Logger
}

// Option configures a Console.
type Option func(*Console)

// Script queues commands to send to the program before reading from the
// LineReader. Scripted commands are echoed to the output.
func Script(commands ...string) Option {
	return func(c *Console) { c.script = append(c.script, commands...) }
}

// ShowValues enables writing non-ASCII output values to the output, one per
// line.
func ShowValues(show bool) Option {
	return func(c *Console) { c.values = show }
}

// Logger sets the console logger.
func Logger(l *zap.Logger) Option {
	return func(c *Console) { c.log = l }
}

// NewConsole returns a new console for instance i.
func NewConsole(i *vm.Instance, in LineReader, out io.Writer, opts ...Option) *Console {
	c := &Console{i: i, in: in, out: out, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Console) flush(w *iox.ErrWriter) []vm.Cell {
	text, values := Decode(c.i.TakeOutput())
	io.WriteString(w, text)
	if c.values {
		for _, v := range values {
			io.WriteString(w, strconv.FormatInt(int64(v), 10))
			w.Write([]byte{'\n'})
		}
	}
	return values
}

// next returns the next command to send.
func (c *Console) next(w *iox.ErrWriter) (string, error) {
	if len(c.script) > 0 {
		cmd := c.script[0]
		c.script = c.script[1:]
		io.WriteString(w, cmd)
		w.Write([]byte{'\n'})
		c.log.Debug("scripted command", zap.String("command", cmd))
		return cmd, w.Err
	}
	if w.Err != nil {
		return "", w.Err
	}
	line, err := c.in.Readline()
	if err != nil {
		return "", err
	}
	c.log.Debug("command", zap.String("command", line))
	return line, nil
}

// Run runs the program until it halts and returns the non-ASCII values it
// has output.
//
// If the LineReader returns an error, like io.EOF, Run returns it as is along
// with the values collected so far.
func (c *Console) Run(ctx context.Context) ([]vm.Cell, error) {
	var values []vm.Cell
	w := iox.NewErrWriter(c.out)
	for {
		st, err := c.i.Run(0)
		values = append(values, c.flush(w)...)
		if err != nil {
			return values, err
		}
		if st == vm.Halted {
			return values, w.Err
		}
		if err = ctx.Err(); err != nil {
			return values, errors.Wrap(err, "console")
		}
		cmd, err := c.next(w)
		if err != nil {
			return values, err
		}
		c.i.SetInput(Encode(cmd)...)
	}
}
