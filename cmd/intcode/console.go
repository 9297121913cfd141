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
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/db47h/intcode/lang/ascii"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// readScript reads commands from a script file. Blank lines and lines
// starting with # are skipped.
func readScript(fileName string) ([]string, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "script")
	}
	defer f.Close()
	var cmds []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		l := strings.TrimSpace(s.Text())
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		cmds = append(cmds, l)
	}
	return cmds, errors.Wrapf(s.Err(), "script %s", fileName)
}

func newConsoleCmd(a *app) *cobra.Command {
	var (
		script     string
		showValues bool
	)
	cmd := &cobra.Command{
		Use:   "console [flags] program",
		Short: "Run an ASCII program interactively",
		Long: `Console runs an ASCII program, printing its output as text and reading a
line of input from the terminal whenever the program needs input.

Commands from a --script file are sent first, which can be used to replay a
session. Console stops when the program halts or at end of input (Ctrl-D).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			var cmds []string
			if script != "" {
				if cmds, err = readScript(script); err != nil {
					return err
				}
			}
			i, err := vm.New(prog, vm.Logger(a.log))
			if err != nil {
				return err
			}
			a.inst = i

			rl, err := readline.NewEx(&readline.Config{
				Prompt:      a.cfg.Console.Prompt,
				HistoryFile: a.cfg.Console.HistoryFile,
				Stdout:      cmd.OutOrStdout(),
			})
			if err != nil {
				return errors.Wrap(err, "readline")
			}
			defer rl.Close()

			c := ascii.NewConsole(i, rl, rl.Stdout(),
				ascii.Script(cmds...),
				ascii.ShowValues(showValues),
				ascii.Logger(a.log))
			values, err := c.Run(cmd.Context())
			switch err {
			case nil:
			case io.EOF, readline.ErrInterrupt:
				a.log.Debug("console closed", zap.Error(err))
			default:
				return err
			}
			if !showValues && len(values) > 0 {
				return vm.Encode(rl.Stdout(), values)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&script, "script", "s", "", "send commands from `file` before reading from the terminal")
	f.BoolVar(&showValues, "values", false, "print non-ASCII output values as they are produced")
	return cmd
}
