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
	"io"
	"os"
	"strings"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/lang/ascii"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// traceFunc returns a trace hook that logs the disassembly of each
// instruction before it executes.
func traceFunc(log *zap.Logger) vm.TraceFunc {
	var b strings.Builder
	return func(i *vm.Instance, pc int) {
		if pc >= len(i.Mem) {
			return
		}
		b.Reset()
		asm.Disassemble(i.Mem, pc, &b)
		log.Info("trace",
			zap.Int("pc", pc),
			zap.Int64("base", int64(i.Base())),
			zap.String("ins", b.String()))
	}
}

func newRunCmd(a *app) *cobra.Command {
	var (
		input      string
		text       []string
		patches    []string
		decodeText bool
		save       string
		trace      bool
		start      int
	)
	cmd := &cobra.Command{
		Use:   "run [flags] program",
		Short: "Run a program until it halts",
		Long: `Run loads a program, applies memory patches, runs it with the given input
until it halts and prints its output.

Programs with a .s or .asm extension are assembled first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			in, err := parseCells(input)
			if err != nil {
				return errors.Wrap(err, "--input")
			}
			in = append(in, ascii.Encode(text...)...)
			opts := []vm.Option{vm.Input(in...), vm.StartAt(start), vm.Logger(a.log)}
			if trace {
				opts = append(opts, vm.Trace(traceFunc(a.log)))
			}
			i, err := vm.New(prog, opts...)
			if err != nil {
				return err
			}
			a.inst = i
			for _, s := range patches {
				p, err := parsePatch(s)
				if err != nil {
					return err
				}
				i.Poke(p.addr, p.v)
			}

			st, err := i.Run(0)
			if werr := writeOutput(cmd.OutOrStdout(), i.TakeOutput(), decodeText); err == nil {
				err = werr
			}
			if err != nil {
				return err
			}
			if save != "" {
				if err = vm.Save(save, i.Mem); err != nil {
					return err
				}
			}
			a.log.Info("stopped",
				zap.Stringer("state", st),
				zap.Int("pc", i.PC),
				zap.Int64("instructions", i.InstructionCount()))
			if st != vm.Halted {
				return errors.Errorf("program stopped at pc=%d: %s", i.PC, st)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "comma separated input `values`")
	f.StringArrayVarP(&text, "text", "t", nil, "ASCII input `line`, sent after --input values (repeatable)")
	f.StringArrayVar(&patches, "set", nil, "patch memory before running, as `addr=value` (repeatable)")
	f.BoolVarP(&decodeText, "ascii", "a", false, "print output as ASCII text")
	f.StringVarP(&save, "save", "o", "", "save final memory to `file`")
	f.BoolVar(&trace, "trace", false, "log each instruction before it executes")
	f.IntVar(&start, "start", 0, "start `address`")
	return cmd
}

// writeOutput writes output values as comma separated cells. If decodeText is
// set, ASCII values are written as text and other values follow, one per
// line.
func writeOutput(w io.Writer, out []vm.Cell, decodeText bool) error {
	if !decodeText {
		if len(out) == 0 {
			return nil
		}
		return vm.Encode(w, out)
	}
	text, values := ascii.Decode(out)
	if _, err := io.WriteString(w, text); err != nil {
		return errors.Wrap(err, "write failed")
	}
	for _, v := range values {
		if err := vm.Encode(w, []vm.Cell{v}); err != nil {
			return err
		}
	}
	return nil
}

func newAsmCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "asm [flags] source",
		Short: "Assemble a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "asm")
			}
			defer f.Close()
			prog, err := asm.Assemble(args[0], f)
			if err != nil {
				return err
			}
			a.log.Debug("assembled", zap.String("file", args[0]), zap.Int("cells", len(prog)))
			if out != "" {
				return vm.Save(out, prog)
			}
			return vm.Encode(cmd.OutOrStdout(), prog)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the program to `file` instead of stdout")
	return cmd
}

func newDisasmCmd(a *app) *cobra.Command {
	var base int
	cmd := &cobra.Command{
		Use:   "disasm [flags] program",
		Short: "Disassemble a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			return asm.DisassembleAll(prog, base, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&base, "base", 0, "address of the first cell in the listing")
	return cmd
}
