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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/db47h/intcode/internal/config"
	"github.com/db47h/intcode/vm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by all sub-commands.
type app struct {
	cfgFile  string
	logLevel string
	debug    bool

	cfg config.Config
	log *zap.Logger
	// last VM instance started, dumped on fatal errors in debug mode.
	inst *vm.Instance
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
		if err = cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.log = setupLogger(&a.cfg, cmd.ErrOrStderr())
	a.log.Debug("configuration loaded", zap.String("file", a.cfgFile), zap.Any("config", a.cfg))
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "intcode",
		Short: "Intcode virtual machine, assembler and orchestration tools",
		Long: `intcode runs Intcode programs, assembles and disassembles them, and drives
them in amplifier pipelines, networks or an interactive ASCII console.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML configuration `file`")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "print stack traces and a memory dump on fatal errors")

	rootCmd.AddCommand(
		newRunCmd(a),
		newAsmCmd(a),
		newDisasmCmd(a),
		newAmpCmd(a),
		newNetworkCmd(a),
		newConsoleCmd(a),
	)
	return rootCmd
}

func atExit(a *app, w io.Writer, err error) int {
	if a.log != nil {
		a.log.Sync()
	}
	if err == nil {
		return 0
	}
	if !a.debug {
		fmt.Fprintf(w, "intcode: %v\n", err)
		return 1
	}
	fmt.Fprintf(w, "intcode: %+v\n", err)
	if a.inst != nil {
		dumpVM(a.inst, w)
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := new(app)
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	os.Exit(atExit(a, os.Stderr, err))
}
