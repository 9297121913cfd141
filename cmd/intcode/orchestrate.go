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
	"fmt"

	"github.com/db47h/intcode/network"
	"github.com/db47h/intcode/pipeline"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAmpCmd(a *app) *cobra.Command {
	var (
		feedback bool
		phases   string
		workers  int
	)
	cmd := &cobra.Command{
		Use:   "amp [flags] program",
		Short: "Find the phase settings giving the highest amplifier signal",
		Long: `Amp runs one copy of the program per phase setting, connected in series
(or in a feedback loop with --feedback), for every permutation of the phase
settings and prints the permutation giving the highest signal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("phases") && feedback {
				phases = "5,6,7,8,9"
			}
			ph, err := parseCells(phases)
			if err != nil {
				return errors.Wrap(err, "--phases")
			}
			if cmd.Flags().Changed("workers") {
				a.cfg.Pipeline.Workers = workers
			}
			mode := pipeline.ModeChain
			if feedback {
				mode = pipeline.ModeFeedback
			}
			res, err := pipeline.Best(cmd.Context(), prog, ph, mode,
				pipeline.Workers(a.cfg.Pipeline.Workers),
				pipeline.Logger(a.log))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %v\n", res.Signal, res.Phases)
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&feedback, "feedback", false, "connect amplifiers in a feedback loop")
	f.StringVar(&phases, "phases", "0,1,2,3,4", "comma separated phase `settings` (5,6,7,8,9 with --feedback)")
	f.IntVar(&workers, "workers", 0, "number of concurrent searches (default from config)")
	return cmd
}

func newNetworkCmd(a *app) *cobra.Command {
	var (
		mode       string
		size       int
		natAddr    int
		idlePasses int
	)
	cmd := &cobra.Command{
		Use:   "network [flags] program",
		Short: "Run a network of instances connected through a NAT",
		Long: `Network runs one copy of the program per node. Nodes exchange (address, X, Y)
packets. Packets sent to the NAT address are held by the NAT, which sends
the last one back to node 0 whenever the network is idle.

With --mode nat, the first packet received by the NAT is printed. With
--mode wake, the first packet sent twice in a row by the NAT with the same Y
value is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			c := &a.cfg.Network
			if cmd.Flags().Changed("size") {
				c.Size = size
			}
			if cmd.Flags().Changed("nat") {
				c.NATAddress = natAddr
			}
			if cmd.Flags().Changed("idle-passes") {
				c.IdlePasses = idlePasses
			}
			net, err := network.New(prog,
				network.Size(c.Size),
				network.NATAddress(c.NATAddress),
				network.IdlePasses(c.IdlePasses),
				network.Logger(a.log),
				network.VMOptions(vm.Logger(a.log)))
			if err != nil {
				return err
			}
			var p network.Packet
			switch mode {
			case "nat":
				p, err = net.FirstNATPacket(cmd.Context())
			case "wake":
				p, err = net.FirstRepeatedWake(cmd.Context())
			default:
				return errors.Errorf("unknown mode %q", mode)
			}
			if err != nil {
				return err
			}
			a.log.Debug("network stopped", zap.String("mode", mode), zap.Int("dst", p.Dst))
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", p.X, p.Y)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&mode, "mode", "nat", "stop condition: nat or wake")
	f.IntVar(&size, "size", network.DefaultSize, "number of nodes (default from config)")
	f.IntVar(&natAddr, "nat", network.DefaultNATAddress, "NAT `address` (default from config)")
	f.IntVar(&idlePasses, "idle-passes", 1, "consecutive idle passes before the NAT wakes node 0 (default from config)")
	return cmd
}
