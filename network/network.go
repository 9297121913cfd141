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

// Package network simulates a network of Intcode VM instances exchanging
// packets.
//
// Each node runs the same program. At startup, a node gets its network address
// as first input value. A node sends a packet by outputting three values: the
// destination address, then the packet's X and Y values. Packets are delivered
// to the destination node as two input values, X then Y. A node reading input
// with no packet waiting gets -1.
//
// Packets sent to the NAT address are held by the NAT, which only keeps the
// last one. When the network is idle, the NAT sends its packet to node 0 to
// wake the network up.
package network

import (
	"context"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Errors returned by Run.
var (
	ErrDeadlock    = errors.New("network idle and NAT empty")
	ErrNodeHalted  = errors.New("node halted")
	ErrBadAddress  = errors.New("unknown destination address")
	errStopRequest = errors.New("stop")
)

// Defaults.
const (
	DefaultSize       = 50
	DefaultNATAddress = 255
)

// Packet is a network packet.
type Packet struct {
	Dst  int
	X, Y vm.Cell
}

// Event identifies NAT events.
type Event int

// NAT events.
const (
	NATReceived Event = iota // the NAT received a packet
	NATWake                  // the NAT sent a packet to node 0
)

func (e Event) String() string {
	if e == NATWake {
		return "wake"
	}
	return "received"
}

// Network is a network of VM instances.
//
// Nodes are scheduled cooperatively on the caller's goroutine: a pass runs
// each node in turn until it needs input or has sent a packet. The network is
// idle after a configurable number of consecutive passes during which every
// node was given -1 as input, consumed it, and ended its turn waiting for
// input without sending anything.
type Network struct {
	nodes      []*vm.Instance
	pending    [][]vm.Cell // partial packets
	size       int
	natAddr    int
	idlePasses int
	nat        Packet
	natFull    bool
	log        *zap.Logger
	vmOpts     []vm.Option
}

// Option configures a Network.
type Option func(*Network) error

// Size sets the number of nodes. The default is 50.
func Size(n int) Option {
	return func(net *Network) error {
		if n <= 0 {
			return errors.Errorf("invalid network size %d", n)
		}
		net.size = n
		return nil
	}
}

// NATAddress sets the address of the NAT. It must not be the address of a
// node. The default is 255.
func NATAddress(addr int) Option {
	return func(net *Network) error { net.natAddr = addr; return nil }
}

// IdlePasses sets the number of consecutive idle passes after which the
// network is considered idle. The default is 1.
func IdlePasses(n int) Option {
	return func(net *Network) error {
		if n <= 0 {
			return errors.Errorf("invalid idle pass count %d", n)
		}
		net.idlePasses = n
		return nil
	}
}

// Logger sets the network logger.
func Logger(l *zap.Logger) Option {
	return func(net *Network) error { net.log = l; return nil }
}

// VMOptions sets options passed to each node's VM instance.
func VMOptions(opts ...vm.Option) Option {
	return func(net *Network) error { net.vmOpts = opts; return nil }
}

// New creates a new network running program on each node.
func New(program []vm.Cell, opts ...Option) (*Network, error) {
	net := &Network{
		size:       DefaultSize,
		natAddr:    DefaultNATAddress,
		idlePasses: 1,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(net); err != nil {
			return nil, err
		}
	}
	if net.natAddr >= 0 && net.natAddr < net.size {
		return nil, errors.Errorf("NAT address %d conflicts with node address", net.natAddr)
	}
	net.nodes = make([]*vm.Instance, net.size)
	net.pending = make([][]vm.Cell, net.size)
	for addr := range net.nodes {
		i, err := vm.New(program, net.vmOpts...)
		if err != nil {
			return nil, err
		}
		i.PushInput(vm.Cell(addr))
		net.nodes[addr] = i
	}
	return net, nil
}

// Node returns the VM instance at address addr.
func (net *Network) Node(addr int) *vm.Instance {
	return net.nodes[addr]
}

// NAT returns the packet held by the NAT. The boolean result is false if the
// NAT has not received any packet yet.
func (net *Network) NAT() (Packet, bool) {
	return net.nat, net.natFull
}

// route delivers a packet sent by node src.
func (net *Network) route(src int, p Packet, fn func(Event, Packet) bool) error {
	if p.Dst == net.natAddr {
		net.nat, net.natFull = p, true
		net.log.Debug("NAT received", zap.Int("src", src), zap.Int64("x", int64(p.X)), zap.Int64("y", int64(p.Y)))
		if fn(NATReceived, p) {
			return errStopRequest
		}
		return nil
	}
	if p.Dst < 0 || p.Dst >= len(net.nodes) {
		return errors.Wrapf(ErrBadAddress, "node %d: packet to %d", src, p.Dst)
	}
	net.nodes[p.Dst].PushInput(p.X, p.Y)
	return nil
}

// turn runs node addr once. It returns true if the node was idle.
//
// A node is fed -1 only if it is waiting for input and no packet is queued for
// it.
func (net *Network) turn(addr int, fn func(Event, Packet) bool) (bool, error) {
	i := net.nodes[addr]
	polled := i.PendingInput() == 0 && i.State() == vm.NeedsInput
	if polled {
		i.PushInput(-1)
	}
	st, err := i.Run(3)
	if err != nil {
		return false, errors.Wrapf(err, "node %d", addr)
	}
	out := append(net.pending[addr], i.TakeOutput()...)
	sent := len(out) >= 3
	for ; len(out) >= 3; out = out[3:] {
		if err = net.route(addr, Packet{int(out[0]), out[1], out[2]}, fn); err != nil {
			net.pending[addr] = out[3:]
			return false, err
		}
	}
	net.pending[addr] = out
	if st == vm.Halted {
		return false, errors.Wrapf(ErrNodeHalted, "node %d", addr)
	}
	return polled && !sent && len(out) == 0 && st == vm.NeedsInput && i.PendingInput() == 0, nil
}

// Run runs the network until fn returns true or an error occurs. fn is called
// with each packet received by the NAT and each packet sent by the NAT to wake
// up the network.
//
// Run checks ctx once per pass over all nodes. If the network becomes idle
// before the NAT has received any packet, Run returns ErrDeadlock.
func (net *Network) Run(ctx context.Context, fn func(Event, Packet) bool) error {
	idle := 0
	for pass := 0; ; pass++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "pass %d", pass)
		}
		idleNodes := 0
		for addr := range net.nodes {
			ok, err := net.turn(addr, fn)
			if err == errStopRequest {
				return nil
			}
			if err != nil {
				return err
			}
			if ok {
				idleNodes++
			}
		}
		if idleNodes < len(net.nodes) {
			idle = 0
			continue
		}
		if idle++; idle < net.idlePasses {
			continue
		}
		idle = 0
		if !net.natFull {
			net.log.Warn("network deadlock", zap.Int("pass", pass))
			return errors.Wrapf(ErrDeadlock, "pass %d", pass)
		}
		p := Packet{0, net.nat.X, net.nat.Y}
		net.log.Debug("NAT wake", zap.Int("pass", pass), zap.Int64("x", int64(p.X)), zap.Int64("y", int64(p.Y)))
		net.nodes[0].PushInput(p.X, p.Y)
		if fn(NATWake, p) {
			return nil
		}
	}
}

// FirstNATPacket runs the network until the NAT receives a packet and returns
// that packet.
func (net *Network) FirstNATPacket(ctx context.Context) (Packet, error) {
	var p Packet
	err := net.Run(ctx, func(e Event, pkt Packet) bool {
		p = pkt
		return e == NATReceived
	})
	return p, err
}

// FirstRepeatedWake runs the network until the NAT sends two wake up packets
// in a row with the same Y value, and returns the second one.
func (net *Network) FirstRepeatedWake(ctx context.Context) (Packet, error) {
	var (
		p    Packet
		prev *Packet
	)
	err := net.Run(ctx, func(e Event, pkt Packet) bool {
		if e != NATWake {
			return false
		}
		if prev != nil && prev.Y == pkt.Y {
			p = pkt
			return true
		}
		prev = &pkt
		return false
	})
	if err == nil {
		net.log.Info("repeated wake", zap.Int64("y", int64(p.Y)))
	}
	return p, err
}
