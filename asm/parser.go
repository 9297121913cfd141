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

package asm

import (
	"fmt"
	"io"
	"strconv"
	"text/scanner"

	"github.com/db47h/intcode/vm"
)

type symbol struct {
	pos     scanner.Position
	val     vm.Cell
	defined bool
	isConst bool
}

// ref is a reference to a symbol in an expression.
type ref struct {
	name string
	neg  bool
	pos  scanner.Position
}

// expr is a constant value plus a list of symbols to be resolved.
type expr struct {
	val  vm.Cell
	refs []ref
}

type fixup struct {
	address int
	ref
}

type parser struct {
	s      scanner.Scanner
	tok    rune
	pos    scanner.Position
	text   string
	out    []vm.Cell
	syms   map[string]*symbol
	fixups []fixup
	errs   ErrAsm
}

func newParser() *parser {
	return &parser{syms: make(map[string]*symbol)}
}

func (p *parser) errorf(pos scanner.Position, format string, args ...interface{}) {
	if !pos.IsValid() {
		pos = p.s.Pos()
	}
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, Error{pos, fmt.Sprintf(format, args...)})
	}
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.pos = p.s.Position
	p.text = p.s.TokenText()
}

func (p *parser) eol() bool {
	return p.tok == '\n' || p.tok == scanner.EOF
}

func (p *parser) skipLine() {
	for !p.eol() {
		p.next()
	}
}

func (p *parser) expect(tok rune) bool {
	if p.tok != tok {
		p.errorf(p.pos, "expected %s, got %s", scanner.TokenString(tok), p.quote())
		return false
	}
	p.next()
	return true
}

func (p *parser) quote() string {
	if p.eol() {
		return "end of line"
	}
	return strconv.Quote(p.text)
}

// emit appends the value of e to the output. Unresolved symbols are fixed up
// at the end of parsing.
func (p *parser) emit(e expr) {
	for _, r := range e.refs {
		p.fixups = append(p.fixups, fixup{len(p.out), r})
	}
	p.out = append(p.out, e.val)
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) ([]vm.Cell, error) {
	p.s.Init(r)
	p.s.Filename = name
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanChars | scanner.ScanStrings | scanner.ScanRawStrings | scanner.ScanComments | scanner.SkipComments
	p.s.Whitespace = scanner.GoWhitespace &^ (1 << '\n')
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.errorf(s.Position, "%s", msg)
	}

	for p.next(); p.tok != scanner.EOF && len(p.errs) < maxErrors; {
		var ok bool
		switch p.tok {
		case '\n':
			p.next()
			continue
		case '.':
			ok = p.directive()
		case scanner.Ident:
			if p.s.Peek() == ':' {
				p.label()
				continue
			}
			ok = p.instruction()
		default:
			p.errorf(p.pos, "unexpected %s", p.quote())
		}
		if ok && !p.eol() {
			p.errorf(p.pos, "unexpected %s after statement", p.quote())
			ok = false
		}
		if !ok {
			p.skipLine()
		}
	}

	for _, f := range p.fixups {
		sym := p.syms[f.name]
		if sym == nil || !sym.defined {
			p.errorf(f.pos, "undefined: %s", f.name)
			continue
		}
		if f.neg {
			p.out[f.address] -= sym.val
		} else {
			p.out[f.address] += sym.val
		}
	}

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.out, nil
}

func (p *parser) define(name string, pos scanner.Position, v vm.Cell, isConst bool) {
	if name == "rb" {
		p.errorf(pos, "reserved name: rb")
		return
	}
	if sym := p.syms[name]; sym != nil && sym.defined {
		kind := "label"
		if sym.isConst {
			kind = "constant"
		}
		p.errorf(pos, "%s redefined, previous %s definition here: %s", name, kind, sym.pos)
		return
	}
	p.syms[name] = &symbol{pos, v, true, isConst}
}

// label parses a "name:" label definition.
func (p *parser) label() {
	p.define(p.text, p.pos, vm.Cell(len(p.out)), false)
	p.next() // ':'
	p.next()
}

func (p *parser) directive() bool {
	p.next()
	if p.tok != scanner.Ident {
		p.errorf(p.pos, "expected directive name, got %s", p.quote())
		return false
	}
	switch d := p.text; d {
	case "data":
		p.next()
		return p.data()
	case "equ":
		p.next()
		if p.tok != scanner.Ident {
			p.errorf(p.pos, ".equ: expected identifier, got %s", p.quote())
			return false
		}
		name, pos := p.text, p.pos
		p.next()
		e, ok := p.expr()
		if !ok {
			return false
		}
		if len(e.refs) > 0 {
			p.errorf(e.refs[0].pos, ".equ: %s is not a constant or a previously defined label", e.refs[0].name)
			return false
		}
		p.define(name, pos, e.val, true)
		return true
	default:
		p.errorf(p.pos, "unknown directive .%s", d)
		return false
	}
}

// data parses the arguments of a .data directive: a comma separated list of
// expressions or strings.
func (p *parser) data() bool {
	for {
		if p.tok == scanner.String || p.tok == scanner.RawString {
			s, err := strconv.Unquote(p.text)
			if err != nil {
				p.errorf(p.pos, "%v", err)
				return false
			}
			for _, r := range s {
				p.out = append(p.out, vm.Cell(r))
			}
			p.next()
		} else {
			e, ok := p.expr()
			if !ok {
				return false
			}
			p.emit(e)
		}
		if p.tok != ',' {
			return true
		}
		p.next()
	}
}

func (p *parser) instruction() bool {
	name, pos := p.text, p.pos
	op, ok := mnemonics[name]
	if !ok {
		p.errorf(pos, "unknown instruction %s", name)
		return false
	}
	info, _ := vm.Lookup(op)
	p.next()

	start := len(p.out)
	p.out = append(p.out, op)
	modes := make([]vm.Mode, info.Params)
	for n := range modes {
		if n > 0 && !p.expect(',') {
			return false
		}
		m, e, ok := p.operand()
		if !ok {
			return false
		}
		if n+1 == info.Dst && m == vm.Immediate {
			p.errorf(pos, "%s: parameter %d is written to and cannot be immediate", name, n+1)
			return false
		}
		modes[n] = m
		p.emit(e)
	}
	p.out[start] = vm.Word(op, modes...)
	return true
}

// operand parses an instruction parameter:
//
//	expr		immediate
//	[expr]		position
//	[rb+expr]	relative
func (p *parser) operand() (vm.Mode, expr, bool) {
	if p.tok != '[' {
		e, ok := p.expr()
		return vm.Immediate, e, ok
	}
	p.next()
	if p.tok == scanner.Ident && p.text == "rb" {
		p.next()
		var e expr
		ok := true
		if p.tok != ']' {
			e, ok = p.expr()
		}
		return vm.Relative, e, ok && p.expect(']')
	}
	e, ok := p.expr()
	return vm.Position, e, ok && p.expect(']')
}

// expr parses a sum of terms. A term is an integer, a character literal or a
// symbol name.
func (p *parser) expr() (e expr, ok bool) {
	neg := false
	switch p.tok {
	case '-':
		neg = true
		fallthrough
	case '+':
		p.next()
	}
	for {
		if !p.term(&e, neg) {
			return e, false
		}
		switch p.tok {
		case '+':
			neg = false
		case '-':
			neg = true
		default:
			return e, true
		}
		p.next()
	}
}

func (p *parser) term(e *expr, neg bool) bool {
	var v vm.Cell
	switch p.tok {
	case scanner.Int:
		n, err := strconv.ParseInt(p.text, 0, 64)
		if err != nil {
			p.errorf(p.pos, "bad number %s", p.text)
			return false
		}
		v = vm.Cell(n)
	case scanner.Char:
		r, _, _, err := strconv.UnquoteChar(p.text[1:len(p.text)-1], '\'')
		if err != nil {
			p.errorf(p.pos, "bad character literal %s", p.text)
			return false
		}
		v = vm.Cell(r)
	case scanner.Ident:
		if sym := p.syms[p.text]; sym != nil && sym.defined {
			v = sym.val
			break
		}
		e.refs = append(e.refs, ref{p.text, neg, p.pos})
		p.next()
		return true
	default:
		p.errorf(p.pos, "expected value, got %s", p.quote())
		return false
	}
	if neg {
		v = -v
	}
	e.val += v
	p.next()
	return true
}
