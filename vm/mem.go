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

package vm

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
)

// Memory is the memory of a VM instance. It behaves as if it was infinite:
// reading past its end returns 0 and writing past its end grows it.
//
// Negative addresses are a fault, and so are writes at or above MaxMemory.
// Read and Write panic with an *Error in that case, which Run recovers from.
type Memory []Cell

// MaxMemory is the maximum size of a Memory, in cells.
const MaxMemory = 1 << 24

// Read returns the value at address addr.
func (m Memory) Read(addr int) Cell {
	if addr < 0 {
		panic(negativeAddress(addr))
	}
	if addr >= len(m) {
		return 0
	}
	return m[addr]
}

// Write stores v at address addr, growing m as needed.
func (m *Memory) Write(addr int, v Cell) {
	if addr < 0 {
		panic(negativeAddress(addr))
	}
	if addr >= MaxMemory {
		panic(addressRange(addr))
	}
	if addr >= len(*m) {
		*m = append(*m, make(Memory, addr+1-len(*m))...)
	}
	(*m)[addr] = v
}

func scanCells(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, ','); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Parse reads a program in text form: comma separated decimal integers.
// White space around values and a trailing comma are ignored.
func Parse(r io.Reader) (Memory, error) {
	var (
		mem   Memory
		empty int
	)
	s := bufio.NewScanner(r)
	s.Split(scanCells)
	for s.Scan() {
		tok := bytes.TrimSpace(s.Bytes())
		if len(tok) == 0 {
			empty++
			continue
		}
		if empty > 0 {
			return nil, errors.Errorf("empty value at position %d", len(mem))
		}
		v, err := strconv.ParseInt(string(tok), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad value at position %d", len(mem))
		}
		mem = append(mem, Cell(v))
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	if len(mem) == 0 {
		return nil, errors.New("empty program")
	}
	return mem, nil
}

// ParseString is like Parse but reads the program from a string.
func ParseString(s string) (Memory, error) {
	return Parse(bytes.NewBufferString(s))
}

// Load loads a program in text form from file fileName.
func Load(fileName string) (Memory, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	defer f.Close()
	mem, err := Parse(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "Load %s", fileName)
	}
	return mem, nil
}

// Encode writes mem to w in text form, followed by a new line.
func Encode(w io.Writer, mem []Cell) error {
	ew := iox.NewErrWriter(w)
	b := make([]byte, 0, 24)
	for k, v := range mem {
		b = b[:0]
		if k > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
		ew.Write(b)
	}
	ew.Write([]byte{'\n'})
	return ew.Err
}

// Save saves mem in text form to file fileName.
func Save(fileName string, mem []Cell) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	w := bufio.NewWriter(f)
	defer func() {
		if ferr := w.Flush(); err == nil && ferr != nil {
			err = errors.Wrap(ferr, "flush failed")
		}
		f.Close()
		// delete file on error
		if err != nil {
			os.Remove(fileName)
		}
	}()
	return errors.Wrap(Encode(w, mem), "save failed")
}
