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

// Package config loads the configuration of the intcode command.
//
// Values come from, in increasing order of precedence: built-in defaults, an
// optional YAML file and INTCODE_* environment variables. Command line flags
// are applied on top of that by the command itself.
package config

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/db47h/intcode/network"
	"github.com/pkg/errors"
	"gitlab.com/efronlicht/enve"
	"gitlab.com/efronlicht/enve/parse"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding configuration
// values.
const EnvPrefix = "INTCODE_"

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Pipeline configures amplifier pipelines.
type Pipeline struct {
	Workers int `yaml:"workers"`
}

// Network configures VM networks.
type Network struct {
	Size       int `yaml:"size"`
	NATAddress int `yaml:"nat_address"`
	IdlePasses int `yaml:"idle_passes"`
}

// Console configures the interactive ASCII console.
type Console struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

// Config is the configuration of the intcode command.
type Config struct {
	Log      Log      `yaml:"log"`
	Pipeline Pipeline `yaml:"pipeline"`
	Network  Network  `yaml:"network"`
	Console  Console  `yaml:"console"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Log:      Log{Level: "info", Format: "console"},
		Pipeline: Pipeline{Workers: runtime.NumCPU()},
		Network: Network{
			Size:       network.DefaultSize,
			NATAddress: network.DefaultNATAddress,
			IdlePasses: 1,
		},
		Console: Console{Prompt: "> "},
	}
}

// Load returns the default configuration updated with the contents of the YAML
// file fileName, if not empty, and environment variables. The result is
// validated.
func Load(fileName string) (Config, error) {
	c := Default()
	if fileName != "" {
		data, err := os.ReadFile(fileName)
		if err != nil {
			return c, errors.Wrap(err, "read config")
		}
		if err = c.Decode(bytes.NewReader(data)); err != nil {
			return c, errors.Wrapf(err, "config file %s", fileName)
		}
	}
	if err := c.ApplyEnv(); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Decode updates c from a YAML document. Keys missing from the document leave
// the corresponding values unchanged. Unknown keys are an error.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return errors.Wrap(err, "decode")
	}
	return nil
}

// env sets *dst to the parsed value of environment variable EnvPrefix+key, if
// set.
func env[T any](dst *T, key string, fn func(string) (T, error)) error {
	v, err := enve.Lookup(fn, EnvPrefix+key)
	if err != nil {
		if _, missing := err.(enve.MissingKeyError); missing {
			return nil
		}
		return errors.Wrapf(err, "%s%s", EnvPrefix, key)
	}
	*dst = v
	return nil
}

// ApplyEnv updates c with the values of INTCODE_* environment variables:
//
//	INTCODE_LOG_LEVEL
//	INTCODE_LOG_FORMAT
//	INTCODE_PIPELINE_WORKERS
//	INTCODE_NETWORK_SIZE
//	INTCODE_NETWORK_NAT_ADDRESS
//	INTCODE_NETWORK_IDLE_PASSES
//	INTCODE_CONSOLE_PROMPT
//	INTCODE_CONSOLE_HISTORY_FILE
func (c *Config) ApplyEnv() error {
	for _, f := range []func() error{
		func() error { return env(&c.Log.Level, "LOG_LEVEL", parse.NoOp) },
		func() error { return env(&c.Log.Format, "LOG_FORMAT", parse.NoOp) },
		func() error { return env(&c.Pipeline.Workers, "PIPELINE_WORKERS", strconv.Atoi) },
		func() error { return env(&c.Network.Size, "NETWORK_SIZE", strconv.Atoi) },
		func() error { return env(&c.Network.NATAddress, "NETWORK_NAT_ADDRESS", strconv.Atoi) },
		func() error { return env(&c.Network.IdlePasses, "NETWORK_IDLE_PASSES", strconv.Atoi) },
		func() error { return env(&c.Console.Prompt, "CONSOLE_PROMPT", parse.NoOp) },
		func() error { return env(&c.Console.HistoryFile, "CONSOLE_HISTORY_FILE", parse.NoOp) },
	} {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return errors.Errorf("log.format: unsupported format %q", c.Log.Format)
	}
	if c.Pipeline.Workers <= 0 {
		return errors.Errorf("pipeline.workers: must be positive, got %d", c.Pipeline.Workers)
	}
	if c.Network.Size <= 0 {
		return errors.Errorf("network.size: must be positive, got %d", c.Network.Size)
	}
	if c.Network.NATAddress >= 0 && c.Network.NATAddress < c.Network.Size {
		return errors.Errorf("network.nat_address: %d is a node address", c.Network.NATAddress)
	}
	if c.Network.IdlePasses <= 0 {
		return errors.Errorf("network.idle_passes: must be positive, got %d", c.Network.IdlePasses)
	}
	return nil
}

// Level returns the configured log level. It defaults to info if the
// configuration is invalid.
func (c *Config) Level() zapcore.Level {
	l, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}
