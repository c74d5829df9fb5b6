// This file is part of bfvm - https://github.com/db47h/bfvm
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

// Package config handles application configuration and setup
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/db47h/bfvm/vm"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// Config holds the VM settings read from the environment. Command line flags
// override these.
type Config struct {
	Delay    time.Duration `env:"BFVM_DELAY" envDefault:"0s"`
	TapeSize int           `env:"BFVM_TAPE_SIZE" envDefault:"256"`
	TapeStep int           `env:"BFVM_TAPE_STEP" envDefault:"1"`
	EOF      string        `env:"BFVM_EOF" envDefault:"unchanged"`
	Debug    bool          `env:"BFVM_DEBUG"`
}

// Load loads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

// Options returns the VM options matching the configuration.
func (c *Config) Options() ([]vm.Option, error) {
	eof, err := vm.ParseEOFMode(c.EOF)
	if err != nil {
		return nil, err
	}
	return []vm.Option{
		vm.Delay(c.Delay),
		vm.TapeSize(c.TapeSize),
		vm.TapeStep(c.TapeStep),
		vm.EOF(eof),
	}, nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
