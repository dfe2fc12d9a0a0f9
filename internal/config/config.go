/*
	Copyright 2015 Franc[e]sco (lolisamurai@tfwno.gf)
	This file is part of go-hachi.
	go-hachi is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.
	go-hachi is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.
	You should have received a copy of the GNU General Public License
	along with go-hachi. If not, see <http://www.gnu.org/licenses/>.
*/

// Package config handles the command line options and logger setup shared by
// the hachi frontends.
package config

import (
	"flag"

	"github.com/Francesco149/go-hachi/hachi"
	"github.com/retroenv/retrogolib/log"
)

// Options holds the emulator options that every frontend accepts.
type Options struct {
	CycleRate   int
	TimerRate   int
	Legacy      bool
	SkipUnknown bool
	Seed        int64
	Debug       bool
	Quiet       bool
}

// RegisterFlags binds the options to flags.
func RegisterFlags(flags *flag.FlagSet, opts *Options) {
	flags.IntVar(&opts.CycleRate, "hz", hachi.DefaultSettings.CycleRate,
		"instructions executed per second")
	flags.IntVar(&opts.TimerRate, "timer", hachi.DefaultSettings.TimerRate,
		"delay and sound timer ticks per second")
	flags.BoolVar(&opts.Legacy, "legacy", false,
		"legacy behaviour for shifts and register load/store")
	flags.BoolVar(&opts.SkipUnknown, "skip-unknown", false,
		"skip unknown opcodes instead of stopping")
	flags.Int64Var(&opts.Seed, "seed", 0,
		"seed for RND VX,NN (0 picks a time based seed)")
	flags.BoolVar(&opts.Debug, "debug", false,
		"enable debug logging, including instruction traces")
	flags.BoolVar(&opts.Quiet, "q", false, "quiet mode")
}

// Settings converts the options to emulator settings.
func (o Options) Settings(logger *log.Logger) *hachi.Chip8Settings {
	s := &hachi.Chip8Settings{
		CycleRate:   o.CycleRate,
		TimerRate:   o.TimerRate,
		LegacyMode:  o.Legacy,
		SkipUnknown: o.SkipUnknown,
		Logger:      logger,
	}
	if o.Seed != 0 {
		s.Random = hachi.NewSeededSource(o.Seed)
	}
	return s
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
