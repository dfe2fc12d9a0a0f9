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

// Command run-hachi runs a CHIP-8 program with one of the lightweight
// drivers: "ansi" draws in the terminal, "lua" runs headless under the control
// of a script and "null" just executes the program.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/Francesco149/go-hachi/drivers"
	"github.com/Francesco149/go-hachi/drivers/ansi"
	"github.com/Francesco149/go-hachi/drivers/luascript"
	"github.com/Francesco149/go-hachi/hachi"
	"github.com/Francesco149/go-hachi/internal/config"
	"github.com/retroenv/retrogolib/log"
)

type options struct {
	config.Options
	Driver  string
	Script  string
	Timeout time.Duration
	Screen  bool
}

func parseFlags(args []string) (opts options, file string, err error) {
	flags := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	config.RegisterFlags(flags, &opts.Options)
	flags.StringVar(&opts.Driver, "driver", ansi.Name,
		"driver to use: ansi, lua or null")
	flags.StringVar(&opts.Script, "script", "",
		"lua script controlling the emulator, implies -driver lua")
	flags.DurationVar(&opts.Timeout, "timeout", 0,
		"stop after this long (0 runs until interrupted)")
	flags.BoolVar(&opts.Screen, "screen", false,
		"print the screen when the emulator stops")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s [options] path/to/program\n\n",
			flags.Name())
		flags.PrintDefaults()
	}

	if err = flags.Parse(args); err != nil {
		return
	}
	if flags.NArg() != 1 {
		flags.Usage()
		err = fmt.Errorf("expected exactly one program, got %d", flags.NArg())
		return
	}
	file = flags.Arg(0)

	if opts.Script != "" {
		opts.Driver = luascript.Name
	}
	if opts.Driver == luascript.Name && opts.Script == "" {
		err = fmt.Errorf("driver %s needs a -script", luascript.Name)
		return
	}
	if !drivers.Available(opts.Driver) {
		err = fmt.Errorf("unknown driver %s, available: %s", opts.Driver,
			strings.Join(hachi.DriverNames(), ", "))
	}
	return
}

// watchQuit cancels the run when the driver asks to stop.
func watchQuit(ctx context.Context, r *hachi.Runner, cancel context.CancelFunc) {
	quit, ok := r.DriverData("quit").(<-chan struct{})
	if !ok {
		return
	}
	go func() {
		select {
		case <-quit:
			cancel()
		case <-ctx.Done():
		}
	}()
}

func run(logger *log.Logger, opts options, file string) (c *hachi.Chip8,
	err error) {

	c, err = hachi.New(opts.Settings(logger))
	if err != nil {
		return
	}
	if _, err = c.Load(file); err != nil {
		return
	}

	r, err := hachi.NewRunner(c, opts.Driver)
	if err != nil {
		return
	}
	if closer, ok := hachi.LookupDriver(opts.Driver).(interface {
		Close() error
	}); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}
	if opts.Script != "" {
		if err = r.SetDriverData("script", opts.Script); err != nil {
			return
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	watchQuit(ctx, r, cancel)

	err = r.Run(ctx)
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err == nil {
		if scriptErr, ok := r.DriverData("error").(error); ok {
			err = scriptErr
		}
	}

	logger.Debug("Emulator stopped",
		log.Int("cycles", int(r.Cycles())),
		log.Int("ticks", int(r.Ticks())))
	return
}

func main() {
	opts, file, err := parseFlags(os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	c, err := run(logger, opts, file)
	if opts.Screen && c != nil {
		fmt.Print(c.Screen.String())
	}
	if err != nil {
		logger.Error("Running program failed", err)
		if c != nil {
			logger.Error("Machine state", nil, log.String("state", c.String()))
		}
		os.Exit(1)
	}
}
