//go:build !headless

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

// Command eb-hachi runs a CHIP-8 program in a window, with sound.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	ebdriver "github.com/Francesco149/go-hachi/drivers/ebiten"
	"github.com/Francesco149/go-hachi/hachi"
	"github.com/Francesco149/go-hachi/internal/config"
	"github.com/retroenv/retrogolib/log"
)

func runEmulator(logger *log.Logger, opts config.Options, scale int,
	file string) (c *hachi.Chip8, err error) {

	c, err = hachi.New(opts.Settings(logger))
	if err != nil {
		return
	}

	size, err := c.Load(file)
	if err != nil {
		return
	}
	logger.Info("Program loaded", log.String("file", file),
		log.Int("size", int(size)))

	r, err := hachi.NewRunner(c, ebdriver.Name)
	if err != nil {
		return
	}
	if err = r.SetDriverData("scale", scale); err != nil {
		return
	}

	title := fmt.Sprintf("hachi - %s", filepath.Base(file))
	err = ebdriver.Run(r, title)
	return
}

func main() {
	flags := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ExitOnError)
	var opts config.Options
	config.RegisterFlags(flags, &opts)
	scale := flags.Int("scale", 10, "window pixels per CHIP-8 pixel")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s [options] path/to/program\n\n",
			flags.Name())
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])
	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	c, err := runEmulator(logger, opts, *scale, flags.Arg(0))
	if err != nil {
		logger.Error("Running program failed", err)
		if c != nil {
			logger.Error("Machine state", nil, log.String("state", c.String()))
		}
		os.Exit(1)
	}
}
