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

// Command tl-hachi runs a CHIP-8 program in the terminal with the termloop
// driver, showing the machine state next to the screen.
// When the emulator exits, the disassembly of the program is printed.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	tldriver "github.com/Francesco149/go-hachi/drivers/termloop"
	"github.com/Francesco149/go-hachi/hachi"
	"github.com/Francesco149/go-hachi/internal/config"
	tl "github.com/JoelOtter/termloop"
	"github.com/retroenv/retrogolib/log"
)

func runEmulator(logger *log.Logger, settings *hachi.Chip8Settings,
	file string) (program []byte, err error) {

	// initialize emulator
	ha, err := hachi.New(settings)
	if err != nil {
		return
	}

	// load program
	if _, err = ha.Load(file); err != nil {
		return
	}
	program = ha.Program()

	r, err := hachi.NewRunner(ha, tldriver.Name)
	if err != nil {
		return
	}

	// initialize termloop
	g, ok := r.DriverData("ctx").(*tl.Game)
	if !ok || g == nil {
		return program, fmt.Errorf("Driver context failed type assertion.")
	}

	// add emulator entity
	e := tldriver.NewEntity(r)
	g.Screen().AddEntity(e)

	// start termloop, blocks until the user quits with ctrl+c
	g.Start()

	select {
	case err = <-e.Err():
		logger.Error("Emulator stopped", err, log.String("state", ha.String()))
	default:
	}
	return
}

func printDisassembly(out io.Writer, program []byte) error {
	disassembly, err := hachi.Disassemble(program, hachi.ProgramStart)
	if err != nil {
		return err
	}

	w := new(tabwriter.Writer)

	w.Init(out, 8, 8, 0, '\t', 0)
	fmt.Fprintln(w, "addr\topcode\tpseudo-code\tascii\tdescription\t")

	for _, l := range disassembly {
		asciitext := ""
		if ascii := l.ASCII(); len(ascii) != 0 {
			asciitext = fmt.Sprintf("`%s`", ascii)
		}

		fmt.Fprintf(w, "%04X\t%X\t%v\t%s\t%s\n",
			l.Address, l.Data, l, asciitext, l.Instruction.Description())
	}

	return w.Flush()
}

func main() {
	flags := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ExitOnError)
	var opts config.Options
	config.RegisterFlags(flags, &opts)
	disasmOnly := flags.Bool("d", false,
		"only print the disassembly, don't run the program")
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
	file := flags.Arg(0)

	// the terminal belongs to termloop while the emulator runs
	logger := config.CreateLogger(opts.Debug, !opts.Debug)

	var program []byte
	var err error
	if *disasmOnly {
		program, err = os.ReadFile(file)
	} else {
		program, err = runEmulator(logger, opts.Settings(logger), file)
	}
	if err != nil {
		logger.Error("Running program failed", err)
	}
	if program == nil {
		os.Exit(1)
	}

	if err := printDisassembly(os.Stdout, program); err != nil {
		logger.Fatal(err.Error())
	}
}
