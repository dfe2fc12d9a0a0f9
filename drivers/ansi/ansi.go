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

// Package ansi implements a lightweight terminal driver for hachi that draws
// the screen with ANSI escape codes and unicode half blocks, two pixel rows
// per text line.
//
// The terminal is switched to raw mode on the first update and stays that way
// until Close is called. Since raw mode swallows signals, ctrl+c is reported
// through the channel returned by GetData("quit").
//
// Input and output default to stdin and stdout. They can be replaced through
// SetDriverData("input", io.Reader) and SetDriverData("output", io.Writer)
// before the runner is first advanced.
package ansi

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Francesco149/go-hachi/hachi"
	"golang.org/x/term"
)

// Name is the name the driver is registered as.
const Name = "ansi"

const (
	// terminals only report key down events, so keys are released
	// automatically after this long without a repeat
	keyHold = 150 * time.Millisecond
	// minimum time between two terminal bells
	bellInterval = 250 * time.Millisecond

	ctrlC = 0x03

	escClear      = "\x1b[2J"
	escHome       = "\x1b[H"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
)

// An AnsiDriver renders to a terminal with escape codes and reads raw key
// presses from it.
type AnsiDriver struct {
	in  io.Reader
	out io.Writer

	started  bool
	oldState *term.State
	fd       int

	input chan byte

	// closed by Close to stop the reader goroutine, which closes readerDone
	// on its way out
	done       chan struct{}
	readerDone chan struct{}
	quit       chan struct{}
	quitOnce   sync.Once

	runeMap  map[rune]uint8
	held     map[uint8]time.Time
	now      func() time.Time
	lastBell time.Time
}

// DefaultRuneMap maps the usual 4x4 block of a qwerty keyboard to the
// COSMAC VIP keypad layout.
func DefaultRuneMap() map[rune]uint8 {
	return map[rune]uint8{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	}
}

func newDriver() *AnsiDriver {
	return &AnsiDriver{
		in:      os.Stdin,
		out:     os.Stdout,
		quit:    make(chan struct{}),
		input:   make(chan byte, 64),
		runeMap: DefaultRuneMap(),
		held:    make(map[uint8]time.Time),
		now:     time.Now,
	}
}

func (d *AnsiDriver) OnInit(c *hachi.Chip8) {
	d.held = make(map[uint8]time.Time)
}

// start puts the terminal in raw mode, if there is one, and starts reading
// input.
func (d *AnsiDriver) start() error {
	d.started = true

	if f, ok := d.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		d.fd = int(f.Fd())
		oldState, err := term.MakeRaw(d.fd)
		if err != nil {
			return fmt.Errorf("setting raw mode: %w", err)
		}
		d.oldState = oldState
	}

	d.done = make(chan struct{})
	d.readerDone = make(chan struct{})
	go d.read(d.in, d.done, d.readerDone)

	_, err := io.WriteString(d.out, escClear+escHideCursor)
	return err
}

// read forwards input bytes to the driver until in ends or done is
// closed. A read already blocked on a terminal only returns with the next key
// press or when the process exits.
func (d *AnsiDriver) read(in io.Reader, done <-chan struct{},
	exited chan<- struct{}) {

	defer close(exited)

	r := bufio.NewReader(in)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		select {
		case d.input <- b:
		case <-done:
			return
		}
	}
}

// Close stops reading input and restores the terminal.
func (d *AnsiDriver) Close() error {
	if !d.started {
		return nil
	}
	d.started = false
	if d.done != nil {
		close(d.done)
		d.done = nil
	}

	_, _ = io.WriteString(d.out, escShowCursor+"\r\n")
	if d.oldState != nil {
		err := term.Restore(d.fd, d.oldState)
		d.oldState = nil
		return err
	}
	return nil
}

func (d *AnsiDriver) handleByte(b byte) {
	if b == ctrlC {
		d.quitOnce.Do(func() { close(d.quit) })
		return
	}
	if key, ok := d.runeMap[unicode.ToLower(rune(b))]; ok {
		d.held[key] = d.now()
	}
}

// apply copies the held keys to the keypad, releasing the stale ones.
func (d *AnsiDriver) apply(c *hachi.Chip8) {
	for key, t := range d.held {
		if d.now().Sub(t) > keyHold {
			delete(d.held, key)
			c.Keys.Release(key)
			continue
		}
		c.Keys.Press(key)
	}
}

func (d *AnsiDriver) OnUpdate(c *hachi.Chip8) {
	if !d.started {
		if err := d.start(); err != nil {
			if logger := c.Settings().Logger; logger != nil {
				logger.Error("Terminal setup failed", err)
			}
		}
	}

drain:
	for {
		select {
		case b := <-d.input:
			d.handleByte(b)
		default:
			break drain
		}
	}
	d.apply(c)
}

// render draws the screen with half blocks, followed by a status line.
func render(c *hachi.Chip8) string {
	var sb strings.Builder
	sb.WriteString(escHome)
	for y := 0; y < hachi.Height; y += 2 {
		for x := 0; x < hachi.Width; x++ {
			top, bottom := c.Screen.Pixel(x, y), c.Screen.Pixel(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
	fmt.Fprintf(&sb, "PC %04X  I %04X  SP %d  DT %02X  ST %02X  keys %016b\r\n",
		c.PC, c.I, c.SP, c.Timers.Delay, c.Timers.Sound, uint16(c.Keys))
	return sb.String()
}

func (d *AnsiDriver) UpdateScreen(c *hachi.Chip8) {
	_, _ = io.WriteString(d.out, render(c))
}

func (d *AnsiDriver) Beep() {
	now := d.now()
	if now.Sub(d.lastBell) < bellInterval {
		return
	}
	d.lastBell = now
	_, _ = io.WriteString(d.out, "\a")
}

func (d *AnsiDriver) GetData(key string) interface{} {
	switch key {
	case "quit":
		return (<-chan struct{})(d.quit)
	case "rune_map":
		return d.runeMap
	}
	return nil
}

func (d *AnsiDriver) SetData(key string, value interface{}) error {
	if d.started && (key == "input" || key == "output") {
		return fmt.Errorf("Can't change %s while running.", key)
	}

	var ok bool
	switch key {
	case "input":
		var in io.Reader
		if in, ok = value.(io.Reader); ok {
			d.in = in
		}
	case "output":
		var out io.Writer
		if out, ok = value.(io.Writer); ok {
			d.out = out
		}
	case "rune_map":
		var m map[rune]uint8
		if m, ok = value.(map[rune]uint8); ok {
			d.runeMap = m
		}
	default:
		return fmt.Errorf("Unknown data key '%s'.", key)
	}
	if !ok {
		return fmt.Errorf("Invalid type %s for %s.", reflect.TypeOf(value), key)
	}
	return nil
}

// -----------------------------------------------------------------------------

func init() {
	err := hachi.RegisterDriver(Name, newDriver())
	if err != nil {
		panic(err)
	}
}
