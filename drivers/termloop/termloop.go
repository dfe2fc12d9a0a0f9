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

// Package termloop implements a terminal driver for hachi on top of termloop.
//
// The driver initializes a termloop game which can then be retrieved from
// DriverData("ctx"). The caller must then set up an entity that calls Advance
// on the runner on every Draw call, see NewEntity.
//
// Key mappings can be modified through SetDriverData("key_map", myMap), where
// myMap is a map[termloop.Key]uint8 with termloop keys as keys and CHIP-8 key
// numbers (0x0-0xF) as values, and through SetDriverData("rune_map", myMap)
// for printable keys, with a map[rune]uint8.
package termloop

import (
	"fmt"
	"reflect"
	"time"

	"github.com/Francesco149/go-hachi/hachi"
	tl "github.com/JoelOtter/termloop"
)

// Name is the name the driver is registered as.
const Name = "termloop"

// terminals only report key down events, so keys are released automatically
// after this long without a repeat
const keyHold = 100 * time.Millisecond

// A TermloopDriver is a terminal-based driver that uses the termloop library.
// It shows the current emulator state in real time and the screen.
type TermloopDriver struct {
	g                 *tl.Game
	memory            *tl.Text
	registers         *tl.Text
	pointersAndTimers *tl.Text
	devices           *tl.Text
	stack             []*tl.Text
	syscalls          [10]*tl.Text
	screen            [hachi.Width][hachi.Height]*tl.Rectangle
	lastScreen        []byte
	keyMap            map[tl.Key]uint8
	runeMap           map[rune]uint8
	input             *inputHandler
}

func (d *TermloopDriver) printSyscall(s string) {
	for i := len(d.syscalls) - 1; i > 0; i-- {
		d.syscalls[i].SetText(d.syscalls[i-1].Text())
	}
	d.syscalls[0].SetText(s)
}

// just a wrapper entity to handle input
type inputHandler struct {
	d *TermloopDriver
	// time of the last key down event for each held key
	held map[uint8]time.Time
}

func (i *inputHandler) Draw(s *tl.Screen) {}

func (i *inputHandler) Tick(ev tl.Event) {
	if ev.Type != tl.EventKey {
		return
	}

	key, ok := i.d.keyMap[ev.Key]
	if !ok && ev.Ch != 0 {
		key, ok = i.d.runeMap[ev.Ch]
	}
	if ok {
		i.held[key] = time.Now()
	}
}

// apply copies the held keys to the keypad, releasing the stale ones.
func (i *inputHandler) apply(c *hachi.Chip8) {
	for key, t := range i.held {
		if time.Since(t) > keyHold {
			delete(i.held, key)
			c.Keys.Release(key)
			continue
		}
		c.Keys.Press(key)
	}
}

// DefaultKeyMap maps special keys to the hex keyboard. The arrows and enter
// match the 8, 4, 6, 2 and 5 keys typically used for directional input.
func DefaultKeyMap() map[tl.Key]uint8 {
	return map[tl.Key]uint8{
		tl.KeyArrowDown:  0x2,
		tl.KeyArrowLeft:  0x4,
		tl.KeyArrowRight: 0x6,
		tl.KeyArrowUp:    0x8,
		tl.KeyEnter:      0x5,
		tl.KeySpace:      0x0,
	}
}

// DefaultRuneMap maps the usual 4x4 block of a qwerty keyboard to the
// COSMAC VIP keypad layout.
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
func DefaultRuneMap() map[rune]uint8 {
	return map[rune]uint8{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	}
}

func (d *TermloopDriver) OnInit(c *hachi.Chip8) {
	if d.keyMap == nil {
		d.keyMap = DefaultKeyMap()
	}
	if d.runeMap == nil {
		d.runeMap = DefaultRuneMap()
	}

	// init termloop
	d.g = tl.NewGame()
	scr := d.g.Screen()

	d.input = &inputHandler{d, make(map[uint8]time.Time)}
	scr.AddEntity(d.input)
	scr.AddEntity(tl.NewText(0, 0, "Stack   Syscalls",
		tl.ColorDefault, tl.ColorDefault))

	// stack
	d.stack = make([]*tl.Text, len(c.Stack))
	for i := 0; i < len(d.stack); i++ {
		d.stack[i] = tl.NewText(
			0, i+1, "", tl.ColorDefault, tl.ColorDefault)
		scr.AddEntity(d.stack[i])
	}

	// syscall log
	for i := 0; i < len(d.syscalls); i++ {
		d.syscalls[i] = tl.NewText(
			8, i+1, "", tl.ColorDefault, tl.ColorDefault)
		scr.AddEntity(d.syscalls[i])
	}

	// chip info
	d.memory = tl.NewText(20, 0, "", tl.ColorDefault, tl.ColorDefault)
	scr.AddEntity(d.memory)

	d.registers = tl.NewText(20, 1, "", tl.ColorDefault, tl.ColorDefault)
	scr.AddEntity(d.registers)

	d.pointersAndTimers = tl.NewText(20, 2, "",
		tl.ColorDefault, tl.ColorDefault)
	scr.AddEntity(d.pointersAndTimers)

	d.devices = tl.NewText(20, 3, "", tl.ColorDefault, tl.ColorDefault)
	scr.AddEntity(d.devices)

	// screen preview at 20,5
	for i := 0; i < hachi.Width; i++ {
		for j := 0; j < hachi.Height; j++ {
			d.screen[i][j] = tl.NewRectangle(20+i, 5+j, 1, 1, tl.ColorWhite)
		}
	}
	d.lastScreen = make([]byte, len(c.Screen.Bytes()))

	if logger := c.Settings().Logger; logger != nil {
		logger.Debug("TermloopDriver initialized")
	}
}

func (d *TermloopDriver) OnUpdate(c *hachi.Chip8) {
	d.input.apply(c)

	// update chip info
	d.memory.SetText(fmt.Sprintf("Memory: %v bytes", len(c.Memory)))
	d.registers.SetText(fmt.Sprintf("Registers: % 02X", c.V))
	d.pointersAndTimers.SetText(
		fmt.Sprintf("I: %04X SP: %v, PC: %04X, DT: %02X, ST: %02X",
			c.I, c.SP, c.PC, c.Timers.Delay, c.Timers.Sound))

	state := ""
	if c.Waiting() {
		state = " (waiting for input)"
	}
	d.devices.SetText(fmt.Sprintf("Keyboard: %016b, Screen: %v*%v%s",
		uint16(c.Keys), hachi.Width, hachi.Height, state))

	// update stack
	for i := 0; i < len(c.Stack); i++ {
		if i < c.SP {
			d.stack[i].SetText(fmt.Sprintf("%04X", c.Stack[i]))
		} else {
			d.stack[i].SetText("")
		}
	}
}

func (d *TermloopDriver) UpdateScreen(c *hachi.Chip8) {
	d.printSyscall("DRW")

	scr := d.g.Screen()
	current := c.Screen.Bytes()
	byteWidth := hachi.Width / 8
	for i := 0; i < byteWidth; i++ {
		for j := 0; j < hachi.Height; j++ {
			// index in the screen byte array
			index := j*byteWidth + i

			b1 := d.lastScreen[index]
			b2 := current[index]

			// iterate this group of 8 pixels/bits and see what changed
			mask := uint8(0x80)
			for bit := 0; bit < 8; bit++ {
				if b2&mask > b1&mask {
					// this pixel was activated
					scr.AddEntity(d.screen[i*8+bit][j])
				} else if b2&mask < b1&mask {
					// this pixel was deactivated
					scr.RemoveEntity(d.screen[i*8+bit][j])
				}
				mask >>= 1
			}
		}
	}

	copy(d.lastScreen, current)
}

func (d *TermloopDriver) Beep() { d.printSyscall("BEEP") }

func (d *TermloopDriver) GetData(key string) interface{} {
	switch key {
	case "ctx":
		return d.g
	case "key_map":
		return d.keyMap
	case "rune_map":
		return d.runeMap
	}
	return nil
}

func (d *TermloopDriver) SetData(key string, value interface{}) error {
	switch key {
	case "key_map":
		newMap, ok := value.(map[tl.Key]uint8)
		if !ok {
			return fmt.Errorf("Invalid type %s for key_map.",
				reflect.TypeOf(value))
		}
		d.keyMap = newMap
		return nil
	case "rune_map":
		newMap, ok := value.(map[rune]uint8)
		if !ok {
			return fmt.Errorf("Invalid type %s for rune_map.",
				reflect.TypeOf(value))
		}
		d.runeMap = newMap
		return nil
	}
	return fmt.Errorf("Unknown data key '%s'.", key)
}

// -----------------------------------------------------------------------------

// An Entity advances a runner on every termloop frame and reports the first
// error through its Err channel.
type Entity struct {
	r    *hachi.Runner
	err  chan error
	done bool
}

// NewEntity wraps r in a termloop entity. Add it to the game screen before
// starting the game.
func NewEntity(r *hachi.Runner) *Entity {
	return &Entity{r: r, err: make(chan error, 1)}
}

// Err receives the error that stopped the emulator, if any.
func (e *Entity) Err() <-chan error { return e.err }

func (e *Entity) Draw(s *tl.Screen) {
	if e.done {
		return
	}
	// we must use Draw because Tick is only called on input
	e.advance(time.Duration(s.TimeDelta() * float64(time.Second)))
}

func (e *Entity) advance(elapsed time.Duration) {
	if elapsed > hachi.MaxLag {
		elapsed = hachi.MaxLag
	}
	if err := e.r.Advance(elapsed); err != nil {
		e.done = true
		e.err <- err
	}
}

func (e *Entity) Tick(ev tl.Event) {}

// -----------------------------------------------------------------------------

func init() {
	err := hachi.RegisterDriver(Name, &TermloopDriver{})
	if err != nil {
		panic(err)
	}
}
