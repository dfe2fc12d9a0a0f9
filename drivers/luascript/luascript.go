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

// Package luascript implements a headless driver for hachi that is controlled
// by a Lua script. It is meant for automated runs: feeding input to a program,
// checking the screen and stopping the emulator when a condition is met.
//
// The script is loaded through SetDriverData("script", path) or
// SetDriverData("source", code) once the runner is created. The chunk is run
// immediately, after which the driver calls these globals if the script
// defines them:
//
//	on_frame(n)   before every Runner.Advance, n counts from 1
//	on_draw()     after the program changed the screen
//	on_beep()     on every timer tick while the sound timer runs
//
// The script can use the following functions:
//
//	press(k), release(k)  hold or release key k (0-15)
//	reg(n)                value of register Vn
//	pc(), index()         program counter and I
//	peek(addr)            byte of memory at addr
//	pixel(x, y)           true if the pixel at x,y is on
//	screen()              the screen as text, '#' for lit pixels
//	waiting()             true while the program waits for a key
//	log(msg)              write msg to the emulator log
//	quit()                ask the host to stop the emulator
//
// The host watches GetData("quit") to know when to stop, and GetData("error")
// for the error that stopped the script, if any.
package luascript

import (
	"fmt"
	"sync"

	"github.com/Francesco149/go-hachi/hachi"
	"github.com/retroenv/retrogolib/log"
	lua "github.com/yuin/gopher-lua"
)

// Name is the name the driver is registered as.
const Name = "lua"

// A LuaDriver forwards emulator events to a Lua script.
type LuaDriver struct {
	c      *hachi.Chip8
	L      *lua.LState
	logger *log.Logger
	frame  int
	err    error

	quit     chan struct{}
	quitOnce sync.Once
}

// NewLuaDriver returns a driver with no script loaded. Register it under a
// name of your choice with hachi.RegisterDriver to run several instances.
func NewLuaDriver() *LuaDriver {
	return &LuaDriver{quit: make(chan struct{})}
}

func (d *LuaDriver) OnInit(c *hachi.Chip8) {
	d.c = c
	d.logger = c.Settings().Logger
	d.frame = 0
	d.err = nil
	d.quit = make(chan struct{})
	d.quitOnce = sync.Once{}
}

func (d *LuaDriver) stop() {
	d.quitOnce.Do(func() { close(d.quit) })
}

// Close releases the Lua state.
func (d *LuaDriver) Close() error {
	if d.L != nil {
		d.L.Close()
		d.L = nil
	}
	return nil
}

func (d *LuaDriver) newState() *lua.LState {
	L := lua.NewState()

	fns := map[string]lua.LGFunction{
		"press": func(L *lua.LState) int {
			d.c.Keys.Press(uint8(L.CheckInt(1)))
			return 0
		},
		"release": func(L *lua.LState) int {
			d.c.Keys.Release(uint8(L.CheckInt(1)))
			return 0
		},
		"reg": func(L *lua.LState) int {
			L.Push(lua.LNumber(d.c.V[L.CheckInt(1)&0xF]))
			return 1
		},
		"pc": func(L *lua.LState) int {
			L.Push(lua.LNumber(d.c.PC))
			return 1
		},
		"index": func(L *lua.LState) int {
			L.Push(lua.LNumber(d.c.I))
			return 1
		},
		"peek": func(L *lua.LState) int {
			addr := L.CheckInt(1)
			if addr < 0 || addr >= hachi.MemorySize {
				L.ArgError(1, "address out of range")
				return 0
			}
			L.Push(lua.LNumber(d.c.Memory[addr]))
			return 1
		},
		"pixel": func(L *lua.LState) int {
			L.Push(lua.LBool(d.c.Screen.Pixel(L.CheckInt(1), L.CheckInt(2))))
			return 1
		},
		"screen": func(L *lua.LState) int {
			L.Push(lua.LString(d.c.Screen.String()))
			return 1
		},
		"waiting": func(L *lua.LState) int {
			L.Push(lua.LBool(d.c.Waiting()))
			return 1
		},
		"log": func(L *lua.LState) int {
			if d.logger != nil {
				d.logger.Info(L.CheckString(1), log.String("source", "lua"))
			}
			return 0
		},
		"quit": func(L *lua.LState) int {
			d.stop()
			return 0
		},
	}
	for name, fn := range fns {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	return L
}

// load replaces the current script with a new state running run.
func (d *LuaDriver) load(run func(L *lua.LState) error) error {
	if d.c == nil {
		return fmt.Errorf("The driver must be attached to a runner first.")
	}

	L := d.newState()
	if err := run(L); err != nil {
		L.Close()
		return err
	}

	_ = d.Close()
	d.L = L
	d.err = nil
	return nil
}

// call invokes the global function name, if it exists. A failing callback
// stops the script and asks the host to quit.
func (d *LuaDriver) call(name string, args ...lua.LValue) {
	if d.L == nil || d.err != nil {
		return
	}
	fn := d.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return
	}

	err := d.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil {
		d.err = fmt.Errorf("lua %s: %w", name, err)
		if d.logger != nil {
			d.logger.Error("Script failed", d.err)
		}
		d.stop()
	}
}

func (d *LuaDriver) OnUpdate(c *hachi.Chip8) {
	d.frame++
	d.call("on_frame", lua.LNumber(d.frame))
}

func (d *LuaDriver) UpdateScreen(c *hachi.Chip8) { d.call("on_draw") }

func (d *LuaDriver) Beep() { d.call("on_beep") }

func (d *LuaDriver) GetData(key string) interface{} {
	switch key {
	case "quit":
		return (<-chan struct{})(d.quit)
	case "error":
		if d.err == nil {
			return nil
		}
		return d.err
	case "frame":
		return d.frame
	}
	return nil
}

func (d *LuaDriver) SetData(key string, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("Invalid type %T for %s.", value, key)
	}

	switch key {
	case "script":
		return d.load(func(L *lua.LState) error { return L.DoFile(s) })
	case "source":
		return d.load(func(L *lua.LState) error { return L.DoString(s) })
	}
	return fmt.Errorf("Unknown data key '%s'.", key)
}

// -----------------------------------------------------------------------------

func init() {
	err := hachi.RegisterDriver(Name, NewLuaDriver())
	if err != nil {
		panic(err)
	}
}
