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

package luascript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Francesco149/go-hachi/hachi"
	"github.com/retroenv/retrogolib/assert"
	lua "github.com/yuin/gopher-lua"
)

func newTestRunner(t *testing.T, program []byte, source string) (
	*hachi.Runner, *LuaDriver) {

	t.Helper()
	d := NewLuaDriver()
	assert.NoError(t, hachi.RegisterDriver(t.Name(), d))
	t.Cleanup(func() {
		_ = hachi.UnregisterDriver(t.Name())
		_ = d.Close()
	})

	c, err := hachi.New(nil)
	assert.NoError(t, err)
	assert.NoError(t, c.LoadRaw(program))
	r, err := hachi.NewRunner(c, t.Name())
	assert.NoError(t, err)
	assert.NoError(t, r.SetDriverData("source", source))
	return r, d
}

// runUntilQuit advances r one frame at a time until the script quits.
func runUntilQuit(t *testing.T, r *hachi.Runner, frames int) {
	t.Helper()
	quit := r.DriverData("quit").(<-chan struct{})
	for i := 0; i < frames; i++ {
		select {
		case <-quit:
			return
		default:
		}
		assert.NoError(t, r.Advance(time.Second/60))
	}
	t.Fatalf("script didn't quit after %d frames", frames)
}

func TestScriptedInput(t *testing.T) {
	// LD V1,K  JP 202
	program := []byte{0xF1, 0x0A, 0x12, 0x02}
	r, _ := newTestRunner(t, program, `
		function on_frame(n)
			if n == 2 then press(0xB) end
			if reg(1) == 0xB and not waiting() then quit() end
		end
	`)

	runUntilQuit(t, r, 10)
	assert.Equal(t, uint8(0xB), r.Machine().V[1])
	assert.Equal(t, uint16(0x202), r.Machine().PC)
}

func TestScriptReadsScreenAndMemory(t *testing.T) {
	// LD I,000  DRW V0,V0,5  JP 204
	program := []byte{0xA0, 0x00, 0xD0, 0x05, 0x12, 0x04}
	r, d := newTestRunner(t, program, `
		drawn = 0
		function on_draw() drawn = drawn + 1 end
		function on_frame(n)
			if pixel(0, 0) and not pixel(4, 0) and peek(0) == 0xF0
				and index() == 0 and pc() == 0x204
				and string.sub(screen(), 1, 5) == "####." then
				quit()
			end
		end
	`)

	runUntilQuit(t, r, 10)
	assert.Equal(t, 1, globalInt(d, "drawn"))
}

func globalInt(d *LuaDriver, name string) int {
	return int(lua.LVAsNumber(d.L.GetGlobal(name)))
}

func TestScriptBeeps(t *testing.T) {
	// LD V0,03  LD ST,V0  JP 204
	program := []byte{0x60, 0x03, 0xF0, 0x18, 0x12, 0x04}
	r, d := newTestRunner(t, program, `
		beeps = 0
		function on_beep() beeps = beeps + 1 end
		function on_frame(n) if n > 10 then quit() end end
	`)

	runUntilQuit(t, r, 20)
	assert.Equal(t, 3, globalInt(d, "beeps"))
}

func TestScriptError(t *testing.T) {
	r, d := newTestRunner(t, []byte{0x12, 0x00}, `
		function on_frame(n) error("boom") end
	`)

	runUntilQuit(t, r, 2)
	err, ok := r.DriverData("error").(error)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(err.Error(), "lua on_frame: "))
	assert.True(t, strings.Contains(err.Error(), "boom"))
	assert.Equal(t, 1, d.GetData("frame"))
}

func TestLoadErrors(t *testing.T) {
	r, d := newTestRunner(t, nil, "x = 1")
	assert.True(t, r.SetDriverData("source", "function (") != nil)
	assert.Error(t, r.SetDriverData("source", 42), "Invalid type int for source.")
	assert.Error(t, r.SetDriverData("speed", "fast"), "Unknown data key 'speed'.")
	assert.True(t, r.SetDriverData("script",
		filepath.Join(t.TempDir(), "missing.lua")) != nil)
	// the previous script is still loaded
	assert.Equal(t, "1", d.L.GetGlobal("x").String())
	assert.True(t, r.DriverData("error") == nil)

	unattached := NewLuaDriver()
	assert.Error(t, unattached.SetData("source", "x = 1"),
		"The driver must be attached to a runner first.")
}

func TestLoadScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quit.lua")
	assert.NoError(t, os.WriteFile(path, []byte("function on_frame(n) quit() end"),
		0o644))

	r, _ := newTestRunner(t, []byte{0x12, 0x00}, "")
	assert.NoError(t, r.SetDriverData("script", path))
	runUntilQuit(t, r, 2)
}
