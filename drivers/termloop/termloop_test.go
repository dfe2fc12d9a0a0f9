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

package termloop

import (
	"testing"
	"time"

	"github.com/Francesco149/go-hachi/hachi"
	tl "github.com/JoelOtter/termloop"
	"github.com/retroenv/retrogolib/assert"
)

func TestInputHandler(t *testing.T) {
	d := &TermloopDriver{keyMap: DefaultKeyMap(), runeMap: DefaultRuneMap()}
	h := &inputHandler{d, make(map[uint8]time.Time)}
	c, err := hachi.New(nil)
	assert.NoError(t, err)

	h.Tick(tl.Event{Type: tl.EventKey, Ch: 'w'})
	h.Tick(tl.Event{Type: tl.EventKey, Key: tl.KeyArrowUp})
	h.Tick(tl.Event{Type: tl.EventKey, Ch: 'p'})
	h.apply(c)
	assert.True(t, c.Keys.Pressed(0x5))
	assert.True(t, c.Keys.Pressed(0x8))
	assert.Equal(t, hachi.Keypad(hachi.Key5|hachi.Key8), c.Keys)

	// no repeat event, the key is released
	h.held[0x5] = time.Now().Add(-2 * keyHold)
	h.apply(c)
	assert.False(t, c.Keys.Pressed(0x5))
	assert.True(t, c.Keys.Pressed(0x8))
}

func TestSetData(t *testing.T) {
	d := &TermloopDriver{}
	assert.NoError(t, d.SetData("key_map", map[tl.Key]uint8{tl.KeyEnter: 0xA}))
	assert.Equal(t, uint8(0xA), d.keyMap[tl.KeyEnter])
	assert.NoError(t, d.SetData("rune_map", map[rune]uint8{'k': 0x1}))
	assert.Equal(t, uint8(0x1), d.runeMap['k'])

	assert.Error(t, d.SetData("key_map", map[string]int{}),
		"Invalid type map[string]int for key_map.")
	assert.Error(t, d.SetData("speed", 3), "Unknown data key 'speed'.")
	assert.True(t, d.GetData("speed") == nil)
}

func newNullRunner(t *testing.T, program []byte) *hachi.Runner {
	t.Helper()
	c, err := hachi.New(nil)
	assert.NoError(t, err)
	assert.NoError(t, c.LoadRaw(program))
	r, err := hachi.NewRunner(c, "null")
	assert.NoError(t, err)
	return r
}

func TestEntityCapsFrameTime(t *testing.T) {
	// JP 200
	r := newNullRunner(t, []byte{0x12, 0x00})
	e := NewEntity(r)

	// a stalled frame only catches up on MaxLag worth of cycles
	e.advance(10 * time.Second)
	assert.Equal(t, uint64(60), r.Cycles())
	assert.Equal(t, uint64(6), r.Ticks())

	e.advance(50 * time.Millisecond)
	assert.Equal(t, uint64(90), r.Cycles())
}

func TestEntityReportsError(t *testing.T) {
	r := newNullRunner(t, []byte{0xFF, 0xFF})
	e := NewEntity(r)

	e.advance(time.Second / 60)
	assert.True(t, e.done)
	err := <-e.Err()
	assert.Error(t, err, "Unknown instruction FFFF at 0200.")
}

func TestRegistered(t *testing.T) {
	assert.True(t, hachi.LookupDriver(Name) != nil)
}
