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

package hachi

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeypad(t *testing.T) {
	var k Keypad
	k.Press(0x3)
	k.Press(0xF)
	assert.True(t, k.Pressed(0x3))
	assert.True(t, k.Pressed(0xF))
	assert.False(t, k.Pressed(0x4))
	assert.Equal(t, Keypad(Key3|KeyF), k)

	// only the low nibble selects the key
	assert.True(t, k.Pressed(0x13))

	k.Set(0x3, false)
	assert.False(t, k.Pressed(0x3))
	k.Set(0x0, true)
	assert.True(t, k.Pressed(0x0))

	k.ReleaseAll()
	assert.Equal(t, Keypad(0), k)
}

func TestTimerPair(t *testing.T) {
	timers := TimerPair{Delay: 2, Sound: 1}

	assert.True(t, timers.Tick())
	assert.Equal(t, TimerPair{Delay: 1, Sound: 0}, timers)

	assert.False(t, timers.Tick())
	assert.Equal(t, TimerPair{}, timers)

	// counters stop at zero
	assert.False(t, timers.Tick())
	assert.Equal(t, TimerPair{}, timers)
}

func TestSeededSource(t *testing.T) {
	a := NewSeededSource(42)
	b := NewSeededSource(42)
	for i := 0; i < 32; i++ {
		assert.Equal(t, a.Byte(), b.Byte())
	}
}
