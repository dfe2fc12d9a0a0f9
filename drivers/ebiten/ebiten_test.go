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

package ebiten

import (
	"encoding/binary"
	"testing"

	"github.com/Francesco149/go-hachi/hachi"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrogolib/assert"
)

func TestKeypadState(t *testing.T) {
	down := map[ebiten.Key]bool{ebiten.KeyW: true, ebiten.KeyArrowUp: true,
		ebiten.KeyS: true, ebiten.KeyP: true}
	pressed := func(k ebiten.Key) bool { return down[k] }

	k := keypadState(DefaultKeyMap(), pressed)
	assert.Equal(t, hachi.Keypad(hachi.Key5|hachi.Key8), k)

	k = keypadState(DefaultKeyMap(), func(ebiten.Key) bool { return false })
	assert.Equal(t, hachi.Keypad(0), k)
}

func TestDefaultKeyMapCoversKeypad(t *testing.T) {
	var seen hachi.Keypad
	for _, num := range DefaultKeyMap() {
		seen.Press(num)
	}
	assert.Equal(t, hachi.Keypad(0xFFFF), seen)
}

func TestFramebufferToRGBA(t *testing.T) {
	var f hachi.Framebuffer
	f.Draw(1, 0, []byte{0x80})
	dst := make([]byte, hachi.Width*hachi.Height*4)
	framebufferToRGBA(&f, dst)

	assert.Equal(t, colorOff.R, dst[0])
	assert.Equal(t, colorOn.R, dst[4])
	assert.Equal(t, colorOn.A, dst[7])
	assert.Equal(t, colorOff.G, dst[len(dst)-3])
}

func TestSquareWave(t *testing.T) {
	p := make([]byte, 200)
	phase := squareWave(p, 0, false)
	assert.Equal(t, 100%(sampleRate/toneHz), phase)
	for _, b := range p {
		assert.Equal(t, byte(0), b)
	}

	p = make([]byte, 120)
	phase = squareWave(p, 0, true)
	assert.Equal(t, 60, phase)
	first := int16(binary.LittleEndian.Uint16(p[0:]))
	assert.Equal(t, int16(-amplitude), first)
	half := sampleRate / toneHz / 2
	high := int16(binary.LittleEndian.Uint16(p[half*2:]))
	assert.Equal(t, int16(amplitude), high)
}

func TestSetData(t *testing.T) {
	d := &EbitenDriver{}
	assert.NoError(t, d.SetData("scale", 4))
	assert.Equal(t, 4, d.GetData("scale"))
	assert.Error(t, d.SetData("scale", 0), "Invalid scale 0.")
	assert.Error(t, d.SetData("key_map", map[rune]uint8{}),
		"Invalid type map[int32]uint8 for key_map.")
	assert.NoError(t, d.SetData("key_map", map[ebiten.Key]uint8{ebiten.KeyK: 1}))
	assert.Error(t, d.SetData("colors", nil), "Unknown data key 'colors'.")
}

func TestBeepWithoutAudio(t *testing.T) {
	d := &EbitenDriver{}
	d.Beep()
	d.Beep()
	assert.Equal(t, uint64(2), d.GetData("beeps"))
}

func TestNewGameRequiresEbitenDriver(t *testing.T) {
	c, err := hachi.New(nil)
	assert.NoError(t, err)
	r, err := hachi.NewRunner(c, "null")
	assert.NoError(t, err)
	_, err = NewGame(r)
	assert.Error(t, err, "Runner uses driver null, not ebiten.")
}
