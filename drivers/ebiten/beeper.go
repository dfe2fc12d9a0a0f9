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
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 44100
	toneHz     = 440
	// peak amplitude of the square wave, out of 32767
	amplitude = 4000
)

// beeper plays a square wave through oto for as long as Beep keeps being
// called.
type beeper struct {
	ctx    *oto.Context
	player *oto.Player
	// unix nanoseconds until which the tone keeps playing
	until atomic.Int64
	phase int
}

func newBeeper() (*beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	b := &beeper{ctx: ctx}
	b.player = ctx.NewPlayer(b)
	b.player.Play()
	return b, nil
}

// Beep keeps the tone playing for d from now.
func (b *beeper) Beep(d time.Duration) {
	b.until.Store(time.Now().Add(d).UnixNano())
}

// Read implements io.Reader for the oto player. It never returns an error so
// the player keeps streaming silence between beeps.
func (b *beeper) Read(p []byte) (int, error) {
	on := time.Now().UnixNano() < b.until.Load()
	b.phase = squareWave(p, b.phase, on)
	return len(p) &^ 1, nil
}

func (b *beeper) Close() error {
	return b.player.Close()
}

// squareWave fills p with 16 bit little endian mono samples of the tone, or
// silence when on is false, starting at phase. Returns the next phase.
func squareWave(p []byte, phase int, on bool) int {
	period := sampleRate / toneHz
	for i := 0; i+1 < len(p); i += 2 {
		var sample int16
		if on {
			sample = amplitude
			if phase < period/2 {
				sample = -amplitude
			}
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(sample))
		phase = (phase + 1) % period
	}
	return phase
}
