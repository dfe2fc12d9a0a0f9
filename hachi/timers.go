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

// TimerPair holds the two countdown timers. Both count down at TimerRate when
// they are non-zero.
// Delay is intended to be used for timing events in games, while Sound makes a
// beeping sound as long as its value is non-zero.
type TimerPair struct {
	Delay uint8
	Sound uint8
}

// Tick decrements each non-zero timer by one.
// Returns true if the sound timer was running, which means that the host
// should be beeping during this tick.
func (t *TimerPair) Tick() (sounding bool) {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
		sounding = true
	}
	return
}
