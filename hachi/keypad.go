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

// Key flags for the Keypad bitfield.
const (
	Key0 = 1 << iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

// Key flags mapped by number.
var KeyFlags = [16]uint16{Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7,
	Key8, Key9, KeyA, KeyB, KeyC, KeyD, KeyE, KeyF}

// Keypad is a hex keyboard with 16 keys. 8, 4, 6 and 2 are typically used for
// directional input.
// This is a bitfield, see the constants for the flags. It is written by the
// host and only read by the interpreter.
type Keypad uint16

// Press marks key k (0x0-0xF) as held down.
func (k *Keypad) Press(key uint8) { *k |= Keypad(KeyFlags[key&0xF]) }

// Release marks key k (0x0-0xF) as released.
func (k *Keypad) Release(key uint8) { *k &^= Keypad(KeyFlags[key&0xF]) }

// Set presses or releases a key.
func (k *Keypad) Set(key uint8, pressed bool) {
	if pressed {
		k.Press(key)
	} else {
		k.Release(key)
	}
}

// Pressed reports whether key k is held down. Only the low nibble of key is
// used, like on the COSMAC VIP.
func (k Keypad) Pressed(key uint8) bool {
	return uint16(k)&KeyFlags[key&0xF] != 0
}

// ReleaseAll releases every key.
func (k *Keypad) ReleaseAll() { *k = 0 }
