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

// Kind enumerates the instructions understood by the interpreter.
type Kind uint8

// Instruction kinds, named after their pseudo-asm mnemonics.
const (
	Unknown Kind = iota
	Cls          // 00E0
	Ret          // 00EE
	Jp           // 1NNN
	Call         // 2NNN
	Se           // 3XNN
	Sne          // 4XNN
	SeRegister   // 5XY0
	Ld           // 6XNN
	Add          // 7XNN
	LdRegister   // 8XY0
	Or           // 8XY1
	And          // 8XY2
	Xor          // 8XY3
	AddRegister  // 8XY4
	SubRegister  // 8XY5
	Shr          // 8XY6
	Subn         // 8XY7
	Shl          // 8XYE
	SneRegister  // 9XY0
	LdI          // ANNN
	JpV0         // BNNN
	Rnd          // CXNN
	Drw          // DXYN
	Skp          // EX9E
	Sknp         // EXA1
	LdDelayTimer
	LdKeyboard
	LdSetDelayTimer
	LdSetSoundTimer
	AddI
	LdFont
	LdBcd
	LdSetMemory
	LdMemory
)

// Instruction is a decoded opcode. Every operand field is always filled in,
// the Kind tells which of them are meaningful.
type Instruction struct {
	Kind   Kind
	Opcode uint16
	X, Y   uint8  // register nibbles
	N      uint8  // low nibble
	NN     uint8  // low byte
	NNN    uint16 // low 12 bits
}

// Decode splits opcode into its operand fields and identifies the
// instruction. Opcodes that match no instruction get the Unknown kind.
func Decode(opcode uint16) Instruction {
	in := Instruction{
		Opcode: opcode,
		X:      uint8(opcode >> 8 & 0xF),
		Y:      uint8(opcode >> 4 & 0xF),
		N:      uint8(opcode & 0xF),
		NN:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}

	switch opcode >> 12 {
	case 0x0:
		// SYS NNN is not supported, only the two builtin routines are.
		switch opcode {
		case 0x00E0:
			in.Kind = Cls
		case 0x00EE:
			in.Kind = Ret
		}
	case 0x1:
		in.Kind = Jp
	case 0x2:
		in.Kind = Call
	case 0x3:
		in.Kind = Se
	case 0x4:
		in.Kind = Sne
	case 0x5:
		if in.N == 0 {
			in.Kind = SeRegister
		}
	case 0x6:
		in.Kind = Ld
	case 0x7:
		in.Kind = Add
	case 0x8:
		switch in.N {
		case 0x0:
			in.Kind = LdRegister
		case 0x1:
			in.Kind = Or
		case 0x2:
			in.Kind = And
		case 0x3:
			in.Kind = Xor
		case 0x4:
			in.Kind = AddRegister
		case 0x5:
			in.Kind = SubRegister
		case 0x6:
			in.Kind = Shr
		case 0x7:
			in.Kind = Subn
		case 0xE:
			in.Kind = Shl
		}
	case 0x9:
		if in.N == 0 {
			in.Kind = SneRegister
		}
	case 0xA:
		in.Kind = LdI
	case 0xB:
		in.Kind = JpV0
	case 0xC:
		in.Kind = Rnd
	case 0xD:
		in.Kind = Drw
	case 0xE:
		switch in.NN {
		case 0x9E:
			in.Kind = Skp
		case 0xA1:
			in.Kind = Sknp
		}
	case 0xF:
		switch in.NN {
		case 0x07:
			in.Kind = LdDelayTimer
		case 0x0A:
			in.Kind = LdKeyboard
		case 0x15:
			in.Kind = LdSetDelayTimer
		case 0x18:
			in.Kind = LdSetSoundTimer
		case 0x1E:
			in.Kind = AddI
		case 0x29:
			in.Kind = LdFont
		case 0x33:
			in.Kind = LdBcd
		case 0x55:
			in.Kind = LdSetMemory
		case 0x65:
			in.Kind = LdMemory
		}
	}

	return in
}
