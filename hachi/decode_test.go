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

func TestDecodeKinds(t *testing.T) {
	tests := []struct {
		opcode uint16
		kind   Kind
	}{
		{0x00E0, Cls},
		{0x00EE, Ret},
		{0x0000, Unknown},
		{0x0200, Unknown},
		{0x1234, Jp},
		{0x2345, Call},
		{0x3A12, Se},
		{0x4A12, Sne},
		{0x5AB0, SeRegister},
		{0x5AB1, Unknown},
		{0x6A12, Ld},
		{0x7A12, Add},
		{0x8AB0, LdRegister},
		{0x8AB1, Or},
		{0x8AB2, And},
		{0x8AB3, Xor},
		{0x8AB4, AddRegister},
		{0x8AB5, SubRegister},
		{0x8AB6, Shr},
		{0x8AB7, Subn},
		{0x8ABE, Shl},
		{0x8AB8, Unknown},
		{0x8ABF, Unknown},
		{0x9AB0, SneRegister},
		{0x9AB1, Unknown},
		{0xA123, LdI},
		{0xB123, JpV0},
		{0xCA12, Rnd},
		{0xDAB5, Drw},
		{0xEA9E, Skp},
		{0xEAA1, Sknp},
		{0xEA00, Unknown},
		{0xFA07, LdDelayTimer},
		{0xFA0A, LdKeyboard},
		{0xFA15, LdSetDelayTimer},
		{0xFA18, LdSetSoundTimer},
		{0xFA1E, AddI},
		{0xFA29, LdFont},
		{0xFA33, LdBcd},
		{0xFA55, LdSetMemory},
		{0xFA65, LdMemory},
		{0xFA30, Unknown},
	}

	for _, tt := range tests {
		in := Decode(tt.opcode)
		if in.Kind != tt.kind {
			t.Errorf("Decode(%04X): got kind %v, want %v", tt.opcode, in.Kind,
				tt.kind)
		}
		assert.Equal(t, tt.opcode, in.Opcode)
	}
}

func TestDecodeOperands(t *testing.T) {
	in := Decode(0xD7C3)
	assert.Equal(t, Drw, in.Kind)
	assert.Equal(t, uint8(0x7), in.X)
	assert.Equal(t, uint8(0xC), in.Y)
	assert.Equal(t, uint8(0x3), in.N)
	assert.Equal(t, uint8(0xC3), in.NN)
	assert.Equal(t, uint16(0x7C3), in.NNN)
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		opcode   uint16
		expected string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x1234, "JP 234"},
		{0x2345, "CALL 345"},
		{0x6A12, "LD VA,12"},
		{0x8AB4, "ADD VA,VB"},
		{0xB123, "JP V0,123"},
		{0xDAB5, "DRW VA,VB,5"},
		{0xFA07, "LD VA,DT"},
		{0xFA0A, "LD VA,K"},
		{0xFA29, "LD I,CHAR VA"},
		{0xFA33, "LD [I],BCD VA"},
		{0xFA65, "LD VA,[I]"},
		{0x0123, "DB 01 23"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Decode(tt.opcode).String())
	}

	assert.Equal(t, "1NNN: Jumps to address NNN.", Decode(0x1234).Description())
	assert.Equal(t, "Unknown / Raw Data", Decode(0xFFFF).Description())
}
