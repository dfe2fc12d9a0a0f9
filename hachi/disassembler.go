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

import "fmt"

// String returns a pseudo-asm representation of the instruction.
func (i Instruction) String() string {
	switch i.Kind {
	case Cls:
		return "CLS"
	case Ret:
		return "RET"
	case Jp:
		return fmt.Sprintf("JP %03X", i.NNN)
	case Call:
		return fmt.Sprintf("CALL %03X", i.NNN)
	case Se:
		return fmt.Sprintf("SE V%1X,%02X", i.X, i.NN)
	case Sne:
		return fmt.Sprintf("SNE V%1X,%02X", i.X, i.NN)
	case SeRegister:
		return fmt.Sprintf("SE V%1X,V%1X", i.X, i.Y)
	case Ld:
		return fmt.Sprintf("LD V%1X,%02X", i.X, i.NN)
	case Add:
		return fmt.Sprintf("ADD V%1X,%02X", i.X, i.NN)
	case LdRegister:
		return fmt.Sprintf("LD V%1X,V%1X", i.X, i.Y)
	case Or:
		return fmt.Sprintf("OR V%1X,V%1X", i.X, i.Y)
	case And:
		return fmt.Sprintf("AND V%1X,V%1X", i.X, i.Y)
	case Xor:
		return fmt.Sprintf("XOR V%1X,V%1X", i.X, i.Y)
	case AddRegister:
		return fmt.Sprintf("ADD V%1X,V%1X", i.X, i.Y)
	case SubRegister:
		return fmt.Sprintf("SUB V%1X,V%1X", i.X, i.Y)
	case Shr:
		return fmt.Sprintf("SHR V%1X,V%1X", i.X, i.Y)
	case Subn:
		return fmt.Sprintf("SUBN V%1X,V%1X", i.X, i.Y)
	case Shl:
		return fmt.Sprintf("SHL V%1X,V%1X", i.X, i.Y)
	case SneRegister:
		return fmt.Sprintf("SNE V%1X,V%1X", i.X, i.Y)
	case LdI:
		return fmt.Sprintf("LD I,%03X", i.NNN)
	case JpV0:
		return fmt.Sprintf("JP V0,%03X", i.NNN)
	case Rnd:
		return fmt.Sprintf("RND V%1X,%02X", i.X, i.NN)
	case Drw:
		return fmt.Sprintf("DRW V%1X,V%1X,%1X", i.X, i.Y, i.N)
	case Skp:
		return fmt.Sprintf("SKP V%1X", i.X)
	case Sknp:
		return fmt.Sprintf("SKNP V%1X", i.X)
	case LdDelayTimer:
		return fmt.Sprintf("LD V%1X,DT", i.X)
	case LdKeyboard:
		return fmt.Sprintf("LD V%1X,K", i.X)
	case LdSetDelayTimer:
		return fmt.Sprintf("LD DT,V%1X", i.X)
	case LdSetSoundTimer:
		return fmt.Sprintf("LD ST,V%1X", i.X)
	case AddI:
		return fmt.Sprintf("ADD I,V%1X", i.X)
	case LdFont:
		return fmt.Sprintf("LD I,CHAR V%1X", i.X)
	case LdBcd:
		return fmt.Sprintf("LD [I],BCD V%1X", i.X)
	case LdSetMemory:
		return fmt.Sprintf("LD [I],V%1X", i.X)
	case LdMemory:
		return fmt.Sprintf("LD V%1X,[I]", i.X)
	}
	return fmt.Sprintf("DB %02X %02X", i.Opcode>>8, i.Opcode&0xFF)
}

var descriptions = map[Kind]string{
	Unknown:         "Unknown / Raw Data",
	Cls:             "00E0: Clears the screen.",
	Ret:             "00EE: Returns from a subroutine.",
	Jp:              "1NNN: Jumps to address NNN.",
	Call:            "2NNN: Calls subroutine at NNN.",
	Se:              "3XNN: Skips the next instruction if VX equals NN.",
	Sne:             "4XNN: Skips the next instruction if VX doesn't equal NN.",
	SeRegister:      "5XY0: Skips the next instruction if VX equals VY.",
	Ld:              "6XNN: Sets VX to NN.",
	Add:             "7XNN: Adds NN to VX.",
	LdRegister:      "8XY0: Sets VX to the value of VY.",
	Or:              "8XY1: Sets VX to VX | VY (bit-wise OR).",
	And:             "8XY2: Sets VX to VX & VY (bit-wise AND).",
	Xor:             "8XY3: Sets VX to VX ^ VY (bit-wise XOR).",
	AddRegister:     "8XY4: VX += VY. VF = 1 when there's a carry, 0 when there isn't.",
	SubRegister:     "8XY5: VX -= VY. VF = 0 when there's a borrow, 1 when there isn't.",
	Shr:             "8XY6: VX >>= 1. VF = least significant bit prior to the shift.",
	Subn:            "8XY7: VX = VY - VX. VF = 0 when there's a borrow, 1 when there isn't.",
	Shl:             "8XYE: VX <<= 1. VF = most significant bit prior to the shift.",
	SneRegister:     "9XY0: Skips the next instruction if VX doesn't equal VY.",
	LdI:             "ANNN: Sets I to the address NNN.",
	JpV0:            "BNNN: Jumps to the address NNN plus V0.",
	Rnd:             "CXNN: Sets VX to a random number (0-FF) & NN (bit-wise AND).",
	Drw:             "DXYN: Draws N rows of sprite pointed by I at VX,VY.",
	Skp:             "EX9E: Skips the next instruction if the key stored in VX is pressed.",
	Sknp:            "EXA1: Skips the next instruction if the key stored in VX isn't pressed.",
	LdDelayTimer:    "FX07: Sets VX to the value of the delay timer.",
	LdKeyboard:      "FX0A: A key press is awaited, and then key number is stored in VX.",
	LdSetDelayTimer: "FX15: Sets the delay timer to VX.",
	LdSetSoundTimer: "FX18: Sets the sound timer to VX.",
	AddI:            "FX1E: Adds VX to I.",
	LdFont:          "FX29: Sets I to the location of the sprite for the character in VX.",
	LdBcd:           "FX33: Store BCD representation of VX in memory at I, I+1, and I+2.",
	LdSetMemory:     "FX55: Stores V0 to VX in memory starting at address I.",
	LdMemory:        "FX65: Fills V0 to VX with values from memory starting at address I.",
}

// Description returns a detailed description of what the instruction does.
func (i Instruction) Description() string { return descriptions[i.Kind] }

// -----------------------------------------------------------------------------

// A Line is one disassembled instruction or one chunk of raw data.
type Line struct {
	Address     uint16
	Data        []byte
	Instruction Instruction
}

// Size returns the size of the line in bytes.
func (l Line) Size() int { return len(l.Data) }

// String returns the pseudo-asm for the line.
func (l Line) String() string {
	if len(l.Data) == 1 {
		return fmt.Sprintf("DB %02X", l.Data[0])
	}
	return l.Instruction.String()
}

// ASCII returns the raw data as text when it is printable ascii, or an empty
// string otherwise.
func (l Line) ASCII() (res string) {
	if printable(l.Data) {
		res = string(l.Data)
	}
	return
}

// Disassemble decodes b two bytes at a time, assuming it is loaded at origin.
// It's fast but it cannot handle odd-aligned opcodes or recognize raw data
// memory regions, which are shown as DB lines. A trailing odd byte becomes a
// one byte DB line.
func Disassemble(b []byte, origin uint16) (res []Line, err error) {
	if int(origin)+len(b) > MemorySize {
		err = &MemoryOutOfBoundsErr{int(origin) + len(b) - 1}
		return
	}

	for i := 0; i < len(b); i += 2 {
		end := i + 2
		if end > len(b) {
			end = len(b)
		}

		l := Line{Address: origin + uint16(i), Data: b[i:end]}
		if len(l.Data) == 2 {
			l.Instruction = Decode(uint16(l.Data[0])<<8 | uint16(l.Data[1]))
		}
		res = append(res, l)
	}

	return
}
