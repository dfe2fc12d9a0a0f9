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

// A ProgramTooLargeErr is returned upon attempting to load a program that
// exceeds the memory's capacity.
type ProgramTooLargeErr struct {
	Size int64
}

func (e *ProgramTooLargeErr) Error() string {
	return fmt.Sprintf("Not enough memory (program size: %v, free memory: %v)",
		e.Size, MaxProgramSize)
}

// A StackOverflowErr is returned when a call is made with all stack slots in
// use.
type StackOverflowErr struct {
	Address uint16
}

func (e *StackOverflowErr) Error() string {
	return fmt.Sprintf("Stack overflow at %04X.", e.Address)
}

// A StackUnderflowErr is returned when a return is executed with an empty
// stack.
type StackUnderflowErr struct {
	Address uint16
}

func (e *StackUnderflowErr) Error() string {
	return fmt.Sprintf("Stack underflow at %04X.", e.Address)
}

// An UnknownInstructionErr is returned when the emulator tries to execute an
// opcode that doesn't decode to any instruction.
type UnknownInstructionErr struct {
	Opcode  uint16
	Address uint16
}

func (e *UnknownInstructionErr) Error() string {
	return fmt.Sprintf("Unknown instruction %04X at %04X.", e.Opcode, e.Address)
}

// A MemoryOutOfBoundsErr is returned when an instruction fetch or an indirect
// access through I would touch memory past the end of the address space.
type MemoryOutOfBoundsErr struct {
	Address int
}

func (e *MemoryOutOfBoundsErr) Error() string {
	return fmt.Sprintf("Tried to access memory out of bounds at %04X.",
		e.Address)
}
