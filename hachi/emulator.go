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

// Package hachi implements various CHIP-8 utilities, including an emulator and
// a disassembler.
package hachi

import (
	"fmt"
	"io"
	"math/bits"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// FontSet holds the 16 hex digit glyphs, 5 bytes each, loaded at FontBase.
var FontSet = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// -----------------------------------------------------------------------------

// Chip8 is an implementation of a CHIP-8 emulator. It holds the state of the
// virtual machine and provides debugging tools.
// A Chip8 is not safe for concurrent use: Step, TickTimers and any host writes
// to Keys must happen on the same goroutine.
type Chip8 struct {
	// The memory where programs are loaded and executed.
	Memory [MemorySize]byte
	// V[0x0]~V[0xF] are 8-bit registers. V[0xF] doubles as a carry flag.
	V [16]uint8
	// 16-bit address register. Used for memory operations.
	I uint16
	// The call stack, which holds return addresses.
	Stack [StackSize]uint16
	// The stack pointer. Number of return addresses on the stack.
	SP int
	// Program counter. Holds the currently executing address.
	PC uint16
	// Delay and sound timers.
	Timers TimerPair
	// Keyboard state, written by the driver.
	Keys Keypad
	// Screen buffer.
	Screen Framebuffer

	settings Chip8Settings
	logger   *log.Logger
	random   RandomSource
	program  []byte
	wii      *waitInputInfo
}

// struct used to hold some info when waiting for input
type waitInputInfo struct {
	register uint8
}

// New initializes a new instance of Chip8 with the given settings. If settings
// is nil, DefaultSettings will be used.
func New(s *Chip8Settings) (c *Chip8, err error) {
	if s == nil {
		s = DefaultSettings
	}

	err = s.Validate()
	if err != nil {
		return
	}

	c = &Chip8{
		settings: *s,
		logger:   s.Logger,
		random:   s.Random,
	}
	if c.random == nil {
		c.random = defaultRandom()
	}

	c.reset()
	return
}

func (c *Chip8) reset() {
	c.Memory = [MemorySize]byte{}
	copy(c.Memory[FontBase:], FontSet[:])
	copy(c.Memory[ProgramStart:], c.program)

	c.V = [16]uint8{}
	c.I = 0
	c.Stack = [StackSize]uint16{}
	c.SP = 0
	c.PC = ProgramStart
	c.Timers = TimerPair{}
	c.wii = nil
}

// Reset puts the machine back in its power-on state, keeping the loaded
// program. The screen is cleared.
func (c *Chip8) Reset() {
	c.reset()
	c.Screen.Clear()
	if c.logger != nil {
		c.logger.Debug("Machine reset")
	}
}

// Settings returns a copy of the settings the instance was created with.
func (c *Chip8) Settings() Chip8Settings { return c.settings }

// String returns formatted information about the instance of the emulator.
func (c *Chip8) String() string {
	stack := make([]string, c.SP)
	for i, addr := range c.Stack[:c.SP] {
		stack[i] = fmt.Sprintf("%04X", addr)
	}

	return fmt.Sprintf("Chip8{Memory: %v bytes, Registers: [% 02X] I: %04X, "+
		"Stack: [%s], SP: %v, PC: %04X, DT: %02X, ST: %02X, "+
		"Keyboard: %016b, Screen: %v*%v}",
		len(c.Memory), c.V, c.I, strings.Join(stack, " "), c.SP, c.PC,
		c.Timers.Delay, c.Timers.Sound, uint16(c.Keys), Width, Height)
}

// Load opens a CHIP-8 binary file and loads it into memory.
// Returns the size, in bytes, of the program and an error if any.
func (c *Chip8) Load(path string) (size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return
	}

	size = fi.Size()
	if size > MaxProgramSize {
		err = &ProgramTooLargeErr{size}
		return
	}

	_, err = c.LoadReader(f)
	if err != nil {
		err = fmt.Errorf("loading %s: %w", path, err)
	}
	return
}

// LoadReader reads a CHIP-8 binary from r and loads it into memory.
// Returns the size, in bytes, of the program and an error if any.
func (c *Chip8) LoadReader(r io.Reader) (size int64, err error) {
	program, err := io.ReadAll(io.LimitReader(r, MaxProgramSize+1))
	if err != nil {
		return
	}
	size = int64(len(program))
	err = c.LoadRaw(program)
	return
}

// LoadRaw loads a byte array as a CHIP-8 binary into memory and resets the
// machine so execution starts at ProgramStart.
func (c *Chip8) LoadRaw(program []byte) error {
	if len(program) > MaxProgramSize {
		return &ProgramTooLargeErr{int64(len(program))}
	}

	c.program = append([]byte(nil), program...)
	c.reset()

	if c.logger != nil {
		c.logger.Info("Loaded program", log.Int("size", len(program)))
	}
	return nil
}

// Program returns the currently loaded program image.
func (c *Chip8) Program() []byte { return c.program }

// Waiting reports whether the machine is suspended on LD VX,K waiting for a
// key press.
func (c *Chip8) Waiting() bool { return c.wii != nil }

// TickTimers decrements the delay and sound timers. It must be called at
// TimerRate, independently from Step.
// Returns true if the sound timer was running during this tick.
func (c *Chip8) TickTimers() bool { return c.Timers.Tick() }

// Step runs one CPU cycle: it fetches, decodes and executes one instruction.
// Errors are fatal; the machine state is left as it was before the failing
// instruction so that it can be inspected.
func (c *Chip8) Step() error {
	if c.wii != nil {
		c.resumeWaitInput()
		return nil
	}

	if int(c.PC)+1 >= MemorySize {
		return &MemoryOutOfBoundsErr{int(c.PC) + 1}
	}

	in := Decode(uint16(c.Memory[c.PC])<<8 | uint16(c.Memory[c.PC+1]))

	if c.logger != nil {
		c.logger.Debug("exec",
			log.Uint16("pc", c.PC),
			log.Uint16("opcode", in.Opcode),
			log.String("instruction", in.String()))
	}

	return c.exec(in)
}

func (c *Chip8) resumeWaitInput() {
	pressed := uint16(c.Keys)
	if pressed == 0 {
		return
	}

	// get first pressed key (in case multiple are pressed)
	c.V[c.wii.register] = uint8(bits.TrailingZeros16(pressed))
	c.wii = nil
	c.PC += 2
}

func (c *Chip8) skipIf(cond bool) {
	if cond {
		c.PC += 4
	} else {
		c.PC += 2
	}
}

// checkAccess makes sure that n bytes starting at I are inside memory.
func (c *Chip8) checkAccess(n int) error {
	if last := int(c.I) + n - 1; last >= MemorySize {
		return &MemoryOutOfBoundsErr{last}
	}
	return nil
}

func (c *Chip8) exec(in Instruction) error {
	x, y := in.X, in.Y

	switch in.Kind {
	case Cls:
		c.Screen.Clear()
		c.PC += 2
	case Ret:
		// pop return address
		if c.SP == 0 {
			return &StackUnderflowErr{c.PC}
		}
		c.SP--
		c.PC = c.Stack[c.SP]
	case Jp:
		c.PC = in.NNN
	case Call:
		if c.SP >= StackSize {
			return &StackOverflowErr{c.PC}
		}
		// push return address
		c.Stack[c.SP] = c.PC + 2
		c.SP++
		c.PC = in.NNN
	case Se:
		c.skipIf(c.V[x] == in.NN)
	case Sne:
		c.skipIf(c.V[x] != in.NN)
	case SeRegister:
		c.skipIf(c.V[x] == c.V[y])
	case SneRegister:
		c.skipIf(c.V[x] != c.V[y])
	case Ld:
		c.V[x] = in.NN
		c.PC += 2
	case Add:
		c.V[x] += in.NN
		c.PC += 2
	case LdRegister:
		c.V[x] = c.V[y]
		c.PC += 2
	case Or:
		c.V[x] |= c.V[y]
		c.PC += 2
	case And:
		c.V[x] &= c.V[y]
		c.PC += 2
	case Xor:
		c.V[x] ^= c.V[y]
		c.PC += 2

	// the flag is always written last so it wins when X is F
	case AddRegister:
		result := uint16(c.V[x]) + uint16(c.V[y])
		// only store the 8 least significant bits
		c.V[x] = uint8(result)
		c.V[0xF] = uint8(result >> 8)
		c.PC += 2
	case SubRegister:
		vx, vy := c.V[x], c.V[y]
		c.V[x] = vx - vy
		c.V[0xF] = boolToFlag(vx >= vy) // borrow
		c.PC += 2
	case Subn:
		vx, vy := c.V[x], c.V[y]
		c.V[x] = vy - vx
		c.V[0xF] = boolToFlag(vy >= vx) // borrow
		c.PC += 2
	case Shr:
		src := c.V[x]
		if c.settings.LegacyMode {
			src = c.V[y]
		}
		c.V[x] = src >> 1
		c.V[0xF] = src & 0x01 // least significant bit
		c.PC += 2
	case Shl:
		src := c.V[x]
		if c.settings.LegacyMode {
			src = c.V[y]
		}
		c.V[x] = src << 1
		c.V[0xF] = src >> 7 // most significant bit
		c.PC += 2

	case LdI:
		c.I = in.NNN
		c.PC += 2
	case JpV0:
		c.PC = in.NNN + uint16(c.V[0])
	case Rnd:
		c.V[x] = c.random.Byte() & in.NN
		c.PC += 2
	case Drw:
		if err := c.checkAccess(int(in.N)); err != nil {
			return err
		}
		sprite := c.Memory[c.I : int(c.I)+int(in.N)]
		collision := c.Screen.Draw(c.V[x], c.V[y], sprite)
		c.V[0xF] = boolToFlag(collision)
		c.PC += 2
	case Skp:
		c.skipIf(c.Keys.Pressed(c.V[x]))
	case Sknp:
		c.skipIf(!c.Keys.Pressed(c.V[x]))
	case LdDelayTimer:
		c.V[x] = c.Timers.Delay
		c.PC += 2
	case LdKeyboard:
		// wait for input, PC stays on this instruction until a key is pressed
		c.wii = &waitInputInfo{x}
	case LdSetDelayTimer:
		c.Timers.Delay = c.V[x]
		c.PC += 2
	case LdSetSoundTimer:
		c.Timers.Sound = c.V[x]
		c.PC += 2
	case AddI:
		result := uint32(c.I) + uint32(c.V[x])
		c.I = uint16(result & 0x0FFF)
		// undocumented feature - set VF to 1 when there's a range overflow.
		c.V[0xF] = boolToFlag(result > 0x0FFF)
		c.PC += 2
	case LdFont:
		// fonts are stored starting at FontBase
		c.I = FontBase + uint16(c.V[x]&0x0F)*GlyphSize
		c.PC += 2
	case LdBcd:
		if err := c.checkAccess(3); err != nil {
			return err
		}
		value := c.V[x]
		c.Memory[c.I+2] = value % 10 // ones
		value /= 10
		c.Memory[c.I+1] = value % 10 // tens
		c.Memory[c.I] = value / 10   // hundreds
		c.PC += 2
	case LdSetMemory:
		if err := c.checkAccess(int(x) + 1); err != nil {
			return err
		}
		// copy V0-VX to memory
		copy(c.Memory[c.I:], c.V[:x+1])
		if c.settings.LegacyMode {
			c.I += uint16(x) + 1
		}
		c.PC += 2
	case LdMemory:
		if err := c.checkAccess(int(x) + 1); err != nil {
			return err
		}
		// copy memory to V0-VX
		copy(c.V[:x+1], c.Memory[c.I:])
		if c.settings.LegacyMode {
			c.I += uint16(x) + 1
		}
		c.PC += 2
	default:
		if !c.settings.SkipUnknown {
			return &UnknownInstructionErr{in.Opcode, c.PC}
		}
		if c.logger != nil {
			c.logger.Warn("Skipping unknown instruction",
				log.Uint16("pc", c.PC),
				log.Uint16("opcode", in.Opcode))
		}
		c.PC += 2
	}

	return nil
}
