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
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Memory layout and machine dimensions.
const (
	// Most implementations use 4k (0x1000 bytes) of memory.
	MemorySize = 0x1000
	// Programs start at 0x200 because the COSMAC VIP interpreter occupied the
	// first 512 bytes.
	ProgramStart = 0x200
	// MaxProgramSize is the largest program that fits between ProgramStart and
	// the end of memory.
	MaxProgramSize = MemorySize - ProgramStart
	// StackSize is the maximum amount of nested calls.
	StackSize = 16
	// FontBase is the address of the first font glyph.
	FontBase = 0x000
	// GlyphSize is the size of a font glyph in bytes.
	GlyphSize = 5
)

// Chip8Settings holds the configuration parameters for a Chip8 instance.
type Chip8Settings struct {
	// Instructions executed per second by the Runner.
	CycleRate int
	// Timer decrements per second. The COSMAC VIP ran them at 60hz.
	TimerRate int
	// Enables old behaviour for SHL VX,VY , SHR VX,VY , LD [I],VX and LD VX,[I]
	LegacyMode bool
	// SkipUnknown makes Step log and skip unknown opcodes instead of failing.
	SkipUnknown bool
	// Logger receives instruction traces at debug level. nil disables logging.
	Logger *log.Logger
	// Random is the source for RND VX,NN. nil picks a time seeded source.
	Random RandomSource
}

// Validate validates the settings.
// Returns an error when the settings aren't valid.
func (s *Chip8Settings) Validate() error {
	if s.CycleRate < 1 || s.CycleRate > 100000 {
		return fmt.Errorf("CycleRate must be within 1-100000, got %v.",
			s.CycleRate)
	}
	if s.TimerRate < 1 || s.TimerRate > 1000 {
		return fmt.Errorf("TimerRate must be within 1-1000, got %v.",
			s.TimerRate)
	}
	return nil
}

// The default settings for Chip8.
var DefaultSettings = &Chip8Settings{
	CycleRate:  600,
	TimerRate:  60,
	LegacyMode: false,
}
