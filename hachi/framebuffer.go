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

// Screen dimensions. The official resolution is 64x32.
const (
	Width  = 64
	Height = 32
)

/*
	Screen memory layout:
	                                     x ->
	  00000000 00000000 00000000 00000000 ...
	  00000000 01000000 00000000 00000000 ...
	y 00000000 00000000 00000000 00000000 ...
	| ...
	v

	Pixels are packed as single bits in an array of bytes, most significant bit
	first. The 1 above is at screen coordinates 9,1, which is bit 0x80>>(9%8) of
	byte 1*Width/8 + 9/8.
*/

// Framebuffer is the monochrome screen buffer. Each bit is a pixel which can
// be either on or off.
type Framebuffer struct {
	buf   [Width * Height / 8]byte
	dirty bool
}

func pixelIndex(x, y int) (index int, mask byte) {
	x %= Width
	y %= Height
	return y*(Width/8) + x/8, 0x80 >> uint(x%8)
}

// Pixel returns the state of the pixel at x,y. Coordinates wrap around.
func (f *Framebuffer) Pixel(x, y int) bool {
	index, mask := pixelIndex(x, y)
	return f.buf[index]&mask != 0
}

// Clear turns off every pixel and raises the draw flag.
func (f *Framebuffer) Clear() {
	f.buf = [Width * Height / 8]byte{}
	f.dirty = true
}

// Draw XORs sprite onto the screen with its top left corner at x,y, one byte
// per row. Pixels falling off the right or bottom edge wrap around to the
// opposite edge.
// Returns true if any pixel was switched from on to off (collision).
func (f *Framebuffer) Draw(x, y uint8, sprite []byte) (collision bool) {
	for row, line := range sprite {
		for bit := 0; bit < 8; bit++ {
			if line&(0x80>>uint(bit)) == 0 {
				continue
			}
			index, mask := pixelIndex(int(x)+bit, int(y)+row)
			if f.buf[index]&mask != 0 {
				collision = true
			}
			f.buf[index] ^= mask
		}
	}
	f.dirty = true
	return
}

// Bytes returns the packed screen buffer, Width/8 bytes per row.
// The returned slice aliases the framebuffer and must not be modified.
func (f *Framebuffer) Bytes() []byte { return f.buf[:] }

// DrawReady reports whether the screen changed since the last Ack.
func (f *Framebuffer) DrawReady() bool { return f.dirty }

// Ack clears the draw flag after the host consumed a frame.
func (f *Framebuffer) Ack() { f.dirty = false }

// String renders the screen as text, one line per row.
func (f *Framebuffer) String() string {
	b := make([]byte, 0, (Width+1)*Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if f.Pixel(x, y) {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}
