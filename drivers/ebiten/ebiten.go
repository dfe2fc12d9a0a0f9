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

// Package ebiten implements a windowed driver for hachi on top of ebiten,
// with sound through oto.
//
// The driver is registered as "ebiten". Create a Runner with it and pass the
// runner to Run, which opens the window and drives the emulator from ebiten's
// update loop until the window is closed or the program fails.
//
// Besides the keypad, the window handles a few host keys:
//
//	Escape  quit
//	F1      reset the machine
//	F5      copy the screen to the clipboard as text
//
// Key mappings can be modified through SetDriverData("key_map", myMap), where
// myMap is a map[ebiten.Key]uint8 with CHIP-8 key numbers (0x0-0xF) as values.
package ebiten

import (
	"fmt"
	"image/color"
	"reflect"
	"sync"
	"time"

	"github.com/Francesco149/go-hachi/hachi"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrogolib/log"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

// Name is the name the driver is registered as.
const Name = "ebiten"

const (
	defaultScale = 10
	statusHeight = 18
)

var (
	colorOn     = color.RGBA{0xE0, 0xE0, 0xE0, 0xFF}
	colorOff    = color.RGBA{0x10, 0x10, 0x10, 0xFF}
	colorStatus = color.RGBA{190, 190, 190, 255}
	colorWait   = color.RGBA{0, 220, 90, 255}
)

// An EbitenDriver renders the screen in a window, polls the keyboard and
// beeps through the default audio device.
type EbitenDriver struct {
	logger  *log.Logger
	keyMap  map[ebiten.Key]uint8
	scale   int
	pixels  []byte
	beeper  *beeper
	beepLen time.Duration
	beeps   uint64

	clipboardOnce sync.Once
	clipboardOK   bool
}

// DefaultKeyMap maps the usual 4x4 block of a qwerty keyboard to the
// COSMAC VIP keypad layout, plus the arrows for 8, 4, 6 and 2.
func DefaultKeyMap() map[ebiten.Key]uint8 {
	return map[ebiten.Key]uint8{
		ebiten.KeyDigit1: 0x1, ebiten.KeyDigit2: 0x2,
		ebiten.KeyDigit3: 0x3, ebiten.KeyDigit4: 0xC,
		ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
		ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
		ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,

		ebiten.KeyArrowUp:    0x8,
		ebiten.KeyArrowLeft:  0x4,
		ebiten.KeyArrowRight: 0x6,
		ebiten.KeyArrowDown:  0x2,
	}
}

// keypadState builds the keypad from the host keys reported as pressed.
// A CHIP-8 key is down if any host key mapped to it is.
func keypadState(m map[ebiten.Key]uint8, pressed func(ebiten.Key) bool) (
	k hachi.Keypad) {

	for key, num := range m {
		if pressed(key) {
			k.Press(num)
		}
	}
	return
}

// framebufferToRGBA converts the screen to RGBA pixels, 4 bytes per pixel.
func framebufferToRGBA(f *hachi.Framebuffer, dst []byte) {
	for y := 0; y < hachi.Height; y++ {
		for x := 0; x < hachi.Width; x++ {
			c := colorOff
			if f.Pixel(x, y) {
				c = colorOn
			}
			i := (y*hachi.Width + x) * 4
			dst[i], dst[i+1], dst[i+2], dst[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

func (d *EbitenDriver) OnInit(c *hachi.Chip8) {
	s := c.Settings()
	d.logger = s.Logger
	if d.keyMap == nil {
		d.keyMap = DefaultKeyMap()
	}
	if d.scale == 0 {
		d.scale = defaultScale
	}
	d.pixels = make([]byte, hachi.Width*hachi.Height*4)
	framebufferToRGBA(&c.Screen, d.pixels)

	// each Beep call covers one timer tick
	d.beepLen = time.Second / time.Duration(s.TimerRate)
	if d.beeper == nil {
		b, err := newBeeper()
		if err != nil {
			d.warn("Audio unavailable, running without sound", err)
		}
		d.beeper = b
	}
}

func (d *EbitenDriver) warn(msg string, err error) {
	if d.logger != nil {
		d.logger.Warn(msg, log.Err(err))
	}
}

func (d *EbitenDriver) OnUpdate(c *hachi.Chip8) {
	c.Keys = keypadState(d.keyMap, ebiten.IsKeyPressed)
}

func (d *EbitenDriver) UpdateScreen(c *hachi.Chip8) {
	framebufferToRGBA(&c.Screen, d.pixels)
}

func (d *EbitenDriver) Beep() {
	d.beeps++
	if d.beeper != nil {
		d.beeper.Beep(d.beepLen)
	}
}

// copyScreen puts the text rendering of the screen on the system clipboard.
func (d *EbitenDriver) copyScreen(c *hachi.Chip8) {
	d.clipboardOnce.Do(func() {
		err := clipboard.Init()
		if err != nil {
			d.warn("Clipboard unavailable", err)
		}
		d.clipboardOK = err == nil
	})
	if !d.clipboardOK {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(c.Screen.String()))
	if d.logger != nil {
		d.logger.Info("Screen copied to clipboard")
	}
}

func (d *EbitenDriver) GetData(key string) interface{} {
	switch key {
	case "key_map":
		return d.keyMap
	case "scale":
		return d.scale
	case "beeps":
		return d.beeps
	}
	return nil
}

func (d *EbitenDriver) SetData(key string, value interface{}) error {
	switch key {
	case "key_map":
		newMap, ok := value.(map[ebiten.Key]uint8)
		if !ok {
			return fmt.Errorf("Invalid type %s for key_map.",
				reflect.TypeOf(value))
		}
		d.keyMap = newMap
		return nil
	case "scale":
		scale, ok := value.(int)
		if !ok || scale < 1 {
			return fmt.Errorf("Invalid scale %v.", value)
		}
		d.scale = scale
		return nil
	}
	return fmt.Errorf("Unknown data key '%s'.", key)
}

// -----------------------------------------------------------------------------

// A Game runs a hachi.Runner inside ebiten's game loop.
type Game struct {
	r      *hachi.Runner
	d      *EbitenDriver
	screen *ebiten.Image
}

// NewGame wraps a runner that uses the ebiten driver.
func NewGame(r *hachi.Runner) (*Game, error) {
	d, ok := hachi.LookupDriver(r.Driver()).(*EbitenDriver)
	if !ok {
		return nil, fmt.Errorf("Runner uses driver %s, not %s.", r.Driver(),
			Name)
	}
	return &Game{r: r, d: d}, nil
}

func (g *Game) Update() error {
	c := g.r.Machine()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		c.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.d.copyScreen(c)
	}

	return g.r.Advance(time.Second / time.Duration(ebiten.TPS()))
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(hachi.Width, hachi.Height)
	}
	g.screen.WritePixels(g.d.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.d.scale), float64(g.d.scale))
	screen.DrawImage(g.screen, op)

	c := g.r.Machine()
	baseline := hachi.Height*g.d.scale + statusHeight - 5
	status := fmt.Sprintf("PC %04X  I %04X  SP %d  DT %02X  ST %02X",
		c.PC, c.I, c.SP, c.Timers.Delay, c.Timers.Sound)
	text.Draw(screen, status, basicfont.Face7x13, 4, baseline, colorStatus)
	if c.Waiting() {
		x := 4 + text.BoundString(basicfont.Face7x13, status).Dx() + 12
		text.Draw(screen, "KEY?", basicfont.Face7x13, x, baseline, colorWait)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return hachi.Width * g.d.scale, hachi.Height*g.d.scale + statusHeight
}

// Run opens a window and runs r until the window is closed, Escape is
// pressed or the program fails. Must be called from the main goroutine.
func Run(r *hachi.Runner, title string) error {
	g, err := NewGame(r)
	if err != nil {
		return err
	}
	if g.d.beeper != nil {
		defer g.d.beeper.Close()
	}

	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	return ebiten.RunGame(g)
}

// -----------------------------------------------------------------------------

func init() {
	err := hachi.RegisterDriver(Name, &EbitenDriver{})
	if err != nil {
		panic(err)
	}
}
