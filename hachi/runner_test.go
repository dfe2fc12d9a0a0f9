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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

type recordingDriver struct {
	inits, updates, screens, beeps int
	data                           map[string]interface{}
	// keys held down by the host, applied on every OnUpdate
	press []uint8
}

func (d *recordingDriver) OnInit(c *Chip8) { d.inits++ }

func (d *recordingDriver) OnUpdate(c *Chip8) {
	for _, k := range d.press {
		c.Keys.Press(k)
	}
	d.updates++
}

func (d *recordingDriver) UpdateScreen(c *Chip8) { d.screens++ }
func (d *recordingDriver) Beep()                 { d.beeps++ }

func (d *recordingDriver) GetData(key string) interface{} { return d.data[key] }

func (d *recordingDriver) SetData(key string, value interface{}) error {
	if d.data == nil {
		d.data = map[string]interface{}{}
	}
	d.data[key] = value
	return nil
}

func newTestRunner(t *testing.T, program []byte) (*Runner, *recordingDriver) {
	t.Helper()
	drv := &recordingDriver{}
	RegisterDriver(t.Name(), drv)
	t.Cleanup(func() { UnregisterDriver(t.Name()) })

	c := newTestChip8(t, nil, program)
	r, err := NewRunner(c, t.Name())
	assert.NoError(t, err)
	return r, drv
}

func TestNewRunnerUnknownDriver(t *testing.T) {
	c := newTestChip8(t, nil, nil)
	_, err := NewRunner(c, "no such driver")
	assert.Error(t, err, "Driver no such driver not found.")
}

func TestRunnerRates(t *testing.T) {
	// JP 200
	r, drv := newTestRunner(t, ops(0x1200))
	assert.Equal(t, 1, drv.inits)

	assert.NoError(t, r.Advance(time.Second))
	assert.Equal(t, uint64(600), r.Cycles())
	assert.Equal(t, uint64(60), r.Ticks())
	assert.Equal(t, 1, drv.updates)
	assert.Equal(t, 0, drv.screens)
	assert.Equal(t, 0, drv.beeps)

	// leftover time carries over between calls
	for i := 0; i < 1000; i++ {
		assert.NoError(t, r.Advance(time.Millisecond))
	}
	assert.Equal(t, uint64(1200), r.Cycles())
	assert.Equal(t, uint64(120), r.Ticks())
}

func TestRunnerBeepsWhileSoundTimerRuns(t *testing.T) {
	// LD V0,05  LD ST,V0  JP 204
	r, drv := newTestRunner(t, ops(0x6005, 0xF018, 0x1204))

	assert.NoError(t, r.Advance(time.Second))
	assert.Equal(t, 5, drv.beeps)
	assert.Equal(t, uint8(0), r.Machine().Timers.Sound)
}

func TestRunnerDelayTimerCountsAtTimerRate(t *testing.T) {
	// LD V0,3C  LD DT,V0  JP 204
	r, _ := newTestRunner(t, ops(0x603C, 0xF015, 0x1204))

	assert.NoError(t, r.Advance(500*time.Millisecond))
	assert.Equal(t, uint8(30), r.Machine().Timers.Delay)
}

func TestRunnerForwardsScreenUpdates(t *testing.T) {
	// CLS  CLS  JP 204
	r, drv := newTestRunner(t, ops(0x00E0, 0x00E0, 0x1204))

	assert.NoError(t, r.Advance(100*time.Millisecond))
	assert.Equal(t, 2, drv.screens)
	assert.False(t, r.Machine().Screen.DrawReady())
}

func TestRunnerKeyInput(t *testing.T) {
	// LD V1,K  JP 202
	r, drv := newTestRunner(t, ops(0xF10A, 0x1202))

	assert.NoError(t, r.Advance(100*time.Millisecond))
	assert.True(t, r.Machine().Waiting())

	drv.press = []uint8{0xB}
	assert.NoError(t, r.Advance(100*time.Millisecond))
	assert.Equal(t, uint8(0xB), r.Machine().V[1])
	assert.False(t, r.Machine().Waiting())
}

func TestRunnerStopsOnError(t *testing.T) {
	r, _ := newTestRunner(t, ops(0x6001, 0x0000))

	err := r.Advance(time.Second)
	var unknown *UnknownInstructionErr
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, uint16(0x202), unknown.Address)
	assert.Equal(t, uint64(1), r.Cycles())
}

func TestRunnerDriverData(t *testing.T) {
	r, _ := newTestRunner(t, nil)
	assert.Equal(t, t.Name(), r.Driver())
	assert.NoError(t, r.SetDriverData("scale", 4))
	assert.Equal(t, 4, r.DriverData("scale"))
	assert.True(t, r.DriverData("missing") == nil)
}

func TestRunnerRun(t *testing.T) {
	r, _ := newTestRunner(t, ops(0x1200))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := r.Run(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, r.Cycles() > 0)
}

func TestRunnerRunFails(t *testing.T) {
	r, _ := newTestRunner(t, ops(0x0000))
	err := r.Run(context.Background())
	var unknown *UnknownInstructionErr
	assert.True(t, errors.As(err, &unknown))
}
