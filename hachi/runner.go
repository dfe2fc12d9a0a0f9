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
	"fmt"
	"time"
)

// MaxLag caps the time a single Advance call should catch up on, so that a
// suspended process doesn't burst thousands of cycles when it wakes up.
// Run applies it; hosts that call Advance themselves should too.
const MaxLag = 100 * time.Millisecond

// A Runner drives a Chip8 instance: it executes instructions at CycleRate,
// ticks the timers at TimerRate and forwards screen updates, beeps and input
// polling to a Driver. The two rates are independent from each other.
type Runner struct {
	c      *Chip8
	drv    Driver
	driver string

	cycle, timer time.Duration
	// virtual clock and the times at which the next cycle and timer tick
	// are due
	clock, nextCycle, nextTick time.Duration
	cycles, ticks              uint64
}

// NewRunner attaches c to the driver registered as driver and calls the
// driver's OnInit.
func NewRunner(c *Chip8, driver string) (r *Runner, err error) {
	drv := drivers[driver]
	if drv == nil {
		err = fmt.Errorf("Driver %s not found.", driver)
		return
	}

	s := c.Settings()
	r = &Runner{
		c:      c,
		drv:    drv,
		driver: driver,
		cycle:  time.Second / time.Duration(s.CycleRate),
		timer:  time.Second / time.Duration(s.TimerRate),
	}
	r.nextCycle = r.cycle
	r.nextTick = r.timer

	drv.OnInit(c)
	return
}

// Machine returns the emulator instance driven by the runner.
func (r *Runner) Machine() *Chip8 { return r.c }

// Driver returns the name of the driver in use by the runner.
func (r *Runner) Driver() string { return r.driver }

// DriverData gets custom data from the driver.
// Returns nil if the data key is not found.
func (r *Runner) DriverData(key string) interface{} { return r.drv.GetData(key) }

// SetDriverData sets custom data on the driver.
func (r *Runner) SetDriverData(key string, value interface{}) error {
	return r.drv.SetData(key, value)
}

// Cycles returns the amount of instructions executed so far.
func (r *Runner) Cycles() uint64 { return r.cycles }

// Ticks returns the amount of timer ticks so far.
func (r *Runner) Ticks() uint64 { return r.ticks }

// Advance moves the virtual clock forward by elapsed, running every CPU
// cycle and timer tick that falls due in that window, in chronological
// order. Leftover time carries over to the next call.
// Returns the first error returned by Step; the runner must not be advanced
// any further after that.
func (r *Runner) Advance(elapsed time.Duration) error {
	r.drv.OnUpdate(r.c)

	target := r.clock + elapsed
	for {
		if r.nextTick <= r.nextCycle {
			if r.nextTick > target {
				break
			}
			if r.c.TickTimers() {
				r.drv.Beep()
			}
			r.ticks++
			r.nextTick += r.timer
			continue
		}

		if r.nextCycle > target {
			break
		}
		if err := r.c.Step(); err != nil {
			return err
		}
		r.cycles++
		r.nextCycle += r.cycle

		if r.c.Screen.DrawReady() {
			r.drv.UpdateScreen(r.c)
			r.c.Screen.Ack()
		}
	}

	r.clock = target
	return nil
}

// Run advances the emulator in real time, once per timer period, until ctx
// is done or an instruction fails. Blocks the calling goroutine.
// Returns ctx.Err() on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.timer)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if elapsed > MaxLag {
				elapsed = MaxLag
			}
			if err := r.Advance(elapsed); err != nil {
				return err
			}
		}
	}
}
