// Package sim provides simulated hardware for a flap module: a stepper that advances one step per tick on a
// virtual clock and a hall sensor fixed at a physical angle of the wheel. Nothing in this package sleeps.
package sim

import (
	"sync"
	"time"
)

// Clock is a virtual clock. Sleep advances it immediately.
type Clock struct {
	mtx sync.Mutex
	now time.Time
}

// NewClock creates a Clock starting at start
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now
}

func (c *Clock) Sleep(d time.Duration) {
	c.Add(d)
}

// Add advances the clock by d
func (c *Clock) Add(d time.Duration) {
	c.mtx.Lock()
	c.now = c.now.Add(d)
	c.mtx.Unlock()
}

// MagnetWidth is the default number of steps the magnet keeps the sensor asserted
const MagnetWidth = 40

// Module bundles the simulated parts of one flap module
type Module struct {
	Clock   *Clock
	Stepper *Stepper
	Hall    *Hall
}

// NewModule creates a module whose wheel starts at physical step start with the magnet at physical step
// magnet of a revolution of modulus steps
func NewModule(modulus, start, magnet int64) *Module {
	clock := NewClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	stepper := NewStepper(clock, start)
	return &Module{
		Clock:   clock,
		Stepper: stepper,
		Hall:    NewHall(stepper, modulus, magnet, MagnetWidth),
	}
}
