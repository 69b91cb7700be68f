// Package hardware adapts the pins and peripherals of a flap module board to the device package. Only the
// motion profile builds outside of TinyGo.
package hardware

import (
	"math"
	"time"

	"github.com/calvinmclean/splitflap/device"
)

// Stepper moves the rotor by a signed number of steps and blocks while doing it
type Stepper interface {
	Move(int32)
}

// Motor implements device.Motion on top of a Stepper with a trapezoid speed profile. baseInterval is the time
// the Stepper itself spends on one step; the remainder of each step interval is slept on the clock.
type Motor struct {
	stepper      Stepper
	clock        device.Clock
	baseInterval time.Duration

	position int64
	target   int64

	maxSpeed     float32
	acceleration float32

	// stepsSinceStart counts steps since the current move began, for the acceleration ramp
	stepsSinceStart int64
}

var _ device.Motion = &Motor{}

func NewMotor(stepper Stepper, clk device.Clock, baseInterval time.Duration) *Motor {
	return &Motor{
		stepper:      stepper,
		clock:        clk,
		baseInterval: baseInterval,
		maxSpeed:     1,
	}
}

func (m *Motor) MoveTo(absolute int64) {
	if absolute != m.target {
		m.stepsSinceStart = 0
	}
	m.target = absolute
}

// Run takes at most one step and reports whether the motor is still moving
func (m *Motor) Run() bool {
	remaining := m.target - m.position
	if remaining == 0 {
		return false
	}

	if wait := m.interval(abs(remaining)) - m.baseInterval; wait > 0 {
		m.clock.Sleep(wait)
	}

	dir := int64(1)
	if remaining < 0 {
		dir = -1
	}
	m.stepper.Move(int32(dir))
	m.position += dir
	m.stepsSinceStart++

	return m.position != m.target
}

// interval is the time one step takes at the current point of the ramp
func (m *Motor) interval(remaining int64) time.Duration {
	speed := float64(m.maxSpeed)
	if m.acceleration > 0 {
		n := min(m.stepsSinceStart+1, remaining)
		speed = min(speed, math.Sqrt(2*float64(m.acceleration)*float64(n)))
	}
	return time.Duration(float64(time.Second) / speed)
}

func (m *Motor) DistanceToGo() int64 {
	return m.target - m.position
}

func (m *Motor) CurrentPosition() int64 {
	return m.position
}

func (m *Motor) SetCurrentPosition(position int64) {
	m.position = position
	m.target = position
	m.stepsSinceStart = 0
}

func (m *Motor) Stop() {
	m.target = m.position
}

func (m *Motor) SetMaxSpeed(stepsPerSecond float32) {
	if stepsPerSecond > 0 {
		m.maxSpeed = stepsPerSecond
	}
}

func (m *Motor) SetAcceleration(stepsPerSecondSquared float32) {
	if stepsPerSecondSquared >= 0 {
		m.acceleration = stepsPerSecondSquared
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
