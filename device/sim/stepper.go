package sim

import (
	"time"
)

const defaultMaxSpeed = 800

// Stepper simulates a motion driver at constant speed. The physical step count is never redefined, so the
// wheel angle stays known when the logical position is reset by homing.
type Stepper struct {
	clock *Clock

	physical int64
	// offset maps the physical count to the logical absolute position
	offset int64
	target int64

	maxSpeed     float32
	acceleration float32

	// Steps counts every step taken, in either direction
	Steps int64
	// MoveCommands counts calls to MoveTo
	MoveCommands int
}

// NewStepper creates a Stepper whose wheel starts at the physical step start
func NewStepper(clock *Clock, start int64) *Stepper {
	return &Stepper{
		clock:    clock,
		physical: start,
		offset:   -start,
		maxSpeed: defaultMaxSpeed,
	}
}

func (s *Stepper) MoveTo(absolute int64) {
	s.MoveCommands++
	s.target = absolute
}

// Run takes one step toward the target and advances the clock by one step interval
func (s *Stepper) Run() bool {
	switch {
	case s.DistanceToGo() > 0:
		s.physical++
	case s.DistanceToGo() < 0:
		s.physical--
	default:
		return false
	}
	s.Steps++
	s.clock.Add(s.stepInterval())
	return true
}

func (s *Stepper) DistanceToGo() int64 {
	return s.target - s.CurrentPosition()
}

func (s *Stepper) CurrentPosition() int64 {
	return s.physical + s.offset
}

func (s *Stepper) SetCurrentPosition(position int64) {
	s.offset = position - s.physical
	s.target = position
}

func (s *Stepper) Stop() {
	s.target = s.CurrentPosition()
}

func (s *Stepper) SetMaxSpeed(stepsPerSecond float32) {
	if stepsPerSecond > 0 {
		s.maxSpeed = stepsPerSecond
	}
}

// SetAcceleration is recorded but ignored: the simulation runs at constant speed
func (s *Stepper) SetAcceleration(stepsPerSecondSquared float32) {
	s.acceleration = stepsPerSecondSquared
}

// MaxSpeed returns the current speed setting
func (s *Stepper) MaxSpeed() float32 {
	return s.maxSpeed
}

// Physical returns the physical step count of the wheel
func (s *Stepper) Physical() int64 {
	return s.physical
}

func (s *Stepper) stepInterval() time.Duration {
	return time.Duration(float64(time.Second) / float64(s.maxSpeed))
}
