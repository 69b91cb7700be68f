package hardware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/calvinmclean/splitflap/device/sim"
)

type fakeStepper struct {
	moves []int32
}

func (f *fakeStepper) Move(steps int32) {
	f.moves = append(f.moves, steps)
}

func (f *fakeStepper) total() int64 {
	var total int64
	for _, m := range f.moves {
		total += int64(m)
	}
	return total
}

var start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func runMotor(m *Motor) int {
	ticks := 0
	for m.DistanceToGo() != 0 {
		m.Run()
		ticks++
	}
	return ticks
}

func TestMotorConstantSpeed(t *testing.T) {
	tests := []struct {
		name          string
		target        int64
		baseInterval  time.Duration
		expectedSleep time.Duration
	}{
		{"Forward", 10, 0, 10 * time.Millisecond},
		{"Backward", -10, 0, 10 * time.Millisecond},
		{"StepperTakesPartOfInterval", 10, 250 * time.Microsecond, 7500 * time.Microsecond},
		{"StepperSlowerThanMaxSpeed", 10, 2 * time.Millisecond, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stepper := &fakeStepper{}
			clock := sim.NewClock(start)
			m := NewMotor(stepper, clock, tt.baseInterval)
			m.SetMaxSpeed(1000)

			m.MoveTo(tt.target)
			assert.Equal(t, tt.target, m.DistanceToGo())

			assert.Equal(t, 10, runMotor(m))
			assert.Equal(t, tt.target, m.CurrentPosition())
			assert.Equal(t, tt.target, stepper.total())
			assert.Len(t, stepper.moves, 10)
			assert.Equal(t, tt.expectedSleep, clock.Now().Sub(start))
			assert.False(t, m.Run())
		})
	}
}

func TestMotorAcceleration(t *testing.T) {
	stepper := &fakeStepper{}
	clock := sim.NewClock(start)
	m := NewMotor(stepper, clock, 0)
	m.SetMaxSpeed(100000)
	m.SetAcceleration(2)

	// speed is sqrt(2*a*n) where n counts from the nearer end of the move
	m.MoveTo(2)
	runMotor(m)
	assert.Equal(t, time.Second, clock.Now().Sub(start))
}

func TestMotorRampCappedByMaxSpeed(t *testing.T) {
	stepper := &fakeStepper{}
	clock := sim.NewClock(start)
	m := NewMotor(stepper, clock, 0)
	m.SetMaxSpeed(10)
	m.SetAcceleration(1e9)

	m.MoveTo(5)
	runMotor(m)
	assert.Equal(t, 500*time.Millisecond, clock.Now().Sub(start))
}

func TestMotorStopAndSetCurrentPosition(t *testing.T) {
	stepper := &fakeStepper{}
	m := NewMotor(stepper, sim.NewClock(start), 0)
	m.SetMaxSpeed(1000)

	m.MoveTo(100)
	assert.True(t, m.Run())
	m.Stop()
	assert.Equal(t, int64(0), m.DistanceToGo())
	assert.Equal(t, int64(1), m.CurrentPosition())

	m.SetCurrentPosition(0)
	assert.Equal(t, int64(0), m.CurrentPosition())
	assert.Equal(t, int64(0), m.DistanceToGo())
	assert.False(t, m.Run())
	assert.Len(t, stepper.moves, 1)
}

func TestMotorIgnoresInvalidSpeed(t *testing.T) {
	m := NewMotor(&fakeStepper{}, sim.NewClock(start), 0)
	m.SetMaxSpeed(200)
	m.SetMaxSpeed(0)
	m.SetAcceleration(-1)
	assert.Equal(t, float32(200), m.maxSpeed)
	assert.Equal(t, float32(0), m.acceleration)
}
