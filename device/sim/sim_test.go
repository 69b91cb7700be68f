package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepper(t *testing.T) {
	m := NewModule(4096, 100, 0)
	start := m.Clock.Now()

	m.Stepper.MoveTo(8)
	for m.Stepper.Run() {
	}
	assert.Equal(t, int64(8), m.Stepper.CurrentPosition())
	assert.Equal(t, int64(108), m.Stepper.Physical())
	assert.Equal(t, 10*time.Millisecond, m.Clock.Now().Sub(start))

	m.Stepper.SetCurrentPosition(0)
	assert.Equal(t, int64(0), m.Stepper.CurrentPosition())
	assert.Equal(t, int64(0), m.Stepper.DistanceToGo())
	assert.Equal(t, int64(108), m.Stepper.Physical())

	m.Stepper.MoveTo(-3)
	m.Stepper.Run()
	m.Stepper.Stop()
	assert.Equal(t, int64(0), m.Stepper.DistanceToGo())
	assert.Equal(t, int64(-1), m.Stepper.CurrentPosition())
}

func TestHall(t *testing.T) {
	m := NewModule(4096, 0, 4090)

	tests := []struct {
		physical  int64
		triggered bool
	}{
		{4089, false},
		{4090, true},
		{4095, true},
		{4096, true},
		{4096 + 33, true},
		{4096 + 34, false},
		{-6, true},
		{-7, false},
	}

	for _, tt := range tests {
		m.Stepper.physical = tt.physical
		assert.Equal(t, tt.triggered, m.Hall.Triggered(), "physical=%d", tt.physical)
	}
}
