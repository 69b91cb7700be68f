//go:build tinygo

package hardware

import (
	"errors"
	"machine"
	"time"

	"tinygo.org/x/drivers/easystepper"
)

const defaultStepDelay = 1000 * time.Microsecond

type StepMode int

const (
	StepModeFull StepMode = iota
	StepModeHalf
)

// CoilsConfig configures a 4-wire unipolar stepper such as the 28BYJ-48 behind a ULN2003
type CoilsConfig struct {
	Pins      [4]machine.Pin
	StepMode  StepMode
	StepDelay time.Duration
}

// Coils drives the four coil pins directly. The phase is kept between moves so single-step moves do not
// jitter the rotor.
type Coils struct {
	pins        [4]machine.Pin
	stepMode    StepMode
	currentStep int
	stepDelay   time.Duration
}

func NewCoils(cfg CoilsConfig) (*Coils, error) {
	if cfg.StepMode != StepModeFull && cfg.StepMode != StepModeHalf {
		return nil, errors.New("invalid StepMode")
	}

	if cfg.StepDelay == 0 {
		cfg.StepDelay = defaultStepDelay
	}

	c := &Coils{
		pins:      cfg.Pins,
		stepMode:  cfg.StepMode,
		stepDelay: cfg.StepDelay,
	}
	for _, p := range c.pins {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	return c, nil
}

var (
	halfStepSequence = [8][4]bool{
		{true, false, false, false},
		{true, true, false, false},
		{false, true, false, false},
		{false, true, true, false},
		{false, false, true, false},
		{false, false, true, true},
		{false, false, false, true},
		{true, false, false, true},
	}

	fullStepSequence = [4][4]bool{
		{true, false, false, false},
		{false, true, false, false},
		{false, false, true, false},
		{false, false, false, true},
	}
)

func (c *Coils) sequenceLen() int {
	if c.stepMode == StepModeHalf {
		return len(halfStepSequence)
	}
	return len(fullStepSequence)
}

func (c *Coils) applyStep() {
	var sequence [4]bool
	switch c.stepMode {
	case StepModeHalf:
		sequence = halfStepSequence[c.currentStep]
	default:
		sequence = fullStepSequence[c.currentStep]
	}

	for i := range 4 {
		c.pins[i].Set(sequence[i])
	}
}

func (c *Coils) stepForward() {
	c.currentStep = (c.currentStep + 1) % c.sequenceLen()
	c.applyStep()
	time.Sleep(c.stepDelay)
}

func (c *Coils) stepBackward() {
	c.currentStep = (c.currentStep - 1 + c.sequenceLen()) % c.sequenceLen()
	c.applyStep()
	time.Sleep(c.stepDelay)
}

func (c *Coils) Move(steps int32) {
	if steps > 0 {
		for range steps {
			c.stepForward()
		}
	} else {
		for range -steps {
			c.stepBackward()
		}
	}
}

// NewEasyStepper creates the drivers package stepper for boards where its timing is sufficient. rpm sets the
// fixed delay of each step.
func NewEasyStepper(pins [4]machine.Pin, stepsPerRevolution, rpm uint) (*easystepper.Device, error) {
	stepper, err := easystepper.New(easystepper.DeviceConfig{
		Pin1:      pins[0],
		Pin2:      pins[1],
		Pin3:      pins[2],
		Pin4:      pins[3],
		StepCount: stepsPerRevolution,
		RPM:       rpm,
		Mode:      easystepper.ModeEight,
	})
	if err != nil {
		return nil, errors.New("error creating stepper: " + err.Error())
	}
	stepper.Configure()
	return stepper, nil
}
