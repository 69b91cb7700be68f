package device

import (
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/calvinmclean/splitflap"
)

// Device drives one flap module. It owns the motor state and is the only user of the Motion driver and
// the Sensor. Every motion-bearing method blocks until the move completes. A Device is not safe for
// concurrent use: busy guards against re-entrant calls made while a move is in flight.
type Device struct {
	motion Motion
	sensor Sensor
	clock  Clock
	cfg    Config
	out    io.Writer

	zeroOffsetDegrees int64
	stepOffset        int64

	// magnetPassCount counts debounced magnet passes seen while going to a flap. Homing and Reset clear it
	magnetPassCount uint32
	lastMagnetEdge  time.Time

	busy    bool
	verbose bool
}

// State is a read-only snapshot of the motor state
type State struct {
	Position          int64
	Degrees           float64
	MagnetPassCount   uint32
	ZeroOffsetDegrees int64
	StepOffset        int64
	Busy              bool
}

// New creates a Device with the provided collaborators. A nil clock uses the wall clock.
func New(motion Motion, sensor Sensor, clk Clock, cfg Config) (*Device, error) {
	if motion == nil {
		return nil, errors.New("motion driver is required")
	}
	if sensor == nil {
		return nil, errors.New("hall sensor is required")
	}
	if cfg.StepsPerRevolution <= 0 {
		return nil, errors.New("invalid StepsPerRevolution: " + strconv.FormatInt(cfg.StepsPerRevolution, 10))
	}
	if cfg.StepOffset <= -cfg.StepsPerRevolution || cfg.StepOffset >= cfg.StepsPerRevolution {
		return nil, ErrOffsetOutOfRange
	}
	if clk == nil {
		clk = clock.New()
	}

	motion.SetMaxSpeed(cfg.MaxSpeed)
	motion.SetAcceleration(cfg.Acceleration)

	return &Device{
		motion:            motion,
		sensor:            sensor,
		clock:             clk,
		cfg:               cfg,
		out:               io.Discard,
		zeroOffsetDegrees: cfg.ZeroOffsetDegrees,
		stepOffset:        cfg.StepOffset,
	}, nil
}

// SetOutput sets where progress messages are written
func (d *Device) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	d.out = w
}

// Verbose enables extra progress messages
func (d *Device) Verbose() {
	d.verbose = true
	d.println("Set Verbose Mode")
}

// IsBusy is true while a commanded move is in flight
func (d *Device) IsBusy() bool {
	return d.busy
}

// Position returns the absolute step position
func (d *Device) Position() int64 {
	return d.motion.CurrentPosition()
}

// Degrees returns the absolute position as an angle
func (d *Device) Degrees() float64 {
	return splitflap.StepsToDegrees(d.Position(), d.cfg.StepsPerRevolution)
}

// MagnetPassCount returns the number of magnet passes since the last homing
func (d *Device) MagnetPassCount() uint32 {
	return d.magnetPassCount
}

func (d *Device) ZeroOffsetDegrees() int64 {
	return d.zeroOffsetDegrees
}

func (d *Device) StepOffset() int64 {
	return d.stepOffset
}

// State returns a snapshot of the motor state
func (d *Device) State() State {
	return State{
		Position:          d.Position(),
		Degrees:           d.Degrees(),
		MagnetPassCount:   d.magnetPassCount,
		ZeroOffsetDegrees: d.zeroOffsetDegrees,
		StepOffset:        d.stepOffset,
		Busy:              d.busy,
	}
}

// SetZeroOffsetDegrees changes the angle applied after the magnet is found and returns the previous value.
// It is rejected while the motor is busy.
func (d *Device) SetZeroOffsetDegrees(offset int64) (int64, error) {
	if d.busy {
		return d.zeroOffsetDegrees, ErrBusy
	}
	prev := d.zeroOffsetDegrees
	d.zeroOffsetDegrees = offset
	return prev, nil
}

// SetStepOffset changes the global trim added to every target and returns the previous value.
// It is rejected while the motor is busy or when it is a full revolution or more.
func (d *Device) SetStepOffset(offset int64) (int64, error) {
	if d.busy {
		return d.stepOffset, ErrBusy
	}
	if offset <= -d.cfg.StepsPerRevolution || offset >= d.cfg.StepsPerRevolution {
		return d.stepOffset, ErrOffsetOutOfRange
	}
	prev := d.stepOffset
	d.stepOffset = offset
	return prev, nil
}

// Reset restores the in-memory offsets and counters to their configured defaults. The absolute position is
// not touched and nothing is persisted.
func (d *Device) Reset() error {
	if d.busy {
		return ErrBusy
	}
	d.zeroOffsetDegrees = d.cfg.ZeroOffsetDegrees
	d.stepOffset = d.cfg.StepOffset
	d.magnetPassCount = 0
	d.lastMagnetEdge = time.Time{}
	return nil
}

// begin marks the start of a motion-bearing operation. The returned func must be deferred.
func (d *Device) begin() (func(), error) {
	if d.busy {
		return nil, ErrBusy
	}
	d.busy = true
	return func() { d.busy = false }, nil
}

// runToTarget polls the driver until it arrives. sample is called after every tick.
func (d *Device) runToTarget(sample func()) {
	for d.motion.DistanceToGo() != 0 {
		d.motion.Run()
		if sample != nil {
			sample()
		}
	}
}

func (d *Device) println(parts ...string) {
	for _, p := range parts {
		_, _ = io.WriteString(d.out, p)
	}
	_, _ = io.WriteString(d.out, "\n")
}

func (d *Device) debug(parts ...string) {
	if d.verbose {
		d.println(parts...)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// flapLabel formats a flap for progress messages
func flapLabel(i int) string {
	return "index " + strconv.Itoa(i) + " (Character: '" + string(splitflap.CharacterAt(i)) + "')"
}
