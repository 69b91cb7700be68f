package device

import (
	"time"

	"github.com/calvinmclean/splitflap"
)

// Motion is the stepper motion driver. It tracks an absolute step counter and advances at most one
// step toward its target on every call to Run.
type Motion interface {
	MoveTo(absolute int64)
	Run() bool
	DistanceToGo() int64
	CurrentPosition() int64
	SetCurrentPosition(position int64)
	Stop()
	SetMaxSpeed(stepsPerSecond float32)
	SetAcceleration(stepsPerSecondSquared float32)
}

// Sensor is the hall sensor. Triggered is true while the magnet is under the sensor
// (the pin reads LOW on the reference hardware).
type Sensor interface {
	Triggered() bool
}

// Clock is the subset of github.com/benbjohnson/clock.Clock used for debouncing
type Clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

// Config has the tunables for motion, homing and calibration
type Config struct {
	// StepsPerRevolution is the modulus used for all target arithmetic
	StepsPerRevolution int64

	MaxSpeed     float32
	Acceleration float32

	// CalibrationMaxSpeed and CalibrationAcceleration are used while measuring a revolution
	CalibrationMaxSpeed     float32
	CalibrationAcceleration float32

	// HomingMargin is added to one revolution to bound the magnet search
	HomingMargin int64

	// SettleDelay separates the first LOW reading from the confirming one while homing
	SettleDelay time.Duration

	// PassDebounce is the minimum time between two counted magnet passes
	PassDebounce time.Duration

	// CalibrationCooldown is the minimum time between the two detections of a revolution measurement
	CalibrationCooldown time.Duration

	// CalibrationTravel bounds the revolution measurement move
	CalibrationTravel int64

	ZeroOffsetDegrees int64
	StepOffset        int64
}

// DefaultConfig returns the values used on the reference 28BYJ-48 build
func DefaultConfig() Config {
	return Config{
		StepsPerRevolution:      splitflap.StepsPerRevolution,
		MaxSpeed:                800,
		Acceleration:            400,
		CalibrationMaxSpeed:     200,
		CalibrationAcceleration: 100,
		HomingMargin:            splitflap.StepsPerRevolution / 8,
		SettleDelay:             5 * time.Millisecond,
		PassDebounce:            500 * time.Millisecond,
		CalibrationCooldown:     800 * time.Millisecond,
		CalibrationTravel:       100000,
		ZeroOffsetDegrees:       splitflap.DefaultZeroOffsetDegrees,
		StepOffset:              splitflap.DefaultStepOffset,
	}
}
