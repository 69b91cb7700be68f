package device

import (
	"github.com/calvinmclean/splitflap"
)

// Target returns the absolute step to command so the wheel moves strictly forward from position to the
// flap at flapSteps, trimmed by stepOffset. A target equal to the current angle costs a full revolution
// instead of a no-op. For |stepOffset| < modulus the returned delta is always in (0, 2*modulus).
func Target(position, flapSteps, stepOffset, modulus int64) int64 {
	inCycle := flapSteps + stepOffset
	current := ((position % modulus) + modulus) % modulus

	for inCycle <= current {
		inCycle += modulus
	}

	return position + (inCycle - current)
}

// TargetForIndex returns the absolute target for flap i from the current position without moving
func (d *Device) TargetForIndex(i int) (int64, error) {
	if !splitflap.ValidIndex(i) {
		return 0, ErrIndexOutOfRange
	}
	return Target(d.motion.CurrentPosition(), splitflap.StepsAt(i), d.stepOffset, d.cfg.StepsPerRevolution), nil
}

// GoToCharacter moves forward to the flap showing c. Unknown characters are rejected without moving.
func (d *Device) GoToCharacter(c byte) error {
	i, ok := splitflap.IndexOf(c)
	if !ok {
		return ErrUnknownCharacter
	}
	return d.GoToIndex(i)
}

// GoToIndex moves forward to flap i and blocks until it arrives. Magnet passes seen on the way are counted.
func (d *Device) GoToIndex(i int) error {
	target, err := d.TargetForIndex(i)
	if err != nil {
		return err
	}

	done, err := d.begin()
	if err != nil {
		return err
	}
	defer done()

	d.println("Moving to ", flapLabel(i), "...")
	d.debug("target=", itoa(target), " from=", itoa(d.motion.CurrentPosition()))

	d.motion.MoveTo(target)
	d.runToTarget(d.countMagnetPass)

	d.println("Done.")
	return nil
}

// MoveSteps moves relative to the current position by steps and blocks until it arrives
func (d *Device) MoveSteps(steps int64) error {
	done, err := d.begin()
	if err != nil {
		return err
	}
	defer done()

	d.println("Moving forward ", itoa(steps), " steps...")

	d.motion.MoveTo(d.motion.CurrentPosition() + steps)
	d.runToTarget(nil)

	d.println("Done.")
	return nil
}

// countMagnetPass increments the pass counter for a LOW reading at least PassDebounce after the last counted one
func (d *Device) countMagnetPass() {
	if !d.sensor.Triggered() {
		return
	}

	now := d.clock.Now()
	if !d.lastMagnetEdge.IsZero() && now.Sub(d.lastMagnetEdge) < d.cfg.PassDebounce {
		return
	}

	d.magnetPassCount++
	d.lastMagnetEdge = now
}
