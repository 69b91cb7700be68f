package device

import "github.com/calvinmclean/splitflap"

// homingState is the phase of the magnet search
type homingState int

const (
	// homingLeavingMagnet only runs when the search starts with the magnet already under the sensor,
	// so the reference is always the leading edge
	homingLeavingMagnet homingState = iota
	homingSearchingFirstEdge
	homingConfirming
	homingDone
)

func (s homingState) String() string {
	switch s {
	case homingLeavingMagnet:
		return "LeavingMagnet"
	case homingSearchingFirstEdge:
		return "SearchingFirstEdge"
	case homingConfirming:
		return "Confirming"
	case homingDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// homingSession exists only for the duration of one Home call
type homingSession struct {
	state         homingState
	startPosition int64
}

// Home re-anchors the absolute position to the magnet. It searches forward at most one revolution plus
// HomingMargin, stops on a confirmed LOW reading, moves forward by the zero offset and defines that point
// as step 0. The magnet pass count is reset. If the magnet is not confirmed ErrHomingTimeout is returned
// and the position is not redefined.
func (d *Device) Home() error {
	done, err := d.begin()
	if err != nil {
		return err
	}
	defer done()

	d.println("Searching for magnet to zero position...")

	if !d.findMagnet() {
		d.println("Magnet not found. Position not zeroed.")
		return ErrHomingTimeout
	}

	offset := d.offsetSteps()
	d.debug("magnet at ", itoa(d.motion.CurrentPosition()), " offset=", itoa(offset))
	if offset != 0 {
		d.motion.MoveTo(d.motion.CurrentPosition() + offset)
		d.runToTarget(nil)
	}

	d.motion.SetCurrentPosition(0)
	d.magnetPassCount = 0

	d.println("Magnet detected and offset applied. Position zeroed.")
	return nil
}

// findMagnet runs the bounded search and leaves the motor stopped on the reference point
func (d *Device) findMagnet() bool {
	s := homingSession{
		state:         homingSearchingFirstEdge,
		startPosition: d.motion.CurrentPosition(),
	}
	if d.sensor.Triggered() {
		s.state = homingLeavingMagnet
	}

	d.motion.MoveTo(s.startPosition + d.cfg.StepsPerRevolution + d.cfg.HomingMargin)

	for d.motion.DistanceToGo() > 0 {
		d.motion.Run()
		triggered := d.sensor.Triggered()

		switch s.state {
		case homingLeavingMagnet:
			if !triggered {
				s.state = homingSearchingFirstEdge
			}
		case homingSearchingFirstEdge:
			if triggered {
				s.state = homingConfirming
				d.clock.Sleep(d.cfg.SettleDelay)
			}
		case homingConfirming:
			if !triggered {
				// chatter on the leading edge
				s.state = homingSearchingFirstEdge
				continue
			}
			d.motion.Stop()
			s.state = homingDone
		}

		if s.state == homingDone {
			break
		}
	}

	d.debug("homing ended in state ", s.state.String(), " after ", itoa(d.motion.CurrentPosition()-s.startPosition), " steps")
	return s.state == homingDone
}

// offsetSteps converts the zero offset into a forward move within one revolution
func (d *Device) offsetSteps() int64 {
	m := d.cfg.StepsPerRevolution
	steps := splitflap.DegreesToSteps(d.zeroOffsetDegrees, m)
	return ((steps % m) + m) % m
}
