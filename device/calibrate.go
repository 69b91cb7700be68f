package device

import "time"

// calibrationMeasurement exists only for the duration of one revolution measurement
type calibrationMeasurement struct {
	firstMagnetStep int64
	sawFirst        bool
	cooldown        time.Time

	// leavingMagnet is set when the measurement starts over the magnet so the first detection is an edge
	leavingMagnet bool
}

// MeasureRevolution homes, then moves slowly until the magnet is seen twice at least CalibrationCooldown
// apart and returns the number of steps between the two detections. It is diagnostic only: the modulus used
// for targets is not changed. The normal speed and acceleration are restored afterwards.
func (d *Device) MeasureRevolution() (int64, error) {
	d.println("Measuring full revolution steps...")

	if err := d.Home(); err != nil {
		return 0, err
	}

	done, err := d.begin()
	if err != nil {
		return 0, err
	}
	defer done()

	d.motion.SetMaxSpeed(d.cfg.CalibrationMaxSpeed)
	d.motion.SetAcceleration(d.cfg.CalibrationAcceleration)
	defer func() {
		d.motion.SetMaxSpeed(d.cfg.MaxSpeed)
		d.motion.SetAcceleration(d.cfg.Acceleration)
	}()

	steps, ok := d.measure()
	if !ok {
		d.println("Revolution not measured.")
		return 0, ErrCalibrationTimeout
	}

	d.println("Steps per Revolution: ", itoa(steps))
	return steps, nil
}

// measure runs the bounded measurement move. It must be called with busy set.
func (d *Device) measure() (int64, bool) {
	m := calibrationMeasurement{leavingMagnet: d.sensor.Triggered()}

	d.motion.MoveTo(d.motion.CurrentPosition() + d.cfg.CalibrationTravel)

	for d.motion.DistanceToGo() > 0 {
		d.motion.Run()
		triggered := d.sensor.Triggered()
		if m.leavingMagnet {
			m.leavingMagnet = triggered
			continue
		}
		if !triggered {
			continue
		}

		now := d.clock.Now()
		if !m.sawFirst {
			m.firstMagnetStep = d.motion.CurrentPosition()
			m.sawFirst = true
			m.cooldown = now
			d.println("First magnet detection recorded.")
			continue
		}

		if now.Sub(m.cooldown) > d.cfg.CalibrationCooldown {
			steps := d.motion.CurrentPosition() - m.firstMagnetStep
			d.motion.Stop()
			return steps, true
		}
	}

	return 0, false
}
