package sim

// Hall is a hall sensor with a magnet fixed at a physical angle of the wheel. It is triggered while the
// wheel's physical position modulo Modulus is within [Position, Position+Width).
type Hall struct {
	Stepper  *Stepper
	Modulus  int64
	Position int64
	Width    int64
}

// NewHall creates a Hall reading the wheel of stepper
func NewHall(stepper *Stepper, modulus, position, width int64) *Hall {
	return &Hall{
		Stepper:  stepper,
		Modulus:  modulus,
		Position: position,
		Width:    width,
	}
}

func (h *Hall) Triggered() bool {
	angle := ((h.Stepper.Physical() % h.Modulus) + h.Modulus) % h.Modulus
	start := ((h.Position % h.Modulus) + h.Modulus) % h.Modulus
	return (angle-start+h.Modulus)%h.Modulus < h.Width
}

// SensorFunc adapts a function to the device's Sensor contract
type SensorFunc func() bool

func (f SensorFunc) Triggered() bool {
	return f()
}
