//go:build tinygo

package hardware

import "machine"

// Hall is an active-low hall effect sensor. The magnet pulls the pin LOW.
type Hall struct {
	pin machine.Pin
}

func NewHall(pin machine.Pin) *Hall {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &Hall{pin: pin}
}

func (h *Hall) Triggered() bool {
	return !h.pin.Get()
}
