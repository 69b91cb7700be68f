//go:build tinygo

package hardware

import (
	"machine"
	"strings"
)

// ModuleID is the hex encoded unique ID of the chip
func ModuleID() string {
	const hexDigits = "0123456789ABCDEF"

	var sb strings.Builder
	for _, b := range machine.DeviceID() {
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0F])
	}
	return sb.String()
}
