//go:build tinygo

package hardware

import (
	"machine"
	"time"
)

const serialPollInterval = 10 * time.Millisecond

// SerialReader is a blocking io.Reader over a UART or USB CDC port
type SerialReader struct {
	port machine.Serialer
}

func NewSerialReader(port machine.Serialer) *SerialReader {
	return &SerialReader{port: port}
}

// Read waits until at least one byte is available
func (r *SerialReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for r.port.Buffered() == 0 {
		time.Sleep(serialPollInterval)
	}

	n := 0
	for n < len(p) && r.port.Buffered() > 0 {
		b, err := r.port.ReadByte()
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}
