package controller

import (
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// ErrNoUSBSerial is returned when no USB serial device is connected
var ErrNoUSBSerial = errors.New("no USB serial ports found")

// GetSerialPorts lists the names of connected USB serial ports
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "error listing serial ports")
	}

	var result []string
	for _, p := range ports {
		if p.IsUSB {
			result = append(result, p.Name)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}

	return result, nil
}

func openSerial(cfg Config) (serial.Port, error) {
	port, err := serial.Open(cfg.SerialPort, &serial.Mode{
		BaudRate: cfg.baudRate(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error opening serial port %q", cfg.SerialPort)
	}
	return port, nil
}
