package device

import "errors"

var (
	// ErrUnknownCharacter is returned when a character is not printed on the wheel
	ErrUnknownCharacter = errors.New("character not in index")
	// ErrIndexOutOfRange is returned for a flap index outside the table
	ErrIndexOutOfRange = errors.New("flap index out of range")
	// ErrHomingTimeout is returned when the bounded search ends without confirming the magnet
	ErrHomingTimeout = errors.New("magnet not found within homing search")
	// ErrCalibrationTimeout is returned when the measurement move ends before two magnet detections
	ErrCalibrationTimeout = errors.New("revolution not measured: magnet not detected twice")
	// ErrOffsetOutOfRange is returned for a step offset of a full revolution or more
	ErrOffsetOutOfRange = errors.New("step offset must be less than one revolution")
	// ErrBusy is returned when a move is in flight
	ErrBusy = errors.New("motor is busy")
)
