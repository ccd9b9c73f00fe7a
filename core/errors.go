package core

import "errors"

var (
	// ErrInvalidPin is returned for pin numbers the chip does not expose
	ErrInvalidPin = errors.New("invalid GPIO pin")

	// ErrInvalidMode is returned for function-select values wider than 3 bits
	ErrInvalidMode = errors.New("invalid GPIO pin mode")

	// ErrTimeout is returned by the mini UART when a read timeout expires
	ErrTimeout = errors.New("timed out")
)

// InvalidPinError reports the offending pin number and matches ErrInvalidPin.
type InvalidPinError struct {
	Pin GPIOPin
}

func (e *InvalidPinError) Error() string {
	return "invalid GPIO pin " + utoa(uint32(e.Pin)) + " (valid range 0-" + itoa(NumPins-1) + ")"
}

func (e *InvalidPinError) Unwrap() error {
	return ErrInvalidPin
}

// checkPin rejects pins outside [0, NumPins)
func checkPin(pin GPIOPin) error {
	if pin >= NumPins {
		return &InvalidPinError{Pin: pin}
	}
	return nil
}
