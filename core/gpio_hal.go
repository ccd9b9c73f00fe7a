package core

// GPIOPin identifies a hardware GPIO pin number (BCM numbering)
type GPIOPin uint32

// PinMode is the 3-bit function-select value of a pin
type PinMode uint32

// Function select values, BCM2835 peripherals datasheet page 92
const (
	Input  PinMode = 0b000
	Output PinMode = 0b001
	Alt0   PinMode = 0b100
	Alt1   PinMode = 0b101
	Alt2   PinMode = 0b110
	Alt3   PinMode = 0b111
	Alt4   PinMode = 0b011
	Alt5   PinMode = 0b010
)

var modeNames = [...]string{
	Input:  "in",
	Output: "out",
	Alt0:   "alt0",
	Alt1:   "alt1",
	Alt2:   "alt2",
	Alt3:   "alt3",
	Alt4:   "alt4",
	Alt5:   "alt5",
}

func (m PinMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "mode(" + utoa(uint32(m)) + ")"
}

// ParsePinMode is the inverse of PinMode.String
func ParsePinMode(s string) (PinMode, error) {
	for m, name := range modeNames {
		if name == s {
			return PinMode(m), nil
		}
	}
	return 0, ErrInvalidMode
}

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	// Returns error if pin is invalid
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInput configures a pin as a digital input
	ConfigureInput(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin level
	GetPin(pin GPIOPin) (bool, error)
}
