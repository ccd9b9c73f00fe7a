// GPIO register driver for the BCM283x family
// Translates pin operations into function-select, set and clear register accesses
package core

// GPIO drives the GPIO block through a RegisterFile.
// The driver holds no pin state of its own; every call is one hardware transaction.
type GPIO struct {
	regs RegisterFile
}

// NewGPIO creates a driver over the GPIO register block
func NewGPIO(regs RegisterFile) *GPIO {
	return &GPIO{regs: regs}
}

// SetMode selects the function of a pin.
// The other nine fields of the GPFSEL register are preserved (read-modify-write).
func (g *GPIO) SetMode(pin GPIOPin, mode PinMode) error {
	if err := checkPin(pin); err != nil {
		return err
	}
	if mode > fselMask {
		return ErrInvalidMode
	}

	offset, shift := fselAddress(pin)
	v := g.regs.Read(offset)
	v &^= fselMask << shift
	v |= uint32(mode) << shift
	g.regs.Write(offset, v)
	return nil
}

// Mode reads back the function of a pin
func (g *GPIO) Mode(pin GPIOPin) (PinMode, error) {
	if err := checkPin(pin); err != nil {
		return 0, err
	}
	offset, shift := fselAddress(pin)
	return PinMode((g.regs.Read(offset) >> shift) & fselMask), nil
}

// SetHigh drives an output pin high.
// GPSET is write-1-to-set, so a plain write leaves all other pins alone.
func (g *GPIO) SetHigh(pin GPIOPin) error {
	if err := checkPin(pin); err != nil {
		return err
	}
	offset, mask := bankAddress(GPSET0, pin)
	g.regs.Write(offset, mask)
	return nil
}

// SetLow drives an output pin low through GPCLR
func (g *GPIO) SetLow(pin GPIOPin) error {
	if err := checkPin(pin); err != nil {
		return err
	}
	offset, mask := bankAddress(GPCLR0, pin)
	g.regs.Write(offset, mask)
	return nil
}

// Level returns the electrical level of a pin from GPLEV
func (g *GPIO) Level(pin GPIOPin) (bool, error) {
	if err := checkPin(pin); err != nil {
		return false, err
	}
	offset, mask := bankAddress(GPLEV0, pin)
	return g.regs.Read(offset)&mask != 0, nil
}

// ConfigureOutput configures a pin as a digital output
func (g *GPIO) ConfigureOutput(pin GPIOPin) error {
	return g.SetMode(pin, Output)
}

// ConfigureInput configures a pin as a digital input
func (g *GPIO) ConfigureInput(pin GPIOPin) error {
	return g.SetMode(pin, Input)
}

// SetPin sets the pin to high (true) or low (false)
func (g *GPIO) SetPin(pin GPIOPin, value bool) error {
	if value {
		return g.SetHigh(pin)
	}
	return g.SetLow(pin)
}

// GetPin reads the current pin level
func (g *GPIO) GetPin(pin GPIOPin) (bool, error) {
	return g.Level(pin)
}

var _ GPIODriver = (*GPIO)(nil)
