package core

import (
	"errors"
	"testing"
)

func fselField(m *MemRegisters, pin GPIOPin) PinMode {
	offset, shift := fselAddress(pin)
	return PinMode((m.Peek(offset) >> shift) & fselMask)
}

// fillModes gives every pin a known, non-uniform mode
func fillModes(m *MemRegisters, modeOf func(GPIOPin) PinMode) {
	for p := GPIOPin(0); p < NumPins; p++ {
		offset, shift := fselAddress(p)
		v := m.Peek(offset)
		v &^= fselMask << shift
		v |= uint32(modeOf(p)) << shift
		m.Poke(offset, v)
	}
}

func TestSetModeFieldIsolation(t *testing.T) {
	patterns := map[string]func(GPIOPin) PinMode{
		"all-alt3": func(GPIOPin) PinMode { return Alt3 },
		"mixed":    func(p GPIOPin) PinMode { return PinMode((uint32(p)*5 + 3) % 8) },
	}

	for name, modeOf := range patterns {
		for p := GPIOPin(0); p < NumPins; p++ {
			regs := NewMemRegisters(gpioRegisterSpan)
			fillModes(regs, modeOf)
			gpio := NewGPIO(regs)

			if err := gpio.SetMode(p, Output); err != nil {
				t.Fatalf("%s: SetMode(%d) failed: %v", name, p, err)
			}
			if got := fselField(regs, p); got != Output {
				t.Errorf("%s: pin %d mode = %s, expected out", name, p, got)
			}

			for q := (p / pinsPerFSEL) * pinsPerFSEL; q < (p/pinsPerFSEL+1)*pinsPerFSEL && q < NumPins; q++ {
				if q == p {
					continue
				}
				if got := fselField(regs, q); got != modeOf(q) {
					t.Errorf("%s: SetMode(%d) changed neighbour %d from %s to %s", name, p, q, modeOf(q), got)
				}
			}
		}
	}
}

func TestSetModeRoundTrip(t *testing.T) {
	regs := NewMemRegisters(gpioRegisterSpan)
	gpio := NewGPIO(regs)

	for p := GPIOPin(0); p < NumPins; p++ {
		if err := gpio.SetMode(p, Output); err != nil {
			t.Fatalf("SetMode(%d, out) failed: %v", p, err)
		}
		if err := gpio.SetMode(p, Input); err != nil {
			t.Fatalf("SetMode(%d, in) failed: %v", p, err)
		}
		mode, err := gpio.Mode(p)
		if err != nil {
			t.Fatalf("Mode(%d) failed: %v", p, err)
		}
		if mode != Input {
			t.Errorf("Pin %d: expected mode 0b000 after round trip, got %03b", p, uint32(mode))
		}
	}
}

func TestSetModeSingleReadModifyWrite(t *testing.T) {
	regs := NewMemRegisters(gpioRegisterSpan)
	gpio := NewGPIO(regs)

	if err := gpio.SetMode(16, Output); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}

	acc := regs.Accesses()
	if len(acc) != 2 {
		t.Fatalf("Expected 1 read and 1 write, got %d accesses: %+v", len(acc), acc)
	}
	if acc[0].Write || acc[0].Offset != 0x04 {
		t.Errorf("Expected read of GPFSEL1 (0x04) first, got %+v", acc[0])
	}
	if !acc[1].Write || acc[1].Offset != 0x04 || acc[1].Value != 0b001<<18 {
		t.Errorf("Expected write of 1<<18 to GPFSEL1, got %+v", acc[1])
	}
}

func TestSetClearAddressing(t *testing.T) {
	ops := []struct {
		name string
		bank uint32
		call func(*GPIO, GPIOPin) error
	}{
		{"SetHigh", GPSET0, (*GPIO).SetHigh},
		{"SetLow", GPCLR0, (*GPIO).SetLow},
	}

	for _, op := range ops {
		for p := GPIOPin(0); p < NumPins; p++ {
			regs := NewMemRegisters(gpioRegisterSpan)
			if err := op.call(NewGPIO(regs), p); err != nil {
				t.Fatalf("%s(%d) failed: %v", op.name, p, err)
			}

			acc := regs.Accesses()
			if len(acc) != 1 {
				t.Fatalf("%s(%d): expected exactly one write, got %+v", op.name, p, acc)
			}
			want := Access{Write: true, Offset: op.bank + uint32(p/32)*4, Value: 1 << (uint32(p) % 32)}
			if acc[0] != want {
				t.Errorf("%s(%d): expected %+v, got %+v", op.name, p, want, acc[0])
			}
		}
	}
}

func TestBoundaryRejection(t *testing.T) {
	regs := NewMemRegisters(gpioRegisterSpan)
	gpio := NewGPIO(regs)

	checks := map[string]error{
		"SetMode": gpio.SetMode(NumPins, Output),
		"SetHigh": gpio.SetHigh(NumPins),
		"SetLow":  gpio.SetLow(NumPins),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrInvalidPin) {
			t.Errorf("%s(54): expected ErrInvalidPin, got %v", name, err)
		}
		var pinErr *InvalidPinError
		if !errors.As(err, &pinErr) || pinErr.Pin != NumPins {
			t.Errorf("%s(54): expected InvalidPinError for pin 54, got %v", name, err)
		}
	}
	if _, err := gpio.Mode(1000); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("Mode(1000): expected ErrInvalidPin, got %v", err)
	}
	if _, err := gpio.Level(54); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("Level(54): expected ErrInvalidPin, got %v", err)
	}
	if len(regs.Accesses()) != 0 {
		t.Errorf("Rejected calls touched registers: %+v", regs.Accesses())
	}

	if err := gpio.SetMode(53, Output); err != nil {
		t.Errorf("SetMode(53, out) failed: %v", err)
	}
	if err := gpio.SetHigh(53); err != nil {
		t.Errorf("SetHigh(53) failed: %v", err)
	}
}

func TestSetModeInvalidMode(t *testing.T) {
	regs := NewMemRegisters(gpioRegisterSpan)
	gpio := NewGPIO(regs)

	if err := gpio.SetMode(4, PinMode(8)); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("Expected ErrInvalidMode, got %v", err)
	}
	if len(regs.Accesses()) != 0 {
		t.Errorf("Rejected mode touched registers: %+v", regs.Accesses())
	}
}

func TestEndToEndPin16(t *testing.T) {
	sim := NewSimGPIO()
	gpio := NewGPIO(sim)
	pin := GPIOPin(16)

	if err := gpio.SetMode(pin, Output); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}

	if err := gpio.SetHigh(pin); err != nil {
		t.Fatalf("SetHigh failed: %v", err)
	}
	if !sim.High(pin) {
		t.Errorf("Expected pin 16 high after SetHigh")
	}
	if level, _ := gpio.Level(pin); !level {
		t.Errorf("Expected GPLEV to report pin 16 high")
	}

	if err := gpio.SetLow(pin); err != nil {
		t.Fatalf("SetLow failed: %v", err)
	}
	if sim.High(pin) {
		t.Errorf("Expected pin 16 low after SetLow")
	}
	if level, _ := gpio.Level(pin); level {
		t.Errorf("Expected GPLEV to report pin 16 low")
	}
}

func TestLevelFollowsInputs(t *testing.T) {
	sim := NewSimGPIO()
	gpio := NewGPIO(sim)

	// Latch is high but the pin is an input: the external level wins
	if err := gpio.SetHigh(40); err != nil {
		t.Fatalf("SetHigh failed: %v", err)
	}
	if level, _ := gpio.Level(40); level {
		t.Errorf("Expected input pin 40 to read low")
	}

	sim.Drive(40, true)
	if level, _ := gpio.Level(40); !level {
		t.Errorf("Expected driven input pin 40 to read high")
	}

	// Switching to output exposes the latch
	sim.Drive(40, false)
	if err := gpio.ConfigureOutput(40); err != nil {
		t.Fatalf("ConfigureOutput failed: %v", err)
	}
	if !sim.High(40) {
		t.Errorf("Expected pin 40 to show the latched high level once output")
	}
}

func TestGPIODriverBasic(t *testing.T) {
	var driver GPIODriver = NewGPIO(NewSimGPIO())

	pin := GPIOPin(25)
	if err := driver.ConfigureOutput(pin); err != nil {
		t.Fatalf("ConfigureOutput failed: %v", err)
	}

	if err := driver.SetPin(pin, true); err != nil {
		t.Fatalf("SetPin(true) failed: %v", err)
	}
	state, err := driver.GetPin(pin)
	if err != nil {
		t.Fatalf("GetPin failed: %v", err)
	}
	if !state {
		t.Errorf("Expected pin to be high, got low")
	}

	if err := driver.SetPin(pin, false); err != nil {
		t.Fatalf("SetPin(false) failed: %v", err)
	}
	state, err = driver.GetPin(pin)
	if err != nil {
		t.Fatalf("GetPin failed: %v", err)
	}
	if state {
		t.Errorf("Expected pin to be low, got high")
	}
}

func TestSimSetClearAreWriteOnly(t *testing.T) {
	sim := NewSimGPIO()
	gpio := NewGPIO(sim)

	gpio.ConfigureOutput(3)
	gpio.SetHigh(3)

	if v := sim.Read(GPSET0); v != 0 {
		t.Errorf("Expected GPSET0 to read as 0, got %s", Hex32(v))
	}
	if v := sim.Registers().Peek(GPSET0); v != 0 {
		t.Errorf("GPSET0 write was stored: %s", Hex32(v))
	}
}

func TestPinModeNames(t *testing.T) {
	for _, m := range []PinMode{Input, Output, Alt0, Alt1, Alt2, Alt3, Alt4, Alt5} {
		parsed, err := ParsePinMode(m.String())
		if err != nil || parsed != m {
			t.Errorf("ParsePinMode(%q) = %v, %v; expected %v", m.String(), parsed, err, m)
		}
	}
	if _, err := ParsePinMode("pwm"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("Expected ErrInvalidMode for unknown name, got %v", err)
	}
	if s := PinMode(9).String(); s != "mode(9)" {
		t.Errorf("Expected mode(9), got %s", s)
	}
}
