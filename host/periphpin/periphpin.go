// Package periphpin exposes pins of a core.GPIO as periph.io gpio.PinIO, so
// host code can address them through gpioreg by name ("GPIO16").
package periphpin

import (
	"errors"
	"fmt"
	"time"

	"blinky/core"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

var (
	errNoPull = errors.New("pull resistors are not supported")
	errNoEdge = errors.New("edge detection is not supported")
	errNoPWM  = errors.New("PWM is not supported")
)

// Pin is one GPIO line of a core.GPIO
type Pin struct {
	gpio   *core.GPIO
	number core.GPIOPin
}

// New wraps pin n of g
func New(g *core.GPIO, n core.GPIOPin) *Pin {
	return &Pin{gpio: g, number: n}
}

// Register adds every pin of g to the periph gpioreg registry
func Register(g *core.GPIO) error {
	for n := core.GPIOPin(0); n < core.NumPins; n++ {
		if err := gpioreg.Register(New(g, n)); err != nil {
			return fmt.Errorf("failed to register GPIO%d: %w", n, err)
		}
	}
	return nil
}

// Unregister removes the pins added by Register
func Unregister() {
	for n := core.GPIOPin(0); n < core.NumPins; n++ {
		gpioreg.Unregister(fmt.Sprintf("GPIO%d", n))
	}
}

func (p *Pin) String() string {
	return p.Name()
}

func (p *Pin) Name() string {
	return fmt.Sprintf("GPIO%d", p.number)
}

func (p *Pin) Number() int {
	return int(p.number)
}

// Halt does nothing, there is no background operation to stop
func (p *Pin) Halt() error {
	return nil
}

// Function is the deprecated string form of Func
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func returns the current function select as a periph function name
func (p *Pin) Func() pin.Func {
	mode, err := p.gpio.Mode(p.number)
	if err != nil {
		return pin.FuncNone
	}
	switch mode {
	case core.Input:
		return gpio.IN
	case core.Output:
		if p.Read() {
			return gpio.OUT_HIGH
		}
		return gpio.OUT_LOW
	}
	return pin.Func("ALT" + mode.String()[3:])
}

// SupportedFuncs lists the functions SetFunc accepts
func (p *Pin) SupportedFuncs() []pin.Func {
	return []pin.Func{gpio.IN, gpio.OUT}
}

// SetFunc switches between input and output
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT, gpio.OUT_LOW:
		return p.Out(gpio.Low)
	case gpio.OUT_HIGH:
		return p.Out(gpio.High)
	}
	return fmt.Errorf("%s: unsupported function %q", p, f)
}

// In configures the pin as an input. Only PullNoChange/Float and NoEdge are supported.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull != gpio.PullNoChange && pull != gpio.Float {
		return fmt.Errorf("%s: %w", p, errNoPull)
	}
	if edge != gpio.NoEdge {
		return fmt.Errorf("%s: %w", p, errNoEdge)
	}
	return p.gpio.ConfigureInput(p.number)
}

// Read returns the level from GPLEV
func (p *Pin) Read() gpio.Level {
	level, err := p.gpio.Level(p.number)
	if err != nil {
		return gpio.Low
	}
	return gpio.Level(level)
}

// WaitForEdge always returns false, edge detection is not implemented
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (p *Pin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out latches the level first, then switches the pin to output so it never
// glitches to the stale latch value.
func (p *Pin) Out(l gpio.Level) error {
	if err := p.gpio.SetPin(p.number, bool(l)); err != nil {
		return err
	}
	mode, err := p.gpio.Mode(p.number)
	if err != nil {
		return err
	}
	if mode != core.Output {
		return p.gpio.ConfigureOutput(p.number)
	}
	return nil
}

func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("%s: %w", p, errNoPWM)
}

var (
	_ gpio.PinIO  = (*Pin)(nil)
	_ pin.PinFunc = (*Pin)(nil)
)
