package core

import "context"

// Default blink timing for the on-board test LED on GPIO 16
const (
	DefaultBlinkPin    GPIOPin = 16
	DefaultBlinkMicros         = 100 * 1000
)

// Blinker toggles one output pin: high, wait, low, wait.
type Blinker struct {
	GPIO GPIODriver
	Pin  GPIOPin

	// Time spent high and low per cycle, in microseconds
	OnMicros  uint32
	OffMicros uint32

	// Delay waits for the given number of microseconds
	// Defaults to SpinSleepMicroseconds when nil
	Delay func(us uint32)
}

// NewBlinker creates a blinker with the default timing and spin delay
func NewBlinker(gpio GPIODriver, pin GPIOPin) *Blinker {
	return &Blinker{
		GPIO:      gpio,
		Pin:       pin,
		OnMicros:  DefaultBlinkMicros,
		OffMicros: DefaultBlinkMicros,
		Delay:     SpinSleepMicroseconds,
	}
}

// Configure makes the pin an output
func (b *Blinker) Configure() error {
	if err := b.GPIO.ConfigureOutput(b.Pin); err != nil {
		return err
	}
	DebugPrintln("[BLINK] pin " + utoa(uint32(b.Pin)) + " configured as output")
	return nil
}

// Cycle runs one set-then-clear period
func (b *Blinker) Cycle() error {
	delay := b.Delay
	if delay == nil {
		delay = SpinSleepMicroseconds
	}

	if err := b.GPIO.SetPin(b.Pin, true); err != nil {
		return err
	}
	delay(b.OnMicros)

	if err := b.GPIO.SetPin(b.Pin, false); err != nil {
		return err
	}
	delay(b.OffMicros)
	return nil
}

// Run configures the pin and blinks it. cycles <= 0 blinks until ctx is done.
// Returns ctx.Err() when cancelled.
func (b *Blinker) Run(ctx context.Context, cycles int) error {
	if err := b.Configure(); err != nil {
		return err
	}

	for n := 0; cycles <= 0 || n < cycles; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := b.Cycle(); err != nil {
			return err
		}
		if IsDebugEnabled() {
			DebugPrintln("[BLINK] cycle " + itoa(n+1))
		}
	}
	return nil
}
