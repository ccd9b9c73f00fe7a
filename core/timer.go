package core

// SpinsPerMicrosecond is the number of spin iterations that take roughly one
// microsecond on a Cortex-A53 at the boot clock. Empirical, not portable.
const SpinsPerMicrosecond = 6

// SpinDelay is a busy-wait timer. It keeps the core occupied for the whole
// delay and never sleeps or yields.
type SpinDelay struct {
	// PerMicrosecond is the calibrated spin count for one microsecond
	PerMicrosecond uint32
}

// DefaultSpinDelay uses the calibration for the Pi 3
var DefaultSpinDelay = SpinDelay{PerMicrosecond: SpinsPerMicrosecond}

// spinLoop runs the spin iterations; tests swap it to count them
var spinLoop = spin

// Spins returns the number of spin iterations for a delay of us microseconds
func (d SpinDelay) Spins(us uint32) uint64 {
	return uint64(us) * uint64(d.PerMicrosecond)
}

// spinsMillis is Spins for a millisecond delay, without wrapping at 32 bits
func (d SpinDelay) spinsMillis(ms uint32) uint64 {
	return uint64(ms) * 1000 * uint64(d.PerMicrosecond)
}

// SleepMicroseconds spins for approximately us microseconds
func (d SpinDelay) SleepMicroseconds(us uint32) {
	spinLoop(d.Spins(us))
}

// SleepMilliseconds spins for approximately ms milliseconds
func (d SpinDelay) SleepMilliseconds(ms uint32) {
	spinLoop(d.spinsMillis(ms))
}

// SpinSleepMicroseconds busy-waits using DefaultSpinDelay
func SpinSleepMicroseconds(us uint32) {
	DefaultSpinDelay.SleepMicroseconds(us)
}

// SpinSleepMilliseconds busy-waits using DefaultSpinDelay
func SpinSleepMilliseconds(ms uint32) {
	DefaultSpinDelay.SleepMilliseconds(ms)
}
