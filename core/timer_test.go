package core

import (
	"testing"
	"time"
)

func TestSpinsScaleWithDuration(t *testing.T) {
	d := SpinDelay{PerMicrosecond: SpinsPerMicrosecond}

	if d.Spins(0) != 0 {
		t.Errorf("Expected 0 spins for 0us, got %d", d.Spins(0))
	}
	if d.Spins(100) != 600 {
		t.Errorf("Expected 600 spins for 100us, got %d", d.Spins(100))
	}

	// Large durations must not overflow 32 bits
	if got := d.Spins(1 << 31); got != uint64(1<<31)*SpinsPerMicrosecond {
		t.Errorf("Spins overflowed: got %d", got)
	}

	prev := uint64(0)
	for us := uint32(0); us < 10000; us += 97 {
		n := d.Spins(us)
		if n < prev {
			t.Fatalf("Spins(%d)=%d is less than previous %d", us, n, prev)
		}
		prev = n
	}
}

func TestSpinSleepMonotonic(t *testing.T) {
	d := SpinDelay{PerMicrosecond: SpinsPerMicrosecond}

	measure := func(us uint32) time.Duration {
		start := time.Now()
		d.SleepMicroseconds(us)
		return time.Since(start)
	}

	// Warm up, then compare durations two orders of magnitude apart
	measure(100)
	short := measure(100)
	long := measure(100000)

	t.Logf("100us spin took %v, 100000us spin took %v", short, long)
	if long < short {
		t.Errorf("Longer spin finished faster: %v < %v", long, short)
	}
}

// countSpins replaces the spin loop with a counter for the duration of the test
func countSpins(t *testing.T) *[]uint64 {
	t.Helper()
	var calls []uint64
	spinLoop = func(n uint64) { calls = append(calls, n) }
	t.Cleanup(func() { spinLoop = spin })
	return &calls
}

func TestSpinSleepMilliseconds(t *testing.T) {
	calls := countSpins(t)
	d := SpinDelay{PerMicrosecond: SpinsPerMicrosecond}

	d.SleepMilliseconds(3)
	d.SleepMicroseconds(3000)

	if len(*calls) != 2 {
		t.Fatalf("Expected 2 spin loops, got %d", len(*calls))
	}
	if (*calls)[0] != d.Spins(3000) || (*calls)[0] != (*calls)[1] {
		t.Errorf("SleepMilliseconds(3) spun %d, SleepMicroseconds(3000) spun %d, expected %d",
			(*calls)[0], (*calls)[1], d.Spins(3000))
	}

	if DefaultSpinDelay.PerMicrosecond != SpinsPerMicrosecond {
		t.Errorf("Expected default calibration %d, got %d", SpinsPerMicrosecond, DefaultSpinDelay.PerMicrosecond)
	}
}

func TestSpinSleepMillisecondsDoesNotWrap(t *testing.T) {
	calls := countSpins(t)
	d := SpinDelay{PerMicrosecond: 1}

	// 4294968 * 1000 does not fit in 32 bits
	d.SleepMilliseconds(4294968)

	if len(*calls) != 1 || (*calls)[0] != 4294968000 {
		t.Errorf("Expected 4294968000 spins, got %v", *calls)
	}
}
