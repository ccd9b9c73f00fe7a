//go:build tinygo

package core

import "runtime/volatile"

var spinSink uint32

// spin runs n iterations of a volatile store, the TinyGo stand-in for a nop
func spin(n uint64) {
	for i := uint64(0); i < n; i++ {
		volatile.StoreUint32(&spinSink, uint32(i))
	}
}
