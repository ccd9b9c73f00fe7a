//go:build !tinygo

package core

import "sync/atomic"

var spinSink uint32

// spin runs n iterations of a store the compiler cannot drop (regular Go implementation)
func spin(n uint64) {
	for i := uint64(0); i < n; i++ {
		atomic.StoreUint32(&spinSink, uint32(i))
	}
}
