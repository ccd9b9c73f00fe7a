// Package gpiomem exposes the BCM283x GPIO block to Linux user space as a
// core.RegisterFile, through /dev/gpiomem or /dev/mem.
package gpiomem

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"blinky/core"
)

// Device paths
const (
	DevGPIOMem = "/dev/gpiomem" // GPIO block only, no root needed
	DevMem     = "/dev/mem"     // all physical memory, root only
)

// Config selects the device and, for /dev/mem, where the GPIO block lives
type Config struct {
	Device string

	// PeripheralBase is the ARM physical peripheral base, used with /dev/mem only
	PeripheralBase uint32
}

// DefaultConfig maps /dev/gpiomem with the peripheral base of the detected board
func DefaultConfig() *Config {
	return &Config{
		Device:         DevGPIOMem,
		PeripheralBase: Detect().PeripheralBase,
	}
}

// mapOffset returns the file offset of the GPIO block on the configured device
func (c *Config) mapOffset() (int64, error) {
	if c.Device != DevMem {
		// gpiomem maps the GPIO block at offset 0
		return 0, nil
	}
	if c.PeripheralBase == 0 {
		return 0, fmt.Errorf("%s needs a peripheral base", DevMem)
	}
	return int64(c.PeripheralBase) + core.GPIOBlockOffset, nil
}

// Registers is a RegisterFile over a mapped register block.
// Each access is a single 32-bit atomic load or store, which the compiler
// neither caches nor merges.
type Registers struct {
	mem    []byte
	words  []uint32
	mapped bool
}

// FromBytes views mem as a register block. mem must be 4-byte aligned.
func FromBytes(mem []byte) (*Registers, error) {
	if len(mem) < 4 || len(mem)%4 != 0 {
		return nil, fmt.Errorf("register block of %d bytes is not a whole number of words", len(mem))
	}
	if uintptr(unsafe.Pointer(&mem[0]))%4 != 0 {
		return nil, fmt.Errorf("register block is not word aligned")
	}
	return &Registers{
		mem:   mem,
		words: unsafe.Slice((*uint32)(unsafe.Pointer(&mem[0])), len(mem)/4),
	}, nil
}

func (r *Registers) word(offset uint32) *uint32 {
	if offset%4 != 0 || int(offset/4) >= len(r.words) {
		panic(fmt.Sprintf("register offset %#x outside %d byte block", offset, len(r.mem)))
	}
	return &r.words[offset/4]
}

func (r *Registers) Read(offset uint32) uint32 {
	return atomic.LoadUint32(r.word(offset))
}

func (r *Registers) Write(offset uint32, value uint32) {
	atomic.StoreUint32(r.word(offset), value)
}

// Close unmaps the block. Blocks created with FromBytes are left alone.
func (r *Registers) Close() error {
	if !r.mapped {
		return nil
	}
	r.mapped = false
	r.words = nil
	return unmap(r.mem)
}

var _ core.RegisterFile = (*Registers)(nil)
