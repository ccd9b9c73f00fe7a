//go:build tinygo

package main

import (
	"runtime/volatile"
	"unsafe"

	"blinky/core"
)

// Peripheral blocks on the Pi 3
const (
	gpioBase = core.GPIOBase
	auxBase  = core.PeripheralBaseBCM2837 + core.AuxBlockOffset
)

// mmio is a RegisterFile over physical memory. Accesses go through
// volatile.Register32 so they are emitted exactly as written.
type mmio uintptr

func (m mmio) reg(offset uint32) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(m) + uintptr(offset)))
}

func (m mmio) Read(offset uint32) uint32 {
	return m.reg(offset).Get()
}

func (m mmio) Write(offset uint32, value uint32) {
	m.reg(offset).Set(value)
}

var _ core.RegisterFile = mmio(0)
