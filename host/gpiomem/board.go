package gpiomem

import (
	"strings"

	"blinky/core"

	"periph.io/x/host/v3/distro"
)

// Board describes the SoC family of a Raspberry Pi model
type Board struct {
	Model          string
	PeripheralBase uint32

	// Supported is false for boards whose GPIO is not a BCM283x block (Pi 5)
	Supported bool
}

// Detect reads the device tree model of the running system
func Detect() Board {
	return BoardFromModel(distro.DTModel())
}

// BoardFromModel maps a device tree model string to its peripheral base.
// Unknown models are assumed to be a Pi 3.
func BoardFromModel(model string) Board {
	b := Board{Model: model, PeripheralBase: core.PeripheralBaseBCM2837, Supported: true}

	switch {
	case strings.Contains(model, "Raspberry Pi 5"), strings.Contains(model, "Compute Module 5"):
		b.PeripheralBase = 0
		b.Supported = false
	case strings.Contains(model, "Raspberry Pi 4"), strings.Contains(model, "Raspberry Pi 400"),
		strings.Contains(model, "Compute Module 4"):
		b.PeripheralBase = core.PeripheralBaseBCM2711
	case strings.Contains(model, "Raspberry Pi 3"), strings.Contains(model, "Raspberry Pi 2"),
		strings.Contains(model, "Zero 2"), strings.Contains(model, "Compute Module 3"):
		b.PeripheralBase = core.PeripheralBaseBCM2837
	case strings.Contains(model, "Raspberry Pi Zero"), strings.Contains(model, "Raspberry Pi Model"),
		strings.Contains(model, "Raspberry Pi Compute Module"):
		b.PeripheralBase = core.PeripheralBaseBCM2835
	}
	return b
}

// GPIOBase returns the physical address of the GPIO block
func (b Board) GPIOBase() uint32 {
	if !b.Supported {
		return 0
	}
	return b.PeripheralBase + core.GPIOBlockOffset
}
