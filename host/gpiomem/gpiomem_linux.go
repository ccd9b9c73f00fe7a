//go:build linux

package gpiomem

import (
	"fmt"
	"os"

	"blinky/core"

	"golang.org/x/sys/unix"
)

// Open maps the GPIO register block
func Open(cfg *Config) (*Registers, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	offset, err := cfg.mapOffset()
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(cfg.Device, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Device, err)
	}
	// The mapping stays valid after the descriptor is closed
	defer f.Close()

	mem, err := unix.Mmap(int(f.Fd()), offset, core.BlockSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to map GPIO block from %s at %#x: %w", cfg.Device, offset, err)
	}

	regs, err := FromBytes(mem)
	if err != nil {
		unix.Munmap(mem)
		return nil, err
	}
	regs.mapped = true
	return regs, nil
}

func unmap(mem []byte) error {
	return unix.Munmap(mem)
}
