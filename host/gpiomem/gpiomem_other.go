//go:build !linux

package gpiomem

import "errors"

// Open is only supported on Linux
func Open(cfg *Config) (*Registers, error) {
	return nil, errors.New("gpiomem: memory-mapped GPIO requires Linux")
}

func unmap(mem []byte) error {
	return nil
}
