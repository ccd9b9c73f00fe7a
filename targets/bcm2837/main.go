//go:build tinygo

// Bare-metal blinky for the Raspberry Pi 3: GPIO 16 toggles every 100 ms and
// every cycle is reported on the mini UART (GPIO 14/15, 115200 8N1).
package main

import (
	"context"

	"blinky/core"
)

func main() {
	gpio := core.NewGPIO(mmio(gpioBase))

	uart, err := core.NewMiniUART(mmio(auxBase), gpio)
	if err == nil {
		core.SetDebugWriter(func(s string) {
			uart.WriteString(s + "\n")
		})
		core.SetDebugEnabled(true)
	}
	core.DebugPrintln("[BOOT] GPIO at " + core.Hex32(gpioBase))

	blinker := core.NewBlinker(gpio, core.DefaultBlinkPin)

	// Never returns unless the pin is rejected
	if err := blinker.Run(context.Background(), 0); err != nil {
		core.DebugPrintln("[ERROR] " + err.Error())
	}
	halt()
}

// halt parks the core; only a reset gets out of here
func halt() {
	for {
		core.SpinSleepMilliseconds(1000)
	}
}
