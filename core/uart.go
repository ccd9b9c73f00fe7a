package core

import "io"

// Mini UART (UART1) in the auxiliary peripheral block.
// BCM2837 ARM peripherals, pages 8-19.

// Aux register offsets from the aux block base
const (
	AUXENB     = 0x04
	AUX_MU_IO  = 0x40
	AUX_MU_IER = 0x44
	AUX_MU_LCR = 0x4C
	AUX_MU_LSR = 0x54
	AUX_MU_CNT = 0x60
	AUX_MU_BAU = 0x68

	AuxRegisterSpan = 0xD8
)

// Line status bits
const (
	LSR_DATA_READY   = 1 << 0
	LSR_TX_AVAILABLE = 1 << 5
)

const (
	auxEnableMiniUART = 1 << 0
	lcr8Bit           = 0b11
	cntlTxRxEnable    = 0b11

	// 250 MHz / (8 * (270 + 1)) = ~115200 baud
	MiniUARTBaudDivisor = 270

	MiniUARTTxPin GPIOPin = 14
	MiniUARTRxPin GPIOPin = 15
)

// MiniUART is a polled driver for the mini UART
type MiniUART struct {
	regs RegisterFile

	// timeoutMS is the read timeout, 0 blocks forever
	timeoutMS uint32

	// Delay is the wait between status polls while a read timeout is armed
	Delay func(us uint32)
}

// NewMiniUART enables the mini UART as 8N1 at ~115200 baud and routes it to
// GPIO 14 (TXD1) and 15 (RXD1).
func NewMiniUART(aux RegisterFile, gpio *GPIO) (*MiniUART, error) {
	aux.Write(AUXENB, aux.Read(AUXENB)|auxEnableMiniUART)
	aux.Write(AUX_MU_BAU, MiniUARTBaudDivisor)

	if err := gpio.SetMode(MiniUARTTxPin, Alt5); err != nil {
		return nil, err
	}
	if err := gpio.SetMode(MiniUARTRxPin, Alt5); err != nil {
		return nil, err
	}

	aux.Write(AUX_MU_LCR, lcr8Bit)
	aux.Write(AUX_MU_CNT, cntlTxRxEnable)

	return &MiniUART{
		regs:  aux,
		Delay: SpinSleepMicroseconds,
	}, nil
}

// SetReadTimeout bounds how long ReadByte waits, in milliseconds. 0 disables the timeout.
func (u *MiniUART) SetReadTimeout(ms uint32) {
	u.timeoutMS = ms
}

// WriteByte blocks until the transmit FIFO has space, then sends b
func (u *MiniUART) WriteByte(b byte) error {
	for u.regs.Read(AUX_MU_LSR)&LSR_TX_AVAILABLE == 0 {
	}
	u.regs.Write(AUX_MU_IO, uint32(b))
	return nil
}

// HasByte reports whether a received byte is waiting. Never blocks.
func (u *MiniUART) HasByte() bool {
	return u.regs.Read(AUX_MU_LSR)&LSR_DATA_READY != 0
}

// WaitForByte blocks until a byte is ready or the read timeout expires
func (u *MiniUART) WaitForByte() error {
	if u.timeoutMS == 0 {
		for !u.HasByte() {
		}
		return nil
	}

	budget := uint64(u.timeoutMS) * 1000
	for elapsed := uint64(0); elapsed <= budget; elapsed++ {
		if u.HasByte() {
			return nil
		}
		u.Delay(1)
	}
	return ErrTimeout
}

// ReadByte returns the next received byte
func (u *MiniUART) ReadByte() (byte, error) {
	if err := u.WaitForByte(); err != nil {
		return 0, err
	}
	return byte(u.regs.Read(AUX_MU_IO)), nil
}

// Read waits for the first byte, honouring the read timeout, then copies
// whatever else is already received without waiting again.
func (u *MiniUART) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := u.WaitForByte(); err != nil {
		return 0, err
	}

	n := 0
	for n < len(p) && u.HasByte() {
		p[n] = byte(u.regs.Read(AUX_MU_IO))
		n++
	}
	return n, nil
}

// Write sends p, emitting "\r" before every "\n"
func (u *MiniUART) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			u.WriteByte('\r')
		}
		u.WriteByte(b)
	}
	return len(p), nil
}

// WriteString is Write for strings, usable as a DebugWriter
func (u *MiniUART) WriteString(s string) {
	u.Write([]byte(s))
}

var _ io.ReadWriter = (*MiniUART)(nil)
