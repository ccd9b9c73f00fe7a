package core

// RegisterFile is a window onto a block of 32-bit memory-mapped registers.
// Offsets are byte offsets from the start of the block and must be word aligned.
//
// Implementations must perform every Read and Write as a real access, in
// program order: no caching, no merging of consecutive writes, no elision.
type RegisterFile interface {
	Read(offset uint32) uint32
	Write(offset uint32, value uint32)
}

// Peripheral base addresses (ARM physical) for the supported SoCs
const (
	PeripheralBaseBCM2835 = 0x20000000 // Pi 1, Zero
	PeripheralBaseBCM2837 = 0x3F000000 // Pi 2, Pi 3
	PeripheralBaseBCM2711 = 0xFE000000 // Pi 4
)

// Offsets of peripheral blocks from the peripheral base
const (
	GPIOBlockOffset = 0x200000
	AuxBlockOffset  = 0x215000

	// Size of one mapped peripheral block
	BlockSize = 4 * 1024
)

// GPIOBase is the GPIO block address on the BCM2837 (Pi 3)
const GPIOBase = PeripheralBaseBCM2837 + GPIOBlockOffset

// GPIO register offsets from the GPIO block base
const (
	GPFSEL0 = 0x00 // Function select, 6 registers, 10 pins each
	GPSET0  = 0x1C // Output set, 2 registers, write-only
	GPCLR0  = 0x28 // Output clear, 2 registers, write-only
	GPLEV0  = 0x34 // Pin level, 2 registers, read-only

	gpioRegisterSpan = 0xB4
)

// Register bank geometry
const (
	NumPins = 54

	pinsPerFSEL = 10
	fselWidth   = 3
	fselMask    = 0b111

	pinsPerBank = 32
)

// fselAddress returns the function-select register offset and field shift for a pin
func fselAddress(pin GPIOPin) (offset uint32, shift uint32) {
	offset = GPFSEL0 + uint32(pin/pinsPerFSEL)*4
	shift = uint32(pin%pinsPerFSEL) * fselWidth
	return offset, shift
}

// bankAddress returns the offset of the bank register for pin, relative to the
// first register of the bank (GPSET0, GPCLR0 or GPLEV0), and the pin's bit mask.
// Index and bit both reduce against the same 32-pin boundary.
func bankAddress(bank uint32, pin GPIOPin) (offset uint32, mask uint32) {
	offset = bank + uint32(pin/pinsPerBank)*4
	mask = 1 << (uint32(pin) % pinsPerBank)
	return offset, mask
}
