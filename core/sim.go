package core

// Access is one recorded register access
type Access struct {
	Write  bool
	Offset uint32
	Value  uint32
}

// MemRegisters is an in-memory RegisterFile.
// Every Read and Write is recorded so tests can check exactly what was touched.
type MemRegisters struct {
	words []uint32
	log   []Access
}

// NewMemRegisters creates a zeroed register file covering size bytes
func NewMemRegisters(size uint32) *MemRegisters {
	return &MemRegisters{words: make([]uint32, size/4)}
}

func (m *MemRegisters) index(offset uint32) int {
	if offset%4 != 0 || int(offset/4) >= len(m.words) {
		panic("register offset out of range: " + utoa(offset))
	}
	return int(offset / 4)
}

func (m *MemRegisters) record(a Access) {
	m.log = append(m.log, a)
}

func (m *MemRegisters) Read(offset uint32) uint32 {
	v := m.words[m.index(offset)]
	m.record(Access{Offset: offset, Value: v})
	return v
}

func (m *MemRegisters) Write(offset uint32, value uint32) {
	m.words[m.index(offset)] = value
	m.record(Access{Write: true, Offset: offset, Value: value})
}

// Peek returns a register value without recording an access
func (m *MemRegisters) Peek(offset uint32) uint32 {
	return m.words[m.index(offset)]
}

// Poke stores a register value without recording an access
func (m *MemRegisters) Poke(offset uint32, value uint32) {
	m.words[m.index(offset)] = value
}

// Accesses returns the recorded accesses in program order
func (m *MemRegisters) Accesses() []Access {
	return m.log
}

// Writes returns only the recorded writes
func (m *MemRegisters) Writes() []Access {
	var w []Access
	for _, a := range m.log {
		if a.Write {
			w = append(w, a)
		}
	}
	return w
}

// ResetAccesses clears the access log
func (m *MemRegisters) ResetAccesses() {
	m.log = m.log[:0]
}

// SimGPIO simulates the BCM283x GPIO block.
// GPSET and GPCLR are write-only and act on the output latch. GPLEV shows the
// latch for output pins and the externally driven level for everything else.
type SimGPIO struct {
	mem    *MemRegisters
	latch  [2]uint32
	driven [2]uint32
}

// NewSimGPIO creates a simulated GPIO block with every pin an input at low level
func NewSimGPIO() *SimGPIO {
	return &SimGPIO{mem: NewMemRegisters(gpioRegisterSpan)}
}

// Registers exposes the backing memory and its access log
func (s *SimGPIO) Registers() *MemRegisters {
	return s.mem
}

func (s *SimGPIO) Read(offset uint32) uint32 {
	switch offset {
	case GPSET0, GPSET0 + 4, GPCLR0, GPCLR0 + 4:
		s.mem.record(Access{Offset: offset})
		return 0
	case GPLEV0, GPLEV0 + 4:
		v := s.levels((offset - GPLEV0) / 4)
		s.mem.record(Access{Offset: offset, Value: v})
		return v
	}
	return s.mem.Read(offset)
}

func (s *SimGPIO) Write(offset uint32, value uint32) {
	switch offset {
	case GPSET0, GPSET0 + 4:
		s.latch[(offset-GPSET0)/4] |= value
	case GPCLR0, GPCLR0 + 4:
		s.latch[(offset-GPCLR0)/4] &^= value
	case GPLEV0, GPLEV0 + 4:
		// read-only
	default:
		s.mem.Write(offset, value)
		return
	}
	s.mem.record(Access{Write: true, Offset: offset, Value: value})
}

// levels computes GPLEV for one bank
func (s *SimGPIO) levels(bank uint32) uint32 {
	var v uint32
	for bit := uint32(0); bit < pinsPerBank; bit++ {
		pin := GPIOPin(bank*pinsPerBank + bit)
		if pin >= NumPins {
			break
		}
		src := s.driven[bank]
		if s.mode(pin) == Output {
			src = s.latch[bank]
		}
		v |= src & (1 << bit)
	}
	return v
}

func (s *SimGPIO) mode(pin GPIOPin) PinMode {
	offset, shift := fselAddress(pin)
	return PinMode((s.mem.Peek(offset) >> shift) & fselMask)
}

// High reports whether the pin is electrically high
func (s *SimGPIO) High(pin GPIOPin) bool {
	offset, mask := bankAddress(0, pin)
	return s.levels(offset/4)&mask != 0
}

// Drive sets the level an external circuit applies to the pin
func (s *SimGPIO) Drive(pin GPIOPin, high bool) {
	offset, mask := bankAddress(0, pin)
	if high {
		s.driven[offset/4] |= mask
	} else {
		s.driven[offset/4] &^= mask
	}
}

var (
	_ RegisterFile = (*MemRegisters)(nil)
	_ RegisterFile = (*SimGPIO)(nil)
)
