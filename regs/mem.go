package regs

// Mem is a Register backed by ordinary memory. It counts writes so tests can
// tell an untouched register from one that was rewritten with its old value.
type Mem struct {
	v      uint32
	writes int
}

// NewMem returns a Mem holding the given reset value.
func NewMem(reset uint32) *Mem {
	return &Mem{v: reset}
}

func (m *Mem) Get() uint32 { return m.v }

func (m *Mem) Set(value uint32) {
	m.v = value
	m.writes++
}

func (m *Mem) SetBits(value uint32) { m.Set(m.v | value) }

func (m *Mem) ClearBits(value uint32) { m.Set(m.v &^ value) }

func (m *Mem) HasBits(value uint32) bool { return m.v&value != 0 }

func (m *Mem) ReplaceBits(value uint32, mask uint32, pos uint8) {
	m.Set(m.v&^(mask<<pos) | value<<pos)
}

// Writes reports how many times the register has been written.
func (m *Mem) Writes() int { return m.writes }
