package regs

// IRQ is one interrupt line of an ARMv6-M NVIC. The registers are the words
// that hold this line's bits: ISER and ICPR are shared by lines 0-31, IPR is
// the priority word containing byte Num%4.
type IRQ struct {
	Num  uint8
	ISER Register
	ICPR Register
	IPR  Register
}

// SetPriority writes the raw 8-bit priority. Cortex-M0+ parts only implement
// the top two bits.
func (q IRQ) SetPriority(priority uint8) {
	q.IPR.ReplaceBits(uint32(priority), 0xff, (q.Num%4)*8)
}

// ClearPending drops a request latched before the line was armed.
func (q IRQ) ClearPending() {
	q.ICPR.Set(1 << (q.Num % 32))
}

// Enable unmasks the line. ISER is write-one-to-set, other lines are not
// affected.
func (q IRQ) Enable() {
	q.ISER.Set(1 << (q.Num % 32))
}
