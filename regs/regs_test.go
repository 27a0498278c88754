package regs

import "testing"

func TestMemBitOps(t *testing.T) {
	m := NewMem(0x0f)
	m.SetBits(0x30)
	if got := m.Get(); got != 0x3f {
		t.Fatalf("SetBits: expected 0x3f, got %#x", got)
	}
	m.ClearBits(0x03)
	if got := m.Get(); got != 0x3c {
		t.Fatalf("ClearBits: expected 0x3c, got %#x", got)
	}
	if !m.HasBits(0x04) || m.HasBits(0x01) {
		t.Errorf("HasBits mismatch on %#x", m.Get())
	}
	m.ReplaceBits(0x5, 0x7, 8)
	if got := m.Get(); got != 0x53c {
		t.Errorf("ReplaceBits: expected 0x53c, got %#x", got)
	}
	if m.Writes() != 3 {
		t.Errorf("expected 3 writes, got %d", m.Writes())
	}
}

func TestIRQ(t *testing.T) {
	iser, icpr := NewMem(0), NewMem(0)
	ipr := NewMem(0x11223344)
	q := IRQ{Num: 15, ISER: iser, ICPR: icpr, IPR: ipr}

	q.SetPriority(0x80)
	if got := ipr.Get(); got != 0x80223344 {
		t.Errorf("priority word: expected 0x80223344, got %#x", got)
	}
	q.ClearPending()
	if got := icpr.Get(); got != 1<<15 {
		t.Errorf("ICPR: expected %#x, got %#x", 1<<15, got)
	}
	q.Enable()
	if got := iser.Get(); got != 1<<15 {
		t.Errorf("ISER: expected %#x, got %#x", 1<<15, got)
	}
}
