// Package regs describes 32-bit memory-mapped peripheral registers.
//
// The Register interface has the method set of TinyGo's
// *volatile.Register32, so a register block in device memory can be handed
// to the peripheral drivers directly, while tests hand them a Mem instead.
package regs

// Register is a single 32-bit peripheral register.
type Register interface {
	Get() uint32
	Set(value uint32)
	SetBits(value uint32)
	ClearBits(value uint32)
	HasBits(value uint32) bool
	// ReplaceBits clears mask<<pos and then sets value<<pos.
	ReplaceBits(value uint32, mask uint32, pos uint8)
}
