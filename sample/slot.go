// Package sample holds the single shared ADC result between the conversion
// interrupt and the control loop.
package sample

import "sync/atomic"

// Max is the full-scale sample value. Converters with fewer bits are left
// justified by hardware so every sample spans 0..Max.
const Max = 0xffff

// Slot is a single-producer single-consumer cell that is overwritten on
// every publish. Nothing is queued: a value that is not read before the next
// Publish is lost.
type Slot struct {
	v     atomic.Uint32
	count atomic.Uint32
}

// Publish stores a completed conversion. Safe to call from interrupt
// context.
func (s *Slot) Publish(v uint16) {
	s.v.Store(uint32(v))
	s.count.Add(1)
}

// Snapshot returns the latest published value, or 0 before the first
// publish. Callers read it once per iteration and work on the copy.
func (s *Slot) Snapshot() uint16 {
	return uint16(s.v.Load())
}

// Count is the number of publishes so far, wrapping at 2^32.
func (s *Slot) Count() uint32 {
	return s.count.Load()
}
