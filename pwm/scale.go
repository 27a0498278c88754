package pwm

import "github.com/harveysanders/potdimmer/sample"

// Scale maps a full-range sample onto 0..period:
//
//	duty = floor(period * sample / 65535)
//
// The product of two uint16 values always fits in 32 bits.
func Scale(period, s uint16) uint16 {
	return uint16(uint32(period) * uint32(s) / sample.Max)
}

// ToTop rescales a duty expressed against period onto a counter whose wrap
// value is top, for timers configured by frequency rather than by count.
// Duties above period saturate at top.
func ToTop(duty, period uint16, top uint32) uint32 {
	if period == 0 {
		return 0
	}
	v := uint64(duty) * uint64(top) / uint64(period)
	if v > uint64(top) {
		return top
	}
	return uint32(v)
}
