package sample

// VRef is the converter reference on both boards.
const VRef float32 = 3.3

// Fraction returns s as a share of full scale in [0, 1].
func Fraction(s uint16) float32 {
	return float32(s) / float32(Max)
}

// Volts converts s to the input voltage against VRef.
func Volts(s uint16) float32 {
	return Fraction(s) * VRef
}

// Average reads n samples and returns their mean. It is the software
// stand-in for hardware averaging on converters without it.
func Average(read func() uint16, n int) uint16 {
	if n <= 1 {
		return read()
	}
	var sum uint32
	for i := 0; i < n; i++ {
		sum += uint32(read())
	}
	return uint16(sum / uint32(n))
}
