// Package adc drives the KL25Z ADC0 converter as an interrupt-driven sampler
// that publishes every completed conversion into a sample.Slot.
//
// Reference: KL25 Sub-Family Reference Manual (KL25P80M48SF0RM), chapter 28.
package adc

import "errors"

var (
	ErrInvalidChannel     = errors.New("adc: invalid channel")
	ErrInvalidSampleCount = errors.New("adc: invalid sample count")
	ErrNotConfigured      = errors.New("adc: not configured")
	ErrChannelMismatch    = errors.New("adc: channel differs from configured channel")
)

// NumChannels is the number of analog inputs broken out on the board header
// (A0-A5).
const NumChannels = 6

// Config selects the input and conversion mode. SampleCount is the hardware
// averaging depth: 4, 8, 16 or 32 with Averaging set, and 0 (or any of the
// depths, which is then ignored) without it.
type Config struct {
	Channel     int
	Continuous  bool
	Averaging   bool
	SampleCount int
}

// Validate reports why the configuration would be rejected, or nil.
func (c Config) Validate() error {
	if c.Channel < 0 || c.Channel >= NumChannels {
		return ErrInvalidChannel
	}
	if c.SampleCount == 0 {
		if c.Averaging {
			return ErrInvalidSampleCount
		}
		return nil
	}
	if _, ok := averageSelect(c.SampleCount); !ok {
		return ErrInvalidSampleCount
	}
	return nil
}

// selectCodes maps a header channel to its ADCH input select value. The
// header pins are wired to non-consecutive converter inputs.
var selectCodes = [NumChannels]uint8{
	0: 0x8, // A0 ADC0_SE8  PTB0
	1: 0x9, // A1 ADC0_SE9  PTB1
	2: 0xC, // A2 ADC0_SE12 PTB2
	3: 0xD, // A3 ADC0_SE13 PTB3
	4: 0xB, // A4 ADC0_SE11 PTC2
	5: 0xF, // A5 ADC0_SE15 PTC1
}

// SelectCode returns the ADCH value for a header channel.
func SelectCode(channel int) (uint8, error) {
	if channel < 0 || channel >= NumChannels {
		return 0, ErrInvalidChannel
	}
	return selectCodes[channel], nil
}

// averageSelect maps an averaging depth to its SC3.AVGS encoding.
func averageSelect(samples int) (uint32, bool) {
	switch samples {
	case 4:
		return 0, true
	case 8:
		return 1, true
	case 16:
		return 2, true
	case 32:
		return 3, true
	}
	return 0, false
}
