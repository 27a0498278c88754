package adc

import "github.com/harveysanders/potdimmer/sample"

// Sampler owns ADC0. Configure and Start run once from the main context;
// HandleInterrupt runs in interrupt context for every completed conversion.
type Sampler struct {
	regs *Registers
	slot *sample.Slot

	configured bool
	channel    int
}

// NewSampler returns a sampler publishing into slot. Nothing is written to
// the hardware until Configure.
func NewSampler(r *Registers, slot *sample.Slot) *Sampler {
	return &Sampler{regs: r, slot: slot}
}

// Configure powers and programs the converter for 16-bit single-ended
// conversions on cfg.Channel and arms the completion interrupt. An invalid
// cfg is rejected before any register is written.
func (s *Sampler) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r := s.regs

	r.SCGC5.SetBits(portGate(cfg.Channel))
	r.SCGC6.SetBits(SIM_SCGC6_ADC0)

	// Low power, long sample time, 16 bit, asynchronous clock.
	r.CFG1.Set(CFG1_ADLPC | CFG1_ADLSMP | CFG1_MODE_16BIT | CFG1_ADICLK_ADACK)
	r.SC2.Set(0)
	// Any SC1A write is a software trigger. ADCH all ones disables the
	// module so nothing converts until Start selects the input.
	r.SC1A.Set(SC1_AIEN | SC1_ADCH_Disabled)

	var sc3 uint32
	if cfg.Continuous {
		sc3 |= SC3_ADCO
	}
	if cfg.Averaging {
		avgs, _ := averageSelect(cfg.SampleCount)
		sc3 |= SC3_AVGE | avgs<<SC3_AVGS_Pos
	}
	r.SC3.Set(sc3)

	// Analog function: all digital features of the pin are disabled.
	r.PCR[cfg.Channel].ReplaceBits(0, PCR_MUX_Msk, PCR_MUX_Pos)

	r.IRQ.SetPriority(IRQPriority)
	r.IRQ.ClearPending()
	r.IRQ.Enable()

	s.channel = cfg.Channel
	s.configured = true
	return nil
}

// Start selects the configured channel and triggers the first conversion.
// In continuous mode this is the only trigger ever issued.
func (s *Sampler) Start(channel int) error {
	code, err := SelectCode(channel)
	if err != nil {
		return err
	}
	if !s.configured {
		return ErrNotConfigured
	}
	if channel != s.channel {
		return ErrChannelMismatch
	}
	// The write to SC1A is the software trigger.
	s.regs.SC1A.ReplaceBits(uint32(code), SC1_ADCH_Msk, SC1_ADCH_Pos)
	return nil
}

// HandleInterrupt reads the result register, which also clears COCO, and
// publishes it.
func (s *Sampler) HandleInterrupt() {
	s.slot.Publish(uint16(s.regs.RA.Get()))
}

// Channel returns the configured channel and whether Configure succeeded.
func (s *Sampler) Channel() (int, bool) {
	return s.channel, s.configured
}
