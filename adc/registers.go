package adc

import "github.com/harveysanders/potdimmer/regs"

// Registers are the handles the sampler programs. SCGC5 and SCGC6 are shared
// with other drivers; only the sampler's own gate bits are touched.
type Registers struct {
	SCGC5 regs.Register // SIM_SCGC5, port clock gates
	SCGC6 regs.Register // SIM_SCGC6, ADC0 clock gate

	SC1A regs.Register
	CFG1 regs.Register
	SC2  regs.Register
	SC3  regs.Register
	RA   regs.Register

	// PCR holds the port control register of each header channel's pin,
	// indexed by channel.
	PCR [NumChannels]regs.Register

	IRQ regs.IRQ
}

// SIM clock gates.
const (
	SIM_SCGC5_PORTB = 1 << 10
	SIM_SCGC5_PORTC = 1 << 11
	SIM_SCGC6_ADC0  = 1 << 27
)

// SC1n
const (
	SC1_COCO     = 1 << 7
	SC1_AIEN     = 1 << 6
	SC1_DIFF     = 1 << 5
	SC1_ADCH_Msk = 0x1f
	SC1_ADCH_Pos = 0

	SC1_ADCH_Disabled = 0x1f
)

// CFG1
const (
	CFG1_ADLPC      = 1 << 7
	CFG1_ADIV_Pos   = 5
	CFG1_ADLSMP     = 1 << 4
	CFG1_MODE_Pos   = 2
	CFG1_MODE_16BIT = 3 << CFG1_MODE_Pos
	CFG1_ADICLK_Pos = 0
	// ADICLK(3) is the asynchronous clock ADACK.
	CFG1_ADICLK_ADACK = 3 << CFG1_ADICLK_Pos
)

// SC2. Zero selects software trigger, compare off, DMA off and the
// VREFH/VREFL reference.
const (
	SC2_ADTRG  = 1 << 6
	SC2_ACFE   = 1 << 5
	SC2_DMAEN  = 1 << 2
	SC2_REFSEL = 3
)

// SC3
const (
	SC3_ADCO     = 1 << 3
	SC3_AVGE     = 1 << 2
	SC3_AVGS_Msk = 0x3
	SC3_AVGS_Pos = 0
)

// PORTx_PCRn pin mux field. MUX 0 is the analog function.
const (
	PCR_MUX_Msk = 0x7
	PCR_MUX_Pos = 8
)

// IRQPriority is the NVIC priority the completion interrupt is armed with.
const IRQPriority = 0x80

// portGate returns the SIM_SCGC5 bit clocking the port of a channel's pin.
func portGate(channel int) uint32 {
	if channel < 4 {
		return SIM_SCGC5_PORTB
	}
	return SIM_SCGC5_PORTC
}
