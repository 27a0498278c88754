package pwm

import "github.com/harveysanders/potdimmer/regs"

// Registers are the TPM0 handles the driver programs, plus the shared SIM
// and port registers it needs for clocking and pin mux.
type Registers struct {
	SCGC5 regs.Register // SIM_SCGC5, port clock gates
	SCGC6 regs.Register // SIM_SCGC6, TPM0 clock gate
	SOPT2 regs.Register // SIM_SOPT2, TPM clock source

	// PCR is the port control register of the output pin.
	PCR regs.Register

	SC   regs.Register
	MOD  regs.Register
	CONF regs.Register
	CnSC regs.Register // status and control of the output channel
	CnV  regs.Register // compare value of the output channel
}

const (
	SIM_SCGC5_PORTD = 1 << 12
	SIM_SCGC6_TPM0  = 1 << 24

	SIM_SOPT2_TPMSRC_Pos = 24
	SIM_SOPT2_TPMSRC_Msk = 0x3
	// TPMSRC(1) clocks the TPMs from MCGFLLCLK, or MCGPLLCLK/2 with
	// PLLFLLSEL set.
	SIM_SOPT2_TPMSRC_PLLFLL = 1 << SIM_SOPT2_TPMSRC_Pos
	SIM_SOPT2_PLLFLLSEL     = 1 << 16
)

// TPMx_SC
const (
	SC_TOF      = 1 << 7
	SC_TOIE     = 1 << 6
	SC_CPWMS    = 1 << 5
	SC_CMOD_Pos = 3
	SC_CMOD_Msk = 0x3
	// CMOD(1) increments the counter on every TPM clock.
	SC_CMOD_CLOCK = 1 << SC_CMOD_Pos
	SC_PS_Msk     = 0x7
)

// TPMx_CONF
const (
	CONF_DBGMODE_Pos = 6
	// DBGMODE(3) keeps the counter running while the core is halted.
	CONF_DBGMODE_RUN = 3 << CONF_DBGMODE_Pos
)

// TPMx_CnSC. MSB with ELSB selects edge-aligned, high-true PWM.
const (
	CnSC_CHF  = 1 << 7
	CnSC_CHIE = 1 << 6
	CnSC_MSB  = 1 << 5
	CnSC_MSA  = 1 << 4
	CnSC_ELSB = 1 << 3
	CnSC_ELSA = 1 << 2
)

// PORTx_PCRn pin mux field. On PTD1, ALT4 is TPM0_CH1.
const (
	PCR_MUX_Msk = 0x7
	PCR_MUX_Pos = 8
	PCR_MUX_TPM = 4
)
