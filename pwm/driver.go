// Package pwm drives one edge-aligned output channel of the KL25Z TPM0 timer
// and scales samples into duty values for it.
package pwm

import "errors"

var (
	ErrInvalidPeriod     = errors.New("pwm: period must be positive")
	ErrAlreadyConfigured = errors.New("pwm: already configured")
	ErrNotConfigured     = errors.New("pwm: not configured")
	ErrDutyOutOfRange    = errors.New("pwm: duty out of range")
)

// MaxDuty is the widest value the compare register holds.
const MaxDuty = 0xffff

// Driver owns TPM0 and its output pin.
type Driver struct {
	regs   *Registers
	period uint16
}

// NewDriver returns a driver for r. Nothing is written until Configure.
func NewDriver(r *Registers) *Driver {
	return &Driver{regs: r}
}

// Configure starts the timer with a cycle of period counts and the output at
// 0% duty. It may only be called once.
func (d *Driver) Configure(period uint16) error {
	if period == 0 {
		return ErrInvalidPeriod
	}
	if d.period != 0 {
		return ErrAlreadyConfigured
	}
	r := d.regs

	r.SCGC5.SetBits(SIM_SCGC5_PORTD)
	r.SCGC6.SetBits(SIM_SCGC6_TPM0)

	r.PCR.ReplaceBits(PCR_MUX_TPM, PCR_MUX_Msk, PCR_MUX_Pos)

	r.SOPT2.ReplaceBits(1, SIM_SOPT2_TPMSRC_Msk, SIM_SOPT2_TPMSRC_Pos)
	r.SOPT2.SetBits(SIM_SOPT2_PLLFLLSEL)

	// The counter wraps after MOD, so MOD+1 counts make one cycle.
	r.MOD.Set(uint32(period) - 1)
	// Counter disabled, up-counting, divide by 1.
	r.SC.Set(0)
	r.CONF.SetBits(CONF_DBGMODE_RUN)
	r.CnSC.Set(CnSC_MSB | CnSC_ELSB)
	r.CnV.Set(0)
	r.SC.SetBits(SC_CMOD_CLOCK)

	d.period = period
	return nil
}

// SetDuty writes the compare value. Only the register width is checked:
// a duty above Period keeps the output active for the whole cycle.
func (d *Driver) SetDuty(duty uint32) error {
	if d.period == 0 {
		return ErrNotConfigured
	}
	if duty > MaxDuty {
		return ErrDutyOutOfRange
	}
	d.regs.CnV.Set(duty)
	return nil
}

// Period returns the configured cycle length, 0 before Configure.
func (d *Driver) Period() uint16 {
	return d.period
}
