//go:build mkl25z4

// Package kl25z maps the FRDM-KL25Z peripherals used by the dimmer onto
// register handles and owns the ADC0 interrupt vector.
package kl25z

import (
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"github.com/harveysanders/potdimmer/adc"
	"github.com/harveysanders/potdimmer/pwm"
	"github.com/harveysanders/potdimmer/regs"
)

// MKL25Z4 memory map
const (
	simBase  = 0x40047000
	simSOPT2 = simBase + 0x1004
	simSCGC5 = simBase + 0x1038
	simSCGC6 = simBase + 0x103C

	portBBase = 0x4004A000
	portCBase = 0x4004B000
	portDBase = 0x4004C000

	adc0Base = 0x4003B000
	adc0SC1A = adc0Base + 0x00
	adc0CFG1 = adc0Base + 0x08
	adc0RA   = adc0Base + 0x10
	adc0SC2  = adc0Base + 0x20
	adc0SC3  = adc0Base + 0x24

	tpm0Base = 0x40038000
	tpm0SC   = tpm0Base + 0x00
	tpm0MOD  = tpm0Base + 0x08
	tpm0C1SC = tpm0Base + 0x14
	tpm0C1V  = tpm0Base + 0x18
	tpm0CONF = tpm0Base + 0x84

	nvicISER = 0xE000E100
	nvicICPR = 0xE000E280
	nvicIPR  = 0xE000E400
)

// IRQ_ADC0 is the ADC0 line on the NVIC.
const IRQ_ADC0 = 15

// PWMPin is PTD1, TPM0 channel 1 (ALT4), wired to the blue LED.
const PWMPin = 1

func reg(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

func pcr(portBase uintptr, pin uint8) *volatile.Register32 {
	return reg(portBase + uintptr(pin)*4)
}

// ADCRegisters returns ADC0 with the analog header pins A0-A5.
func ADCRegisters() *adc.Registers {
	return &adc.Registers{
		SCGC5: reg(simSCGC5),
		SCGC6: reg(simSCGC6),
		SC1A:  reg(adc0SC1A),
		CFG1:  reg(adc0CFG1),
		SC2:   reg(adc0SC2),
		SC3:   reg(adc0SC3),
		RA:    reg(adc0RA),
		PCR: [adc.NumChannels]regs.Register{
			pcr(portBBase, 0), // A0
			pcr(portBBase, 1), // A1
			pcr(portBBase, 2), // A2
			pcr(portBBase, 3), // A3
			pcr(portCBase, 2), // A4
			pcr(portCBase, 1), // A5
		},
		IRQ: regs.IRQ{
			Num:  IRQ_ADC0,
			ISER: reg(nvicISER),
			ICPR: reg(nvicICPR),
			IPR:  reg(nvicIPR + (IRQ_ADC0/4)*4),
		},
	}
}

// PWMRegisters returns TPM0 channel 1 driving PWMPin.
func PWMRegisters() *pwm.Registers {
	return &pwm.Registers{
		SCGC5: reg(simSCGC5),
		SCGC6: reg(simSCGC6),
		SOPT2: reg(simSOPT2),
		PCR:   pcr(portDBase, PWMPin),
		SC:    reg(tpm0SC),
		MOD:   reg(tpm0MOD),
		CONF:  reg(tpm0CONF),
		CnSC:  reg(tpm0C1SC),
		CnV:   reg(tpm0C1V),
	}
}

var adcSampler *adc.Sampler

// InstallADC routes the ADC0 conversion complete interrupt to s. Call it
// before s.Configure arms the line.
func InstallADC(s *adc.Sampler) {
	adcSampler = s
	interrupt.New(IRQ_ADC0, handleADC0)
}

func handleADC0(interrupt.Interrupt) {
	if adcSampler != nil {
		adcSampler.HandleInterrupt()
	}
}
