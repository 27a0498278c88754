//go:build rp2040 || rp2350

// Package pico runs the dimmer loop on RP2040/RP2350 boards through the
// TinyGo machine package. The converter has no completion interrupt or
// hardware averaging, so a goroutine plays the interrupt's part.
package pico

import (
	"machine"
	"runtime"
	"time"

	"github.com/harveysanders/potdimmer/adc"
	"github.com/harveysanders/potdimmer/pwm"
	"github.com/harveysanders/potdimmer/sample"
)

// Header pins for channels 0-2. GP29 (ADC3) measures VSYS on the Pico W and
// is not exposed.
var channelPins = [...]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2}

// Sampler converts one channel in a goroutine and publishes every result to
// a slot.
type Sampler struct {
	slot   *sample.Slot
	cfg    adc.Config
	sensor machine.ADC
	ready  bool
	conv   worker
}

func NewSampler(slot *sample.Slot) *Sampler {
	return &Sampler{slot: slot}
}

func (s *Sampler) Configure(cfg adc.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Channel >= len(channelPins) {
		return adc.ErrInvalidChannel
	}
	machine.InitADC()
	s.sensor = machine.ADC{Pin: channelPins[cfg.Channel]}
	s.sensor.Configure(machine.ADCConfig{})
	s.cfg = cfg
	s.ready = true
	return nil
}

// Start launches the conversion goroutine. In single-shot mode it publishes
// one result and exits, and the next Start converts again.
func (s *Sampler) Start(channel int) error {
	if channel < 0 || channel >= len(channelPins) {
		return adc.ErrInvalidChannel
	}
	if !s.ready {
		return adc.ErrNotConfigured
	}
	if channel != s.cfg.Channel {
		return adc.ErrChannelMismatch
	}
	// Already converting in continuous mode: nothing to do. A finished
	// single shot is started again.
	s.conv.launch(s.convert)
	return nil
}

func (s *Sampler) convert() {
	n := 1
	if s.cfg.Averaging {
		n = s.cfg.SampleCount
	}
	for {
		s.slot.Publish(sample.Average(s.sensor.Get, n))
		if !s.cfg.Continuous {
			return
		}
		runtime.Gosched()
	}
}

// PWM is the method set shared by the machine.PWMx slices.
type PWM interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// Output drives one PWM pin. The slice runs at Frequency and the loop's
// period is mapped onto the slice's counter.
type Output struct {
	PWM       PWM
	Pin       machine.Pin
	Frequency uint64 // Hz

	ch     uint8
	period uint16
}

func (o *Output) Configure(period uint16) error {
	if period == 0 {
		return pwm.ErrInvalidPeriod
	}
	if o.period != 0 {
		return pwm.ErrAlreadyConfigured
	}
	freq := o.Frequency
	if freq == 0 {
		freq = 500
	}
	err := o.PWM.Configure(machine.PWMConfig{
		Period: uint64(time.Second) / freq,
	})
	if err != nil {
		return err
	}
	ch, err := o.PWM.Channel(o.Pin)
	if err != nil {
		return err
	}
	o.ch = ch
	o.period = period
	o.PWM.Set(o.ch, 0)
	return nil
}

func (o *Output) SetDuty(duty uint32) error {
	if o.period == 0 {
		return pwm.ErrNotConfigured
	}
	if duty > pwm.MaxDuty {
		return pwm.ErrDutyOutOfRange
	}
	o.PWM.Set(o.ch, pwm.ToTop(uint16(duty), o.period, o.PWM.Top()))
	return nil
}

// Heartbeat toggles pin every interval, forever.
func Heartbeat(pin machine.Pin, interval time.Duration) {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		pin.High()
		time.Sleep(interval)
		pin.Low()
		time.Sleep(interval)
	}
}
