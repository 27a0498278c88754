package telemetry

import (
	"time"

	"github.com/harveysanders/potdimmer/control"
	"github.com/harveysanders/potdimmer/sample"
)

// Reading is one published dimmer state.
type Reading struct {
	Sample      uint16        `json:"sample"`
	Duty        uint16        `json:"duty"`
	Period      uint16        `json:"period"`
	Conversions uint32        `json:"conversions"`
	Voltage     float32       `json:"voltage"`
	SinceBootNS time.Duration `json:"since_boot_ns"`
}

// Counter reports completed conversions.
type Counter interface {
	Count() uint32
}

// Sampler turns frames into readings.
type Sampler struct {
	Conversions Counter
	Boot        time.Time
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Sampler) Reading(f control.Frame) Reading {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	r := Reading{
		Sample:      f.Sample,
		Duty:        f.Duty,
		Period:      f.Period,
		Voltage:     sample.Volts(f.Sample),
		SinceBootNS: now().Sub(s.Boot),
	}
	if s.Conversions != nil {
		r.Conversions = s.Conversions.Count()
	}
	return r
}

// Offer queues r without blocking and reports whether it was queued. The
// control loop must never wait on the network.
func Offer(ch chan<- Reading, r Reading) bool {
	select {
	case ch <- r:
		return true
	default:
		return false
	}
}

// Forward returns a frame sink that queues a reading per frame on ch.
func (s *Sampler) Forward(ch chan<- Reading) func(control.Frame) {
	return func(f control.Frame) {
		Offer(ch, s.Reading(f))
	}
}
