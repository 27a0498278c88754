// Package monitor collects dimmer frames on a host, from the firmware's
// serial console or from its MQTT telemetry, and exports them as Prometheus
// metrics.
package monitor

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/harveysanders/potdimmer/control"
	"github.com/harveysanders/potdimmer/sample"
	"github.com/harveysanders/potdimmer/telemetry"
)

// Observation is one frame seen by a source.
type Observation struct {
	Source string        `json:"source"`
	At     time.Time     `json:"at"`
	Frame  control.Frame `json:"frame"`
	// Voltage is derived from the sample when the source does not report it.
	Voltage float32 `json:"voltage"`
	// Conversions is only known for telemetry sources.
	Conversions    uint32        `json:"conversions,omitempty"`
	HasConversions bool          `json:"-"`
	SinceBoot      time.Duration `json:"since_boot,omitempty"`
}

// FromFrame builds an observation for a source that only reports frames.
func FromFrame(source string, at time.Time, f control.Frame) Observation {
	return Observation{
		Source:  source,
		At:      at,
		Frame:   f,
		Voltage: sample.Volts(f.Sample),
	}
}

// DecodeReading parses a telemetry payload.
func DecodeReading(source string, at time.Time, payload []byte) (Observation, error) {
	var r telemetry.Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		return Observation{}, maskAny(err)
	}
	return Observation{
		Source:         source,
		At:             at,
		Frame:          control.Frame{Sample: r.Sample, Duty: r.Duty, Period: r.Period},
		Voltage:        r.Voltage,
		Conversions:    r.Conversions,
		HasConversions: true,
		SinceBoot:      r.SinceBootNS,
	}, nil
}

// Sink receives observations. Implementations must be safe for concurrent
// use; every source calls it from its own goroutine.
type Sink interface {
	Observe(o Observation)
}

// Latest keeps the most recent observation per source.
type Latest struct {
	mutex sync.Mutex
	last  map[string]Observation
}

func NewLatest() *Latest {
	return &Latest{last: make(map[string]Observation)}
}

func (l *Latest) Observe(o Observation) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.last[o.Source] = o
}

// Snapshot returns a copy of the latest observations, keyed by source.
func (l *Latest) Snapshot() map[string]Observation {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	result := make(map[string]Observation, len(l.last))
	for k, v := range l.last {
		result[k] = v
	}
	return result
}

// Fanout passes every observation to each sink in order.
type Fanout []Sink

func (f Fanout) Observe(o Observation) {
	for _, s := range f {
		s.Observe(o)
	}
}
