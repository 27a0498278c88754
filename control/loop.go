// Package control runs the sample -> duty -> output loop.
package control

import (
	"errors"

	"github.com/harveysanders/potdimmer/adc"
	"github.com/harveysanders/potdimmer/pwm"
)

var ErrAlreadyRunning = errors.New("control: already running")

// Sampler configures the converter and issues the first trigger.
type Sampler interface {
	Configure(cfg adc.Config) error
	Start(channel int) error
}

// Source yields the most recently published sample.
type Source interface {
	Snapshot() uint16
}

// Output is the PWM side of the loop.
type Output interface {
	Configure(period uint16) error
	SetDuty(duty uint32) error
}

// Observer is handed every applied frame. It runs on the loop's context and
// must not block.
type Observer interface {
	Observe(f Frame)
}

// Frame holds the values acted upon in one iteration.
type Frame struct {
	Sample uint16
	Duty   uint16
	Period uint16
}

type State uint8

const (
	Initializing State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	}
	return "unknown"
}

type Config struct {
	Period   uint16
	Sampling adc.Config
	// Idle, if set, is called between iterations of Run.
	Idle     func()
	Observer Observer
}

// Loop owns the sampler, sample source and output for the life of the
// program.
type Loop struct {
	sampler Sampler
	src     Source
	out     Output
	cfg     Config
	state   State
}

func New(sampler Sampler, src Source, out Output, cfg Config) *Loop {
	return &Loop{
		sampler: sampler,
		src:     src,
		out:     out,
		cfg:     cfg,
	}
}

func (l *Loop) State() State { return l.state }

// Init configures the sampler, then the output, then triggers the first
// conversion. On error the loop stays Initializing.
func (l *Loop) Init() error {
	if l.state == Running {
		return ErrAlreadyRunning
	}
	if err := l.sampler.Configure(l.cfg.Sampling); err != nil {
		return err
	}
	if err := l.out.Configure(l.cfg.Period); err != nil {
		return err
	}
	if err := l.sampler.Start(l.cfg.Sampling.Channel); err != nil {
		return err
	}
	l.state = Running
	return nil
}

// Step runs one iteration. The sample is read exactly once; a conversion
// completing mid-iteration is picked up by the next Step.
func (l *Loop) Step() (Frame, error) {
	s := l.src.Snapshot()
	f := Frame{
		Sample: s,
		Duty:   pwm.Scale(l.cfg.Period, s),
		Period: l.cfg.Period,
	}
	if err := l.out.SetDuty(uint32(f.Duty)); err != nil {
		return f, err
	}
	if l.cfg.Observer != nil {
		l.cfg.Observer.Observe(f)
	}
	return f, nil
}

// Run steps forever. A frame the output rejects is dropped.
func (l *Loop) Run() {
	if l.state != Running {
		panic("control: Run before Init")
	}
	for {
		l.Step()
		if l.cfg.Idle != nil {
			l.cfg.Idle()
		}
	}
}
