package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "potdimmer"

// Metrics exports observations as gauges labeled by source.
type Metrics struct {
	sample      *prometheus.GaugeVec
	duty        *prometheus.GaugeVec
	period      *prometheus.GaugeVec
	dutyRatio   *prometheus.GaugeVec
	voltage     *prometheus.GaugeVec
	conversions *prometheus.GaugeVec
	lastSeen    *prometheus.GaugeVec
	frames      *prometheus.CounterVec
	malformed   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"source"})
	}
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"source"})
	}
	m := &Metrics{
		sample:      gauge("sample", "Latest converter sample (0-65535)."),
		duty:        gauge("duty", "Latest PWM compare value."),
		period:      gauge("period", "PWM period in timer counts."),
		dutyRatio:   gauge("duty_ratio", "Latest duty as a fraction of the period."),
		voltage:     gauge("input_volts", "Potentiometer wiper voltage."),
		conversions: gauge("conversions", "Completed conversions reported by the board."),
		lastSeen:    gauge("last_seen_timestamp_seconds", "Unix time of the latest frame."),
		frames:      counter("frames_total", "Frames received."),
		malformed:   counter("malformed_lines_total", "Console lines that were not frames."),
	}
	reg.MustRegister(
		m.sample, m.duty, m.period, m.dutyRatio, m.voltage,
		m.conversions, m.lastSeen, m.frames, m.malformed,
	)
	return m
}

func (m *Metrics) Observe(o Observation) {
	src := o.Source
	m.sample.WithLabelValues(src).Set(float64(o.Frame.Sample))
	m.duty.WithLabelValues(src).Set(float64(o.Frame.Duty))
	m.period.WithLabelValues(src).Set(float64(o.Frame.Period))
	if o.Frame.Period > 0 {
		m.dutyRatio.WithLabelValues(src).Set(float64(o.Frame.Duty) / float64(o.Frame.Period))
	}
	m.voltage.WithLabelValues(src).Set(float64(o.Voltage))
	if o.HasConversions {
		m.conversions.WithLabelValues(src).Set(float64(o.Conversions))
	}
	m.lastSeen.WithLabelValues(src).Set(float64(o.At.UnixNano()) / 1e9)
	m.frames.WithLabelValues(src).Inc()
}

// Malformed counts a line from src that could not be parsed.
func (m *Metrics) Malformed(src string) {
	m.malformed.WithLabelValues(src).Inc()
}
