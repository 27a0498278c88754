// Package health watches the conversion counter for a converter that has
// stopped, or never started, completing conversions.
package health

import "time"

// Counter is satisfied by *sample.Slot.
type Counter interface {
	Count() uint32
}

type Status uint8

const (
	// Waiting means no conversion has completed yet but the window has not
	// run out.
	Waiting Status = iota
	Healthy
	Stalled
)

func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Healthy:
		return "healthy"
	case Stalled:
		return "stalled"
	}
	return "unknown"
}

// Watchdog reports Stalled once the counter has not moved for a full window.
// It is polled, not timer driven: Check is called with the current time from
// whatever context already runs periodically.
type Watchdog struct {
	c      Counter
	window time.Duration

	started    bool
	last       uint32
	lastChange time.Time
	status     Status
}

func NewWatchdog(c Counter, window time.Duration) *Watchdog {
	return &Watchdog{c: c, window: window}
}

// Check samples the counter and returns the status along with whether it
// differs from the previous Check.
func (w *Watchdog) Check(now time.Time) (Status, bool) {
	n := w.c.Count()
	prev := w.status
	switch {
	case !w.started:
		w.started = true
		w.last = n
		w.lastChange = now
		if n == 0 {
			w.status = Waiting
		} else {
			w.status = Healthy
		}
	case n != w.last:
		w.last = n
		w.lastChange = now
		w.status = Healthy
	case now.Sub(w.lastChange) >= w.window:
		w.status = Stalled
	}
	return w.status, w.status != prev
}

// Status returns the result of the last Check.
func (w *Watchdog) Status() Status {
	return w.status
}
