package health

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/harveysanders/potdimmer/control"
)

type counter uint32

func (c *counter) Count() uint32 { return uint32(*c) }

func TestWatchdog(t *testing.T) {
	var c counter
	w := NewWatchdog(&c, time.Second)
	t0 := time.Unix(1000, 0)

	steps := []struct {
		at      time.Duration
		count   uint32
		want    Status
		changed bool
	}{
		{0, 0, Waiting, false},
		{500 * time.Millisecond, 0, Waiting, false},
		{time.Second, 0, Stalled, true},
		{1500 * time.Millisecond, 5, Healthy, true},
		{2 * time.Second, 9, Healthy, false},
		{2900 * time.Millisecond, 9, Healthy, false},
		{3 * time.Second, 9, Stalled, true},
		{4 * time.Second, 9, Stalled, false},
		// The counter wraps; any change counts as progress.
		{5 * time.Second, 0, Healthy, true},
	}

	for i, s := range steps {
		c = counter(s.count)
		got, changed := w.Check(t0.Add(s.at))
		if got != s.want || changed != s.changed {
			t.Errorf("step %d: expected %s (changed=%v), got %s (changed=%v)", i, s.want, s.changed, got, changed)
		}
	}
	if w.Status() != Healthy {
		t.Errorf("Status expected healthy, got %s", w.Status())
	}
}

func TestWatchdogStartsHealthy(t *testing.T) {
	c := counter(42)
	w := NewWatchdog(&c, time.Second)
	if got, changed := w.Check(time.Unix(0, 0)); got != Healthy || !changed {
		t.Errorf("expected healthy on first check with conversions, got %s changed=%v", got, changed)
	}
}

func TestForwardLogsChanges(t *testing.T) {
	var c counter
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	t0 := time.Unix(1000, 0)
	now := t0
	w := NewWatchdog(&c, time.Second)
	fwd := w.forward(logger, func() time.Time { return now })

	fwd(control.Frame{})
	if buf.Len() != 0 {
		t.Fatalf("nothing should be logged while waiting, got %q", buf.String())
	}

	c = 3
	fwd(control.Frame{})
	if !strings.Contains(buf.String(), "msg=adc:healthy") || !strings.Contains(buf.String(), "conversions=3") {
		t.Errorf("expected healthy transition, got %q", buf.String())
	}

	buf.Reset()
	fwd(control.Frame{})
	if buf.Len() != 0 {
		t.Errorf("unchanged status logged: %q", buf.String())
	}

	now = t0.Add(2 * time.Second)
	fwd(control.Frame{})
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "msg=adc:stalled") {
		t.Errorf("expected stall error, got %q", buf.String())
	}
}
