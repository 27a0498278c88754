package display

import (
	"strings"
	"testing"

	"github.com/harveysanders/potdimmer/control"
)

type fakeScreen struct {
	x, y  uint8
	lines [Rows]string
	clear int
}

func (s *fakeScreen) ClearDisplay() {
	s.clear++
	s.lines = [Rows]string{}
}

func (s *fakeScreen) SetCursor(x, y uint8) { s.x, s.y = x, y }

func (s *fakeScreen) Print(data []byte) { s.lines[s.y] += string(data) }

func TestRender(t *testing.T) {
	testCases := []struct {
		frame        control.Frame
		line1, line2 string
	}{
		{control.Frame{Sample: 0, Duty: 0, Period: 256}, "V:0.00 0.0%", "S:0 D:0"},
		{control.Frame{Sample: 32768, Duty: 128, Period: 256}, "V:1.65 50.0%", "S:32768 D:128"},
		{control.Frame{Sample: 65535, Duty: 65535, Period: 65535}, "V:3.30 100.0%", "S:65535 D:65535"},
	}

	for _, tc := range testCases {
		msg := Render(tc.frame)
		if got := string(msg.Line1); got != tc.line1 {
			t.Errorf("%+v: line1 %q, want %q", tc.frame, got, tc.line1)
		}
		if got := string(msg.Line2); got != tc.line2 {
			t.Errorf("%+v: line2 %q, want %q", tc.frame, got, tc.line2)
		}
		if len(msg.Line1) > Columns || len(msg.Line2) > Columns {
			t.Errorf("%+v: rendered past %d columns", tc.frame, Columns)
		}
	}
}

func TestDisplayTruncates(t *testing.T) {
	var s fakeScreen
	h := NewHandler(&s, nil, nil)
	h.Display(Message{
		Line1: []byte(strings.Repeat("a", 20)),
		Line2: []byte("ok"),
	})
	if s.clear != 1 {
		t.Errorf("expected one clear, got %d", s.clear)
	}
	if s.lines[0] != strings.Repeat("a", Columns) {
		t.Errorf("line 1 not truncated: %q", s.lines[0])
	}
	if s.lines[1] != "ok" {
		t.Errorf("line 2 = %q", s.lines[1])
	}
}

func TestRunDrainsInOrder(t *testing.T) {
	var s fakeScreen
	msgs := make(chan Message, 3)
	Send(msgs, "one", "")
	Send(msgs, "two", "")
	close(msgs)

	h := NewHandler(&s, msgs, nil)
	h.Run()
	if h.Shown() != 2 {
		t.Fatalf("expected 2 messages shown, got %d", h.Shown())
	}
	if s.lines[0] != "two" {
		t.Errorf("last message not on screen: %q", s.lines[0])
	}
}

func TestSendDropsWhenFull(t *testing.T) {
	msgs := make(chan Message, 1)
	if !Send(msgs, "a", "b") {
		t.Fatal("first send should be queued")
	}
	if Send(msgs, "c", "d") {
		t.Error("second send should be dropped")
	}
	if Send(nil, "e", "f") {
		t.Error("send on nil channel should be dropped")
	}
}

func TestForward(t *testing.T) {
	msgs := make(chan Message, 1)
	fwd := Forward(msgs)
	fwd(control.Frame{Sample: 32768, Duty: 128, Period: 256})
	fwd(control.Frame{Sample: 1, Duty: 1, Period: 256})

	msg := <-msgs
	if string(msg.Line2) != "S:32768 D:128" {
		t.Errorf("unexpected forwarded message %q", msg.Line2)
	}
}
