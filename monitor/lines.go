package monitor

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/harveysanders/potdimmer/console"
)

// LineSource reads console lines from R. Lines that are not frames, such
// as the firmware's log output, are counted and skipped.
type LineSource struct {
	Name string
	R    io.Reader
	Sink Sink
	Log  zerolog.Logger
	// Malformed is called for every line that is not a frame. Optional.
	Malformed func(source string)
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run reads until R is exhausted or ctx is canceled. When R is an io.Closer
// it is closed on cancellation to unblock the pending read.
func (s *LineSource) Run(ctx context.Context) error {
	now := s.Now
	if now == nil {
		now = time.Now
	}

	done := make(chan struct{})
	defer close(done)
	if c, ok := s.R.(io.Closer); ok {
		go func() {
			select {
			case <-ctx.Done():
				c.Close()
			case <-done:
			}
		}()
	}

	scanner := bufio.NewScanner(s.R)
	for scanner.Scan() {
		line := scanner.Text()
		f, err := console.ParseLine(line)
		if err != nil {
			s.Log.Debug().Str("line", line).Msg("Skipping non-frame line")
			if s.Malformed != nil {
				s.Malformed(s.Name)
			}
			continue
		}
		s.Sink.Observe(FromFrame(s.Name, now(), f))
	}
	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil {
		return maskAny(err)
	}
	return nil
}
