package console

import (
	"io"

	"github.com/harveysanders/potdimmer/control"
)

// Reporter is a control.Observer that passes on one frame out of every
// Every. The selected frame is written to W as a console line and handed to
// each Forward function. Forward functions must not block.
type Reporter struct {
	W       io.Writer
	Every   uint32
	Forward []func(control.Frame)

	n         uint32
	buf       []byte
	writeErrs uint32
}

func NewReporter(w io.Writer, every uint32, forward ...func(control.Frame)) *Reporter {
	if every == 0 {
		every = 1
	}
	return &Reporter{
		W:       w,
		Every:   every,
		Forward: forward,
		buf:     make([]byte, 0, 48),
	}
}

func (r *Reporter) Observe(f control.Frame) {
	r.n++
	if r.n < r.Every {
		return
	}
	r.n = 0
	if r.W != nil {
		r.buf = AppendFrame(r.buf[:0], f)
		// Best effort: a failed console write never stops the loop.
		if _, err := r.W.Write(r.buf); err != nil {
			r.writeErrs++
		}
	}
	for _, fwd := range r.Forward {
		fwd(f)
	}
}

// WriteErrors is the number of console lines that failed to write.
func (r *Reporter) WriteErrors() uint32 { return r.writeErrs }
