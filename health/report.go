package health

import (
	"log/slog"
	"time"

	"github.com/harveysanders/potdimmer/control"
)

// Forward returns a frame sink that checks the watchdog on every frame it
// is handed and logs status changes. Hang it off a decimating reporter so
// the check runs at the report rate, not the loop rate.
func (w *Watchdog) Forward(logger *slog.Logger) func(control.Frame) {
	return w.forward(logger, time.Now)
}

func (w *Watchdog) forward(logger *slog.Logger, now func() time.Time) func(control.Frame) {
	return func(control.Frame) {
		st, changed := w.Check(now())
		if !changed {
			return
		}
		count := slog.Uint64("conversions", uint64(w.last))
		if st == Stalled {
			logger.Error("adc:stalled", count, slog.Duration("window", w.window))
			return
		}
		logger.Info("adc:"+st.String(), count)
	}
}
