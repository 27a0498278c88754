package pico

import "sync/atomic"

// worker runs at most one goroutine at a time and is free again once it
// returns.
type worker struct {
	running atomic.Bool
}

// launch starts fn unless a previous launch is still running. It reports
// whether fn was started.
func (w *worker) launch(fn func()) bool {
	if !w.running.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer w.running.Store(false)
		fn()
	}()
	return true
}

func (w *worker) busy() bool {
	return w.running.Load()
}
