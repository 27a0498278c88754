package pico

import (
	"testing"
	"time"
)

func waitIdle(t *testing.T, w *worker) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for w.busy() {
		if time.Now().After(deadline) {
			t.Fatal("worker still busy")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWorkerSingleInstance(t *testing.T) {
	var w worker
	release := make(chan struct{})
	if !w.launch(func() { <-release }) {
		t.Fatal("first launch should start")
	}
	if w.launch(func() { t.Error("second instance ran") }) {
		t.Error("launch while running should be refused")
	}
	close(release)
	waitIdle(t, &w)
}

func TestWorkerRelaunchAfterReturn(t *testing.T) {
	var w worker
	runs := make(chan int, 2)
	for i := 1; i <= 2; i++ {
		if !w.launch(func() { runs <- i }) {
			t.Fatalf("launch %d refused", i)
		}
		select {
		case got := <-runs:
			if got != i {
				t.Errorf("run %d reported %d", i, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("run %d never happened", i)
		}
		waitIdle(t, &w)
	}
}
