package sample

import (
	"sync"
	"testing"
)

func TestSlotResetValue(t *testing.T) {
	var s Slot
	if v := s.Snapshot(); v != 0 {
		t.Errorf("expected power-on value 0, got %d", v)
	}
	if c := s.Count(); c != 0 {
		t.Errorf("expected count 0, got %d", c)
	}
}

func TestSlotOverwrites(t *testing.T) {
	var s Slot
	s.Publish(100)
	s.Publish(Max)
	s.Publish(32768)
	if v := s.Snapshot(); v != 32768 {
		t.Errorf("expected latest value 32768, got %d", v)
	}
	if c := s.Count(); c != 3 {
		t.Errorf("expected 3 publishes, got %d", c)
	}
}

// A reader running against a writer must only ever see values that were
// published, never a mix of two.
func TestSlotNoTornReads(t *testing.T) {
	var s Slot
	const a, b = 0x00ff, 0xff00

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				s.Publish(a)
			} else {
				s.Publish(b)
			}
		}
	}()

	for i := 0; i < 100000; i++ {
		v := s.Snapshot()
		if v != 0 && v != a && v != b {
			close(stop)
			wg.Wait()
			t.Fatalf("read torn value %#x", v)
		}
	}
	close(stop)
	wg.Wait()
}

func TestVolts(t *testing.T) {
	if v := Volts(0); v != 0 {
		t.Errorf("Volts(0) = %v", v)
	}
	if v := Volts(Max); v != VRef {
		t.Errorf("Volts(Max) = %v, want %v", v, VRef)
	}
	if f := Fraction(32768); f < 0.49 || f > 0.51 {
		t.Errorf("Fraction(32768) = %v", f)
	}
}

func TestAverage(t *testing.T) {
	vals := []uint16{100, 200, 300, 400}
	i := 0
	read := func() uint16 {
		v := vals[i%len(vals)]
		i++
		return v
	}
	if got := Average(read, 4); got != 250 {
		t.Errorf("Average over 4 = %d, want 250", got)
	}
	if i != 4 {
		t.Errorf("expected 4 reads, got %d", i)
	}
	if got := Average(read, 0); got != 100 {
		t.Errorf("Average over 0 should take one read, got %d", got)
	}

	full := func() uint16 { return Max }
	if got := Average(full, 32); got != Max {
		t.Errorf("Average of full scale = %d", got)
	}
}
