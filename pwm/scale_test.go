package pwm

import "testing"

func TestScaleBoundaries(t *testing.T) {
	for _, period := range []uint16{1, 2, 255, 256, 1000, 48000, 65534, 65535} {
		if got := Scale(period, 0); got != 0 {
			t.Errorf("Scale(%d, 0) = %d, expected 0", period, got)
		}
		if got := Scale(period, 65535); got != period {
			t.Errorf("Scale(%d, 65535) = %d, expected %d", period, got, period)
		}
	}
}

func TestScaleRangeAndMonotonic(t *testing.T) {
	for _, period := range []uint16{1, 3, 256, 1000, 65535} {
		prev := uint16(0)
		for s := 0; s <= 65535; s++ {
			got := Scale(period, uint16(s))
			if got > period {
				t.Fatalf("Scale(%d, %d) = %d exceeds period", period, s, got)
			}
			if got < prev {
				t.Fatalf("Scale(%d, %d) = %d decreased from %d", period, s, got, prev)
			}
			prev = got
		}
	}
}

// Integer scaling must stay within one count of the floating point identity.
func TestScaleMatchesFloat(t *testing.T) {
	testCases := []struct {
		period, sample uint16
	}{
		{256, 32768},
		{256, 1},
		{256, 65534},
		{1000, 12345},
		{48000, 40000},
		{65535, 32767},
	}

	for _, tc := range testCases {
		want := int(float64(tc.period) * (float64(tc.sample) / 65535))
		got := int(Scale(tc.period, tc.sample))
		if d := got - want; d < -1 || d > 1 {
			t.Errorf("Scale(%d, %d) = %d, float gives %d", tc.period, tc.sample, got, want)
		}
	}
}

func TestScaleHalfScale(t *testing.T) {
	if got := Scale(256, 32768); got != 128 {
		t.Errorf("expected 128, got %d", got)
	}
}

func TestToTop(t *testing.T) {
	testCases := []struct {
		duty, period uint16
		top          uint32
		want         uint32
	}{
		{0, 256, 62499, 0},
		{128, 256, 62500, 31250},
		{256, 256, 62499, 62499},
		{300, 256, 62499, 62499},
		{65535, 65535, 0xffff, 0xffff},
		{1, 0, 1000, 0},
	}

	for _, tc := range testCases {
		if got := ToTop(tc.duty, tc.period, tc.top); got != tc.want {
			t.Errorf("ToTop(%d, %d, %d) = %d, want %d", tc.duty, tc.period, tc.top, got, tc.want)
		}
	}
}
