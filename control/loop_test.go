package control

import (
	"errors"
	"testing"

	"github.com/harveysanders/potdimmer/adc"
	"github.com/harveysanders/potdimmer/pwm"
	"github.com/harveysanders/potdimmer/regs"
	"github.com/harveysanders/potdimmer/sample"
)

type fakeSampler struct {
	calls        []string
	configureErr error
	startErr     error
}

func (f *fakeSampler) Configure(cfg adc.Config) error {
	f.calls = append(f.calls, "sampler.configure")
	return f.configureErr
}

func (f *fakeSampler) Start(channel int) error {
	f.calls = append(f.calls, "sampler.start")
	return f.startErr
}

type fakeOutput struct {
	calls  *[]string
	duties []uint32
	err    error
	// onSet runs inside SetDuty, standing in for an interrupt that fires
	// while the iteration is still in progress.
	onSet func()
}

func (f *fakeOutput) Configure(period uint16) error {
	if f.calls != nil {
		*f.calls = append(*f.calls, "output.configure")
	}
	return nil
}

func (f *fakeOutput) SetDuty(duty uint32) error {
	if f.err != nil {
		return f.err
	}
	f.duties = append(f.duties, duty)
	if f.onSet != nil {
		f.onSet()
	}
	return nil
}

type recorder struct {
	frames []Frame
}

func (r *recorder) Observe(f Frame) { r.frames = append(r.frames, f) }

func TestInitOrder(t *testing.T) {
	s := &fakeSampler{}
	out := &fakeOutput{calls: &s.calls}
	l := New(s, new(sample.Slot), out, Config{Period: 256})

	if l.State() != Initializing {
		t.Fatalf("expected initializing, got %s", l.State())
	}
	if err := l.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	want := []string{"sampler.configure", "output.configure", "sampler.start"}
	if len(s.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, s.calls)
	}
	for i := range want {
		if s.calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], s.calls[i])
		}
	}
	if l.State() != Running {
		t.Errorf("expected running, got %s", l.State())
	}
	if err := l.Init(); err != ErrAlreadyRunning {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestInitFailureStaysInitializing(t *testing.T) {
	s := &fakeSampler{configureErr: adc.ErrInvalidChannel}
	l := New(s, new(sample.Slot), &fakeOutput{}, Config{Period: 256})

	if err := l.Init(); err != adc.ErrInvalidChannel {
		t.Fatalf("expected ErrInvalidChannel, got %v", err)
	}
	if l.State() != Initializing {
		t.Errorf("expected initializing after failure, got %s", l.State())
	}

	defer func() {
		if recover() == nil {
			t.Error("Run before a successful Init did not panic")
		}
	}()
	l.Run()
}

func TestStep(t *testing.T) {
	slot := new(sample.Slot)
	out := &fakeOutput{}
	rec := &recorder{}
	l := New(&fakeSampler{}, slot, out, Config{Period: 1000, Observer: rec})

	testCases := []struct {
		sample uint16
		duty   uint16
	}{
		{0, 0},
		{65535, 1000},
		{32768, 500},
		{6554, 100},
	}

	for _, tc := range testCases {
		slot.Publish(tc.sample)
		f, err := l.Step()
		if err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		if f.Sample != tc.sample || f.Duty != tc.duty || f.Period != 1000 {
			t.Errorf("sample %d: got frame %+v, expected duty %d", tc.sample, f, tc.duty)
		}
		if last := out.duties[len(out.duties)-1]; last != uint32(tc.duty) {
			t.Errorf("sample %d: output got %d, expected %d", tc.sample, last, tc.duty)
		}
	}
	if len(rec.frames) != len(testCases) {
		t.Errorf("observer saw %d frames, expected %d", len(rec.frames), len(testCases))
	}
}

func TestStepOutputError(t *testing.T) {
	errBoom := errors.New("boom")
	rec := &recorder{}
	l := New(&fakeSampler{}, new(sample.Slot), &fakeOutput{err: errBoom}, Config{Period: 256, Observer: rec})

	if _, err := l.Step(); err != errBoom {
		t.Errorf("expected output error, got %v", err)
	}
	if len(rec.frames) != 0 {
		t.Error("observer saw a dropped frame")
	}
}

// A conversion published while an iteration is running must not change the
// frame that iteration reports.
func TestStepReadsSampleOnce(t *testing.T) {
	slot := new(sample.Slot)
	slot.Publish(10000)
	out := &fakeOutput{onSet: func() { slot.Publish(60000) }}
	rec := &recorder{}
	l := New(&fakeSampler{}, slot, out, Config{Period: 256, Observer: rec})

	f, err := l.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	want := Frame{Sample: 10000, Duty: pwm.Scale(256, 10000), Period: 256}
	if f != want || rec.frames[0] != want {
		t.Errorf("expected %+v, got %+v (observed %+v)", want, f, rec.frames[0])
	}

	f, _ = l.Step()
	if f.Sample != 60000 {
		t.Errorf("next iteration expected the new sample 60000, got %d", f.Sample)
	}
}

func newBoard() (*adc.Registers, *regs.Mem, *pwm.Registers, *regs.Mem) {
	mem := func() *regs.Mem { return regs.NewMem(0) }
	ra := mem()
	ar := &adc.Registers{
		SCGC5: mem(), SCGC6: mem(),
		SC1A: regs.NewMem(0x1f), CFG1: mem(), SC2: mem(), SC3: mem(), RA: ra,
		IRQ: regs.IRQ{Num: 15, ISER: mem(), ICPR: mem(), IPR: mem()},
	}
	for i := range ar.PCR {
		ar.PCR[i] = mem()
	}
	cnv := mem()
	pr := &pwm.Registers{
		SCGC5: ar.SCGC5, SCGC6: ar.SCGC6, SOPT2: mem(), PCR: mem(),
		SC: mem(), MOD: mem(), CONF: mem(), CnSC: mem(), CnV: cnv,
	}
	return ar, ra, pr, cnv
}

func TestEndToEnd(t *testing.T) {
	ar, ra, pr, cnv := newBoard()
	slot := new(sample.Slot)
	sampler := adc.NewSampler(ar, slot)
	driver := pwm.NewDriver(pr)

	l := New(sampler, slot, driver, Config{
		Period:   256,
		Sampling: adc.Config{Channel: 0, Continuous: true, Averaging: true, SampleCount: 4},
	})
	if err := l.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if got := ar.SC1A.Get() & adc.SC1_ADCH_Msk; got != 0x8 {
		t.Errorf("channel 0 should select ADCH 0x8, got %#x", got)
	}

	// Conversion complete.
	ra.Set(32768)
	sampler.HandleInterrupt()

	f, err := l.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if d := int(cnv.Get()) - 128; d < -1 || d > 1 {
		t.Errorf("expected duty 128 +-1, got %d", cnv.Get())
	}
	if uint32(f.Duty) != cnv.Get() {
		t.Errorf("frame duty %d differs from register %d", f.Duty, cnv.Get())
	}
}

func TestUnconfiguredOutputIsReported(t *testing.T) {
	_, _, pr, _ := newBoard()
	l := New(&fakeSampler{}, new(sample.Slot), pwm.NewDriver(pr), Config{Period: 256})
	if _, err := l.Step(); err != pwm.ErrNotConfigured {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
