//go:build mkl25z4

// kl25zdimmer sets the brightness of the FRDM-KL25Z blue LED (PTD1) from a
// potentiometer on header pin A0.
package main

import (
	"device/arm"
	"log/slog"
	"os"
	"time"

	"github.com/harveysanders/potdimmer/adc"
	"github.com/harveysanders/potdimmer/config"
	"github.com/harveysanders/potdimmer/console"
	"github.com/harveysanders/potdimmer/control"
	"github.com/harveysanders/potdimmer/health"
	"github.com/harveysanders/potdimmer/kl25z"
	"github.com/harveysanders/potdimmer/pwm"
	"github.com/harveysanders/potdimmer/sample"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		printErrForever(logger, "config:invalid", slog.String("err", err.Error()))
	}

	var slot sample.Slot
	sampler := adc.NewSampler(kl25z.ADCRegisters(), &slot)
	kl25z.InstallADC(sampler)
	out := pwm.NewDriver(kl25z.PWMRegisters())

	// Nothing else runs during the busy loop, so the watchdog rides along
	// with the console report.
	watchdog := health.NewWatchdog(&slot, cfg.StallWindow)
	reporter := console.NewReporter(os.Stdout, cfg.ReportEvery, watchdog.Forward(logger))

	loop := control.New(sampler, &slot, out, control.Config{
		Period:   cfg.Period,
		Sampling: cfg.Sampling,
		Idle:     func() { arm.Asm("nop") },
		Observer: reporter,
	})
	if err := loop.Init(); err != nil {
		printErrForever(logger, "dimmer:init-failed", slog.String("err", err.Error()))
	}
	logger.Info("dimmer:running",
		slog.Int("channel", cfg.Sampling.Channel),
		slog.Uint64("period", uint64(cfg.Period)),
		slog.Int("samples", cfg.Sampling.SampleCount),
	)

	if cfg.Sweep {
		err := control.Sweep(out, cfg.Period, cfg.SweepSteps, func() { time.Sleep(10 * time.Millisecond) })
		if err != nil {
			logger.Error("dimmer:sweep-failed", slog.String("err", err.Error()))
		}
	}

	loop.Run()
}

// printErrForever logs msg once a second so it is seen whenever a terminal
// attaches. It never returns.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
