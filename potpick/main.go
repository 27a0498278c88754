//go:build rp2040 || rp2350

// potpick dims an LED on GP15 from a potentiometer on ADC0, shows the level
// on a 16x2 LCD and, when a broker is configured, publishes readings over
// MQTT from a Pico W.
package main

import (
	"log/slog"
	"machine"
	"runtime"
	"time"

	"github.com/harveysanders/potdimmer/config"
	"github.com/harveysanders/potdimmer/console"
	"github.com/harveysanders/potdimmer/control"
	"github.com/harveysanders/potdimmer/display"
	"github.com/harveysanders/potdimmer/health"
	"github.com/harveysanders/potdimmer/pico"
	"github.com/harveysanders/potdimmer/sample"
	"github.com/harveysanders/potdimmer/telemetry"
	"github.com/harveysanders/potdimmer/wifi"
)

func main() {
	start := time.Now()
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		printErrForever(logger, "config:invalid", slog.String("err", err.Error()))
	}

	go pico.Heartbeat(machine.GP21, 250*time.Millisecond)

	err = machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		printErrForever(logger, "i2c:configure-failed", slog.String("err", err.Error()))
	}
	lcdMessages := make(chan display.Message, 4)
	lcd := display.Open(machine.I2C0, display.AddrPCF8574)
	go display.NewHandler(lcd, lcdMessages, logger).Run()
	display.Send(lcdMessages, "potdimmer", "starting")

	var slot sample.Slot
	sampler := pico.NewSampler(&slot)
	out := &pico.Output{
		// GP14/GP15 are driven by PWM slice 7.
		PWM:       machine.PWM7,
		Pin:       machine.GP15,
		Frequency: cfg.PWMFrequency,
	}

	watchdog := health.NewWatchdog(&slot, cfg.StallWindow)
	forward := []func(control.Frame){
		watchdog.Forward(logger),
		display.Forward(lcdMessages),
	}
	if cfg.Broker != "" {
		// Sized for a few report intervals of network stall.
		readings := make(chan telemetry.Reading, 10)
		conv := telemetry.Sampler{Conversions: &slot, Boot: start}
		forward = append(forward, conv.Forward(readings))
		go publish(cfg, logger, readings, lcdMessages)
	}
	reporter := console.NewReporter(machine.Serial, cfg.ReportEvery, forward...)

	loop := control.New(sampler, &slot, out, control.Config{
		Period:   cfg.Period,
		Sampling: cfg.Sampling,
		// Single core: the sampler, LCD and network goroutines only run
		// when the loop yields.
		Idle:     runtime.Gosched,
		Observer: reporter,
	})
	if err := loop.Init(); err != nil {
		printErrForever(logger, "dimmer:init-failed", slog.String("err", err.Error()))
	}
	logger.Info("dimmer:running",
		slog.Int("channel", cfg.Sampling.Channel),
		slog.Uint64("period", uint64(cfg.Period)),
		slog.Uint64("pwm_hz", cfg.PWMFrequency),
	)

	if cfg.Sweep {
		display.Send(lcdMessages, "Self test", "PWM sweep")
		err := control.Sweep(out, cfg.Period, cfg.SweepSteps, func() { time.Sleep(5 * time.Millisecond) })
		if err != nil {
			logger.Error("dimmer:sweep-failed", slog.String("err", err.Error()))
		}
	}

	loop.Run()
}

// publish joins WiFi and streams readings to the broker. Failures are logged
// and shown on the LCD; the dimmer keeps running without telemetry.
func publish(cfg config.Settings, logger *slog.Logger, readings <-chan telemetry.Reading, lcdMessages chan<- display.Message) {
	display.Send(lcdMessages, "WiFi join", cfg.SSID)
	stack, err := wifi.Join(wifi.Config{
		SSID:        cfg.SSID,
		Password:    cfg.Password,
		Hostname:    cfg.Hostname,
		MaxTCPPorts: 1,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("wifi:join-failed", slog.String("err", err.Error()))
		display.Send(lcdMessages, "WiFi failed", err.Error())
		return
	}
	go stack.Serve()

	addr, err := stack.DHCP(cfg.StaticAddr)
	if err != nil {
		logger.Error("wifi:dhcp-failed", slog.String("err", err.Error()))
		display.Send(lcdMessages, "DHCP failed", err.Error())
		return
	}
	display.Send(lcdMessages, "IP", addr.String())

	c := telemetry.Client{
		ID:                cfg.ClientID,
		Topic:             cfg.Topic,
		Logger:            logger,
		Timeout:           5 * time.Second,
		TCPBufSize:        2030, // MTU - ethhdr - iphdr - tcphdr
		HeartbeatInterval: 10 * time.Second,
		Username:          cfg.MQTTUser,
		Password:          cfg.MQTTPassword,
	}
	err = c.ConnectAndPublish(stack.Lneto(), cfg.Broker, readings, lcdMessages)
	if err != nil {
		logger.Error("mqtt:stopped", slog.String("err", err.Error()))
		display.Send(lcdMessages, "MQTT stopped", err.Error())
	}
}

func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
