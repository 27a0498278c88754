// dimmermon watches a running dimmer from a host. It reads the board's
// console over USB serial, its MQTT telemetry, or both, and serves the
// result as Prometheus metrics.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/harveysanders/potdimmer/monitor"
	"github.com/harveysanders/potdimmer/telemetry"
)

const (
	projectName       = "potdimmer monitor"
	defaultServerPort = 9187
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
	maskAny        = errors.WithStack
)

func main() {
	var levelFlag string
	var serialDevice string
	var baud int
	var broker string
	var topic string
	var clientID string
	var serverHost string
	var serverPort int

	pflag.StringVarP(&levelFlag, "level", "l", "info", "Set log level")
	pflag.StringVarP(&serialDevice, "serial", "s", "", "Serial device of the board console (e.g. /dev/ttyACM0)")
	pflag.IntVar(&baud, "baud", monitor.DefaultBaud, "Serial baud rate")
	pflag.StringVarP(&broker, "broker", "b", "", "MQTT broker host:port to read telemetry from")
	pflag.StringVar(&topic, "topic", telemetry.DefaultTopic, "MQTT telemetry topic")
	pflag.StringVar(&clientID, "client-id", "dimmermon", "MQTT client ID")
	pflag.StringVar(&serverHost, "host", "0.0.0.0", "Host address the HTTP server will listen on")
	pflag.IntVar(&serverPort, "port", defaultServerPort, "Port the HTTP server will listen on")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		Exitf("Invalid log level '%s': %v\n", levelFlag, err)
	}
	logger = logger.Level(level)

	if serialDevice == "" && broker == "" {
		Exitf("Nothing to monitor: set --serial and/or --broker\n")
	}

	reg := prometheus.NewRegistry()
	metrics := monitor.NewMetrics(reg)
	latest := monitor.NewLatest()
	sink := monitor.Fanout{latest, metrics}

	var sources []func(context.Context) error
	if serialDevice != "" {
		port, err := monitor.OpenSerial(serialDevice, baud)
		if err != nil {
			Exitf("Failed to open console: %v\n", err)
		}
		src := &monitor.LineSource{
			Name:      "serial",
			R:         port,
			Sink:      sink,
			Log:       logger.With().Str("source", "serial").Logger(),
			Malformed: metrics.Malformed,
		}
		sources = append(sources, src.Run)
	}
	if broker != "" {
		src := &monitor.MQTTSource{
			Name:      "mqtt",
			Broker:    broker,
			ClientID:  clientID,
			Topic:     topic,
			Sink:      sink,
			Log:       logger.With().Str("source", "mqtt").Logger(),
			Malformed: metrics.Malformed,
		}
		sources = append(sources, src.Run)
	}

	server := monitor.NewServer(monitor.ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}, latest, reg, logger)

	// Cancel the sources and server on SIGINT or SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	fmt.Printf("Starting %s (version %s build %s)\n", projectName, projectVersion, projectBuild)
	g, ctx := errgroup.WithContext(ctx)
	for _, run := range sources {
		run := run
		g.Go(func() error { return maskAny(run(ctx)) })
	}
	g.Go(func() error { return server.Run(ctx) })
	if err := g.Wait(); err != nil {
		Exitf("Monitor failed: %+v\n", err)
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
