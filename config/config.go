// Package config holds the firmware settings. There is no file system on the
// boards, so every value is a string baked in at link time, e.g.
//
//	tinygo flash -target=pico-w -ldflags="-X 'github.com/harveysanders/potdimmer/config.ssid=home' -X 'github.com/harveysanders/potdimmer/config.period=1000'" ./potpick
//
// Unset values keep their defaults.
package config

import (
	"errors"
	"net/netip"
	"strconv"
	"time"

	"github.com/harveysanders/potdimmer/adc"
)

// Set via -ldflags -X.
var (
	period      string
	channel     string
	continuous  string
	averaging   string
	samples     string
	reportEvery string
	stallWindow string
	sweep       string
	pwmFreq     string

	hostname string
	ssid     string
	pass     string
	broker   string
	topic    string
	clientID string
	staticIP string
	mqttUser string
	mqttPass string
)

// Settings is the validated firmware configuration.
type Settings struct {
	Period   uint16
	Sampling adc.Config

	// ReportEvery is the number of loop iterations between console lines.
	ReportEvery uint32
	// StallWindow is how long the conversion counter may stand still before
	// the converter is reported stalled.
	StallWindow time.Duration
	// Sweep ramps the output once at boot before the loop starts.
	Sweep      bool
	SweepSteps int
	// PWMFrequency is the carrier frequency on boards whose PWM is set up by
	// frequency rather than by counts.
	PWMFrequency uint64

	Hostname string
	SSID     string
	Password string
	// StaticAddr is requested over DHCP and assigned directly when DHCP
	// does not complete. The zero value means DHCP only.
	StaticAddr netip.Addr
	// Broker is the MQTT broker host:port. Telemetry is off when empty.
	Broker   string
	Topic    string
	ClientID string
	// MQTTUser and MQTTPassword are optional broker credentials.
	MQTTUser     string
	MQTTPassword string
}

// Default is the FRDM-KL25Z dimmer setup: period 256 on channel 0,
// continuous conversion with 4-sample hardware averaging.
func Default() Settings {
	return Settings{
		Period: 256,
		Sampling: adc.Config{
			Channel:     0,
			Continuous:  true,
			Averaging:   true,
			SampleCount: 4,
		},
		ReportEvery:  50000,
		StallWindow:  2 * time.Second,
		SweepSteps:   64,
		PWMFrequency: 500,
		Hostname:     "potdimmer",
		Topic:        "potdimmer/reading",
		ClientID:     "potdimmer",
	}
}

// Raw is the unparsed link-time configuration. Empty fields keep defaults.
type Raw struct {
	Period      string
	Channel     string
	Continuous  string
	Averaging   string
	Samples     string
	ReportEvery string
	StallWindow string
	Sweep       string
	PWMFreq     string

	Hostname string
	SSID     string
	Password string
	Broker   string
	Topic    string
	ClientID string
	StaticIP string
	MQTTUser string
	MQTTPass string
}

// Load parses the values set at link time.
func Load() (Settings, error) {
	return Parse(Raw{
		Period:      period,
		Channel:     channel,
		Continuous:  continuous,
		Averaging:   averaging,
		Samples:     samples,
		ReportEvery: reportEvery,
		StallWindow: stallWindow,
		Sweep:       sweep,
		PWMFreq:     pwmFreq,
		Hostname:    hostname,
		SSID:        ssid,
		Password:    pass,
		Broker:      broker,
		Topic:       topic,
		ClientID:    clientID,
		StaticIP:    staticIP,
		MQTTUser:    mqttUser,
		MQTTPass:    mqttPass,
	})
}

// Parse applies raw on top of Default and validates the result.
func Parse(raw Raw) (Settings, error) {
	s := Default()

	if raw.Period != "" {
		v, err := strconv.ParseUint(raw.Period, 10, 16)
		if err != nil {
			return s, errors.New("config: period: " + err.Error())
		}
		s.Period = uint16(v)
	}
	if raw.Channel != "" {
		v, err := strconv.Atoi(raw.Channel)
		if err != nil {
			return s, errors.New("config: channel: " + err.Error())
		}
		s.Sampling.Channel = v
	}
	if raw.Continuous != "" {
		v, err := strconv.ParseBool(raw.Continuous)
		if err != nil {
			return s, errors.New("config: continuous: " + err.Error())
		}
		s.Sampling.Continuous = v
	}
	if raw.Averaging != "" {
		v, err := strconv.ParseBool(raw.Averaging)
		if err != nil {
			return s, errors.New("config: averaging: " + err.Error())
		}
		s.Sampling.Averaging = v
		if !v && raw.Samples == "" {
			s.Sampling.SampleCount = 0
		}
	}
	if raw.Samples != "" {
		v, err := strconv.Atoi(raw.Samples)
		if err != nil {
			return s, errors.New("config: samples: " + err.Error())
		}
		s.Sampling.SampleCount = v
	}
	if raw.ReportEvery != "" {
		v, err := strconv.ParseUint(raw.ReportEvery, 10, 32)
		if err != nil {
			return s, errors.New("config: report every: " + err.Error())
		}
		s.ReportEvery = uint32(v)
	}
	if raw.StallWindow != "" {
		v, err := time.ParseDuration(raw.StallWindow)
		if err != nil {
			return s, errors.New("config: stall window: " + err.Error())
		}
		s.StallWindow = v
	}
	if raw.Sweep != "" {
		v, err := strconv.ParseBool(raw.Sweep)
		if err != nil {
			return s, errors.New("config: sweep: " + err.Error())
		}
		s.Sweep = v
	}
	if raw.PWMFreq != "" {
		v, err := strconv.ParseUint(raw.PWMFreq, 10, 64)
		if err != nil {
			return s, errors.New("config: pwm frequency: " + err.Error())
		}
		s.PWMFrequency = v
	}

	if raw.StaticIP != "" {
		v, err := netip.ParseAddr(raw.StaticIP)
		if err != nil {
			return s, errors.New("config: static ip: " + err.Error())
		}
		s.StaticAddr = v
	}

	setString(&s.Hostname, raw.Hostname)
	setString(&s.SSID, raw.SSID)
	setString(&s.Password, raw.Password)
	setString(&s.Broker, raw.Broker)
	setString(&s.Topic, raw.Topic)
	setString(&s.ClientID, raw.ClientID)
	setString(&s.MQTTUser, raw.MQTTUser)
	setString(&s.MQTTPassword, raw.MQTTPass)

	return s, s.Validate()
}

// Validate checks the settings the control loop depends on.
func (s Settings) Validate() error {
	if s.Period == 0 {
		return errors.New("config: period must be positive")
	}
	if err := s.Sampling.Validate(); err != nil {
		return errors.New("config: " + err.Error())
	}
	if s.StallWindow <= 0 {
		return errors.New("config: stall window must be positive")
	}
	if s.PWMFrequency == 0 {
		return errors.New("config: pwm frequency must be positive")
	}
	if s.Broker != "" && s.Topic == "" {
		return errors.New("config: broker set without topic")
	}
	if s.StaticAddr.IsValid() && !s.StaticAddr.Is4() {
		return errors.New("config: static ip must be IPv4")
	}
	if s.MQTTPassword != "" && s.MQTTUser == "" {
		return errors.New("config: mqtt password set without user")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
