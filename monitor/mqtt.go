package monitor

import (
	"context"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MQTTSource subscribes to the firmware's telemetry topic.
type MQTTSource struct {
	Name     string
	Broker   string // host:port
	ClientID string
	Topic    string
	Sink     Sink
	Log      zerolog.Logger
	// Malformed is called for every payload that is not a reading. Optional.
	Malformed func(source string)
}

// Run connects, subscribes and delivers readings until ctx is canceled.
func (s *MQTTSource) Run(ctx context.Context) error {
	log := s.Log.With().Str("topic", s.Topic).Logger()

	opts := mqttapi.NewClientOptions().
		AddBroker("tcp://" + s.Broker).
		SetClientID(s.ClientID)
	opts.SetKeepAlive(10 * time.Second)
	opts.SetPingTimeout(2 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(false)
	// Resubscribe after every (re)connect.
	opts.SetOnConnectHandler(func(c mqttapi.Client) {
		log.Debug().Msg("Connected to MQTT")
		if token := c.Subscribe(s.Topic, 0, s.onMessage); token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Msg("Failed to subscribe")
			return
		}
		log.Info().Msg("Subscribed to telemetry")
	})
	opts.SetConnectionLostHandler(func(_ mqttapi.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	})

	client := mqttapi.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "failed to connect to mqtt broker %s", s.Broker)
	}
	<-ctx.Done()
	client.Disconnect(250)
	return nil
}

func (s *MQTTSource) onMessage(_ mqttapi.Client, msg mqttapi.Message) {
	s.handle(msg.Payload(), time.Now())
}

func (s *MQTTSource) handle(payload []byte, at time.Time) {
	o, err := DecodeReading(s.Name, at, payload)
	if err != nil {
		s.Log.Warn().Err(err).Bytes("payload", payload).Msg("Invalid telemetry payload")
		if s.Malformed != nil {
			s.Malformed(s.Name)
		}
		return
	}
	s.Sink.Observe(o)
}
