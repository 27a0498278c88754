// Package telemetry publishes dimmer readings to an MQTT broker from the
// Pico W, over a TCP connection on the lneto stack.
package telemetry

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"runtime"
	"time"

	"github.com/harveysanders/potdimmer/display"
	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
	mqtt "github.com/soypat/natiu-mqtt"
)

const DefaultTopic = "potdimmer/reading"

var pubFlags, _ = mqtt.NewPublishFlags(mqtt.QoS0, false, false)

type Client struct {
	ID                string
	Topic             string
	Timeout           time.Duration
	TCPBufSize        int
	Logger            *slog.Logger
	HeartbeatInterval time.Duration
	Username          string // optional
	Password          string // optional, requires Username
}

// ConnectAndPublish connects to the broker at addr (host:port) and publishes
// every reading received on readings. It reconnects on failure and only
// returns on errors that retrying cannot fix. Connection progress is shown
// on status, which may be nil.
func (c *Client) ConnectAndPublish(
	stack *xnet.StackAsync,
	addr string,
	readings <-chan Reading,
	status chan<- display.Message,
) error {
	const pollTime = 5 * time.Millisecond

	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	heartbeatEvery := c.HeartbeatInterval
	if heartbeatEvery <= 0 {
		heartbeatEvery = 10 * time.Second
	}

	c.Logger.Info("mqtt:address", slog.String("addr", addr), slog.String("topic", topic))

	host, portStr, err := splitHostPort(addr)
	if err != nil {
		return errors.New("parsing host:port from " + addr + ": " + err.Error())
	}
	port := parsePort(portStr)
	if port == 0 {
		return errors.New("invalid port in " + addr)
	}

	rstack := stack.StackRetrying(pollTime)

	var brokerAddr netip.Addr
	if parsed, err := netip.ParseAddr(host); err == nil {
		brokerAddr = parsed
	} else {
		c.Logger.Info("dns:resolving", slog.String("host", host))
		addrs, err := rstack.DoLookupIP(host, 5*time.Second, 3)
		if err != nil {
			return errors.New("dns lookup for " + host + ": " + err.Error())
		}
		if len(addrs) == 0 {
			return errors.New("dns lookup for " + host + ": no addresses returned")
		}
		brokerAddr = addrs[0]
	}
	c.Logger.Info("dns:resolved", slog.String("ip", brokerAddr.String()))

	cfg := mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 4096)},
		OnPub: func(_ mqtt.Header, varPub mqtt.VariablesPublish, _ io.Reader) error {
			c.Logger.Info("mqtt:received", slog.String("topic", string(varPub.TopicName)))
			return nil
		},
	}
	varconn := c.connectVars()
	client := mqtt.NewClient(cfg)

	var conn tcp.Conn
	err = conn.Configure(tcp.ConnConfig{
		RxBuf:             make([]byte, c.TCPBufSize),
		TxBuf:             make([]byte, c.TCPBufSize),
		TxPacketQueueSize: 3,
	})
	if err != nil {
		return errors.New("tcp configure: " + err.Error())
	}

	closeConn := func(reason string) {
		c.Logger.Error("tcp:closing", slog.String("reason", reason))
		conn.Close()
		for i := 0; i < 50 && !conn.State().IsClosed(); i++ {
			time.Sleep(100 * time.Millisecond)
		}
		conn.Abort()
	}

	pubVar := mqtt.VariablesPublish{TopicName: []byte(topic)}
	serverAddr := netip.AddrPortFrom(brokerAddr, port)
	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	for {
		localPort := uint16(stack.Prand32()>>17) + 1024
		c.Logger.Info("tcp:dialing", slog.Uint64("localPort", uint64(localPort)))
		display.Send(status, "Connecting...", addr)

		err = rstack.DoDialTCP(&conn, localPort, serverAddr, 10*time.Second, 3)
		if err != nil {
			closeConn("dial failed: " + err.Error())
			time.Sleep(2 * time.Second)
			continue
		}
		c.Logger.Info("tcp:connected", slog.String("state", conn.State().String()))

		display.Send(status, "MQTT Connect", "Authenticating")
		conn.SetDeadline(time.Now().Add(c.Timeout))
		err = client.StartConnect(&conn, &varconn)
		if err != nil {
			display.Send(status, "Connect Failed", err.Error())
			closeConn("mqtt connect failed: " + err.Error())
			continue
		}
		for retries := 50; retries > 0 && !client.IsConnected(); retries-- {
			time.Sleep(100 * time.Millisecond)
			if err := client.HandleNext(); err != nil {
				c.Logger.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
			}
		}
		if !client.IsConnected() {
			display.Send(status, "Connect Failed", "Timed out")
			closeConn("mqtt connect timed out")
			continue
		}

		c.Logger.Info("mqtt:connected")
		display.Send(status, "MQTT Connected", topic)

		for client.IsConnected() {
			select {
			case r := <-readings:
				payload, err := json.Marshal(r)
				if err != nil {
					c.Logger.Error("mqtt:marshal-failed", slog.String("err", err.Error()))
					continue
				}
				conn.SetDeadline(time.Now().Add(c.Timeout))
				pubVar.PacketIdentifier = uint16(stack.Prand32())
				if err := client.PublishPayload(pubFlags, pubVar, payload); err != nil {
					c.Logger.Error("mqtt:publish-failed", slog.String("err", err.Error()))
					continue
				}
				if err := client.HandleNext(); err != nil {
					c.Logger.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
				}
			case <-heartbeat.C:
				// Keep the session alive when readings are sparse.
				if err := client.HandleNext(); err != nil {
					c.Logger.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
				}
			default:
				// Single core: let the control loop and network poller run.
				runtime.Gosched()
			}
		}

		c.Logger.Error("mqtt:disconnected", slog.Any("reason", client.Err()))
		display.Send(status, "Disconnected", "Reconnecting...")
		closeConn("disconnected")
		runtime.Gosched()
	}
}

// connectVars builds the CONNECT variables. The password is only sent
// along with a username.
func (c *Client) connectVars() mqtt.VariablesConnect {
	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(c.ID))
	if c.Username != "" {
		varconn.Username = []byte(c.Username)
		if c.Password != "" {
			varconn.Password = []byte(c.Password)
		}
	}
	return varconn
}

// splitHostPort splits host:port on the last colon.
func splitHostPort(addr string) (host, port string, err error) {
	colonIdx := -1
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			colonIdx = i
			break
		}
	}
	if colonIdx == -1 {
		return "", "", errors.New("missing port in address")
	}

	host = addr[:colonIdx]
	port = addr[colonIdx+1:]
	if host == "" {
		return "", "", errors.New("empty host")
	}
	if port == "" {
		return "", "", errors.New("empty port")
	}
	return host, port, nil
}

// parsePort converts a decimal port. It returns 0 for anything that is not
// a port number.
func parsePort(portStr string) uint16 {
	var port uint32
	if len(portStr) == 0 {
		return 0
	}
	for i := 0; i < len(portStr); i++ {
		if portStr[i] < '0' || portStr[i] > '9' {
			return 0
		}
		port = port*10 + uint32(portStr[i]-'0')
		if port > 0xffff {
			return 0
		}
	}
	return uint16(port)
}
