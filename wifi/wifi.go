//go:build tinygo

// Package wifi brings up the Pico W radio and an lneto network stack on top
// of it. Adapted from the soypat/cyw43439 examples/common package.
package wifi

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"runtime"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/lneto/x/xnet"
)

const mtu = cyw43439.MTU

type Config struct {
	SSID     string
	Password string // empty joins an open network
	// Hostname is sent in DHCP requests.
	Hostname    string
	MaxTCPPorts int
	Logger      *slog.Logger
	RandSeed    int64
}

// Stack couples the radio with the lneto stack it feeds.
type Stack struct {
	s       xnet.StackAsync
	dev     *cyw43439.Device
	log     *slog.Logger
	sendbuf []byte
}

// Join initializes the radio and joins cfg.SSID, retrying the join until it
// succeeds. The stack has no address until DHCP runs.
func Join(cfg Config) (*Stack, error) {
	if cfg.Hostname == "" {
		return nil, errors.New("wifi: empty hostname")
	}
	if cfg.SSID == "" {
		return nil, errors.New("wifi: empty ssid")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	start := time.Now()
	dev := cyw43439.NewPicoWDevice()
	dev.SetLogger(logger)
	if err := dev.Init(cyw43439.DefaultWifiConfig()); err != nil {
		return nil, errors.New("wifi: init: " + err.Error())
	}
	logger.Info("wifi:init", slog.Duration("duration", time.Since(start)))

	logger.Info("wifi:joining", slog.String("ssid", cfg.SSID), slog.Bool("open", cfg.Password == ""))
	for {
		err := dev.JoinWPA2(cfg.SSID, cfg.Password)
		if err == nil {
			break
		}
		logger.Error("wifi:join-failed", slog.String("err", err.Error()))
		time.Sleep(5 * time.Second)
	}

	mac, err := dev.HardwareAddr6()
	if err != nil {
		return nil, errors.New("wifi: hardware address: " + err.Error())
	}
	logger.Info("wifi:joined", slog.String("mac", net.HardwareAddr(mac[:]).String()))

	stack := &Stack{
		dev:     dev,
		log:     logger,
		sendbuf: make([]byte, mtu),
	}
	maxTCP := cfg.MaxTCPPorts
	if maxTCP < 1 {
		maxTCP = 1
	}
	err = stack.s.Reset(xnet.StackConfig{
		Hostname:        cfg.Hostname,
		MaxTCPConns:     maxTCP,
		RandSeed:        time.Since(start).Nanoseconds() ^ cfg.RandSeed,
		HardwareAddress: mac,
		MTU:             mtu,
	})
	if err != nil {
		return nil, errors.New("wifi: stack reset: " + err.Error())
	}
	dev.RecvEthHandle(func(pkt []byte) error {
		return stack.s.Demux(pkt, 0)
	})
	return stack, nil
}

// Serve moves packets between the radio and the stack forever. Run it in its
// own goroutine before DHCP.
func (s *Stack) Serve() {
	for {
		send, recv, _ := s.recvAndSend()
		if send == 0 && recv == 0 {
			runtime.Gosched()
		}
	}
}

// DHCP obtains an address and resolves the gateway. A valid requested
// address is used statically when the DHCP exchange does not finish.
func (s *Stack) DHCP(requested netip.Addr) (netip.Addr, error) {
	if !requested.IsValid() {
		requested = netip.AddrFrom4([4]byte{})
	} else if !requested.Is4() {
		return netip.Addr{}, errors.New("wifi: only dhcpv4 supported")
	}

	rstack := s.s.StackRetrying(50 * time.Millisecond)
	s.log.Info("dhcp:starting")
	results, err := rstack.DoDHCPv4(requested.As4(), 3*time.Second, 3)
	if err != nil {
		if !requested.IsUnspecified() {
			s.log.Info("dhcp:static-fallback", slog.String("ip", requested.String()))
			s.s.SetIPAddr(requested)
			return requested, nil
		}
		return netip.Addr{}, errors.New("wifi: dhcp: " + err.Error())
	}
	if err := s.s.AssimilateDHCPResults(results); err != nil {
		return netip.Addr{}, errors.New("wifi: assimilate dhcp: " + err.Error())
	}

	gatewayHW, err := rstack.DoResolveHardwareAddress6(results.Router, 500*time.Millisecond, 4)
	if err != nil {
		return netip.Addr{}, errors.New("wifi: resolve gateway: " + err.Error())
	}
	s.s.SetGateway6(gatewayHW)

	s.log.Info("dhcp:complete",
		slog.String("ip", results.AssignedAddr.String()),
		slog.String("router", results.Router.String()),
		slog.Uint64("lease_sec", uint64(results.TLease)),
	)
	return results.AssignedAddr, nil
}

func (s *Stack) recvAndSend() (send, recv int, err error) {
	gotPacket, errRecv := s.dev.PollOne()
	if gotPacket {
		recv = 1
	}
	if errRecv != nil {
		s.log.Error("wifi:poll", slog.String("err", errRecv.Error()))
	}

	send, err = s.s.Encapsulate(s.sendbuf, -1, 0)
	if err != nil {
		s.log.Error("wifi:encapsulate", slog.Int("plen", send), slog.String("err", err.Error()))
	} else {
		err = errRecv
	}
	if send == 0 {
		return send, recv, err
	}

	err = s.dev.SendEth(s.sendbuf[:send])
	if err != nil {
		s.log.Error("wifi:send", slog.Int("plen", send), slog.String("err", err.Error()))
	}
	return send, recv, err
}

// Lneto exposes the stack for TCP dialing and DNS.
func (s *Stack) Lneto() *xnet.StackAsync {
	return &s.s
}
