package latency

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// defaultProbePort is used when a target's remote directive carries no port.
const defaultProbePort = 443

// Strategy defines how a single timed reachability check is performed.
type Strategy interface {
	// Name returns the strategy identifier ("tcp" or "ping").
	Name() string
	// Probe performs one reachability check and returns the round-trip
	// time in milliseconds. The context carries the per-attempt deadline.
	Probe(ctx context.Context, host string, port int) (float64, error)
}

// TCPStrategy measures latency via a TCP handshake to host:port.
// Fast and unprivileged - verifies network reachability without ICMP.
type TCPStrategy struct{}

func (s *TCPStrategy) Name() string { return "tcp" }

func (s *TCPStrategy) Probe(ctx context.Context, host string, port int) (float64, error) {
	if port == 0 {
		port = defaultProbePort
	}
	address := net.JoinHostPort(host, strconv.Itoa(port))

	start := time.Now()
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return 0, fmt.Errorf("tcp handshake failed: %w", err)
	}
	conn.Close()

	return float64(time.Since(start).Microseconds()) / 1000.0, nil
}

// NewStrategy creates a Strategy by name. Valid names: "tcp", "ping".
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "tcp", "":
		return &TCPStrategy{}, nil
	case "ping":
		return NewPingStrategy()
	default:
		return nil, fmt.Errorf("unknown probe strategy: %s (available: tcp, ping)", name)
	}
}
