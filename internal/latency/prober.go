package latency

import (
	"context"
	"errors"
	"math"
	"net"
	"os"
	"time"

	"stealthspanner/internal/extract"
	pkgerrors "stealthspanner/pkg/errors"
)

// Resolver resolves hostnames. *net.Resolver satisfies it; tests substitute
// a fake to exercise DNS failure paths without a network.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// ProberConfig holds configuration for a Prober.
type ProberConfig struct {
	Strategy Strategy
	Resolver Resolver
	Attempts int
	Timeout  time.Duration
}

// Prober executes a fixed number of timed reachability checks against a
// single target and condenses them into one Outcome. Network failures are
// never returned as errors - they map to an Outcome status.
type Prober struct {
	strategy Strategy
	resolver Resolver
	attempts int
	timeout  time.Duration
}

// NewProber validates the configuration and creates a Prober. Invalid
// attempts or timeout are configuration errors reported before any probing.
func NewProber(cfg ProberConfig) (*Prober, error) {
	if cfg.Attempts <= 0 {
		return nil, pkgerrors.ErrInvalidAttempts
	}
	if cfg.Timeout <= 0 {
		return nil, pkgerrors.ErrInvalidTimeout
	}
	if cfg.Strategy == nil {
		cfg.Strategy = &TCPStrategy{}
	}
	if cfg.Resolver == nil {
		cfg.Resolver = net.DefaultResolver
	}
	return &Prober{
		strategy: cfg.Strategy,
		resolver: cfg.Resolver,
		attempts: cfg.Attempts,
		timeout:  cfg.Timeout,
	}, nil
}

// Probe resolves the target host, then runs the configured number of timed
// attempts. Resolution failure short-circuits to DNS Failure without
// consuming any attempts; DNS failure is host-level, not attempt-level.
func (p *Prober) Probe(ctx context.Context, target extract.Target) Outcome {
	outcome := Outcome{Target: target}

	resolveCtx, cancel := context.WithTimeout(ctx, p.timeout)
	_, err := p.resolver.LookupHost(resolveCtx, target.Host)
	cancel()
	if err != nil {
		outcome.Status = StatusDNSFailure
		outcome.PacketLossPct = 100.0
		return outcome
	}

	var rtts []float64
	timeouts := 0

	for i := 0; i < p.attempts; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		rtt, err := p.strategy.Probe(attemptCtx, target.Host, target.Port)
		cancel()

		switch {
		case err == nil:
			rtts = append(rtts, rtt)
		case isTimeout(err):
			timeouts++
		}
	}

	outcome.Attempts = p.attempts
	outcome.Succeeded = len(rtts)
	outcome.PacketLossPct = float64(p.attempts-len(rtts)) / float64(p.attempts) * 100.0

	if len(rtts) > 0 {
		outcome.Status = StatusSuccess
		avg := mean(rtts)
		outcome.AvgLatencyMS = &avg
		if len(rtts) >= 2 {
			outcome.Jitter = jitterOf(rtts, avg)
		}
		return outcome
	}

	if timeouts == p.attempts {
		outcome.Status = StatusTimeout
	} else {
		outcome.Status = StatusFailed
	}
	return outcome
}

// isTimeout reports whether an attempt error is a timeout rather than some
// other network failure (refused, unreachable, ...).
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func jitterOf(rtts []float64, avg float64) *Jitter {
	variance := 0.0
	meanDev := 0.0
	min, max := rtts[0], rtts[0]
	for _, r := range rtts {
		variance += (r - avg) * (r - avg)
		meanDev += math.Abs(r - avg)
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	n := float64(len(rtts))
	return &Jitter{
		StdDevMS:  math.Sqrt(variance / n),
		MeanDevMS: meanDev / n,
		RangeMS:   max - min,
	}
}
