package latency

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stealthspanner/internal/extract"
)

// countingStrategy tracks concurrent in-flight probes.
type countingStrategy struct {
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
	delay       time.Duration
}

func (c *countingStrategy) Name() string { return "counting" }

func (c *countingStrategy) Probe(ctx context.Context, host string, port int) (float64, error) {
	current := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	for {
		max := c.maxInFlight.Load()
		if current <= max || c.maxInFlight.CompareAndSwap(max, current) {
			break
		}
	}

	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return 10.0, nil
}

func makeTargets(n int) []extract.Target {
	targets := make([]extract.Target, n)
	for i := range targets {
		targets[i] = extract.Target{
			Source: fmt.Sprintf("server-%03d.ovpn", i),
			Host:   fmt.Sprintf("server-%03d.example.com", i),
			Port:   443,
		}
	}
	return targets
}

func TestPoolRunOneOutcomePerTarget(t *testing.T) {
	targets := makeTargets(25)
	prober, err := NewProber(ProberConfig{
		Strategy: &countingStrategy{},
		Resolver: &fakeResolver{},
		Attempts: 1,
		Timeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewProber() error = %v", err)
	}

	outcomes := NewPool(8).Run(context.Background(), targets, prober, nil)

	if len(outcomes) != len(targets) {
		t.Fatalf("len(outcomes) = %d, want %d", len(outcomes), len(targets))
	}
	for i, o := range outcomes {
		if o.Target.Host != targets[i].Host {
			t.Errorf("outcomes[%d].Target.Host = %q, want %q", i, o.Target.Host, targets[i].Host)
		}
	}
}

func TestPoolRunRespectsWorkerBound(t *testing.T) {
	strategy := &countingStrategy{delay: 10 * time.Millisecond}
	prober, _ := NewProber(ProberConfig{
		Strategy: strategy,
		Resolver: &fakeResolver{},
		Attempts: 1,
		Timeout:  time.Second,
	})

	NewPool(4).Run(context.Background(), makeTargets(20), prober, nil)

	if max := strategy.maxInFlight.Load(); max > 4 {
		t.Errorf("max in-flight probes = %d, want at most 4", max)
	}
}

func TestPoolRunEmptyInputs(t *testing.T) {
	prober, _ := NewProber(ProberConfig{
		Strategy: &countingStrategy{},
		Resolver: &fakeResolver{},
		Attempts: 1,
		Timeout:  time.Second,
	})

	tests := []struct {
		name    string
		targets []extract.Target
		workers int
	}{
		{"nil targets", nil, 4},
		{"empty targets", []extract.Target{}, 4},
		{"zero workers", makeTargets(3), 0},
		{"negative workers", makeTargets(3), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcomes := NewPool(tt.workers).Run(context.Background(), tt.targets, prober, nil)
			if outcomes == nil || len(outcomes) != 0 {
				t.Errorf("Run() = %v, want empty non-nil slice", outcomes)
			}
		})
	}
}

func TestPoolRunProgressMonotonic(t *testing.T) {
	targets := makeTargets(30)
	prober, _ := NewProber(ProberConfig{
		Strategy: &countingStrategy{},
		Resolver: &fakeResolver{},
		Attempts: 1,
		Timeout:  time.Second,
	})

	var mu sync.Mutex
	var seen []int
	NewPool(10).Run(context.Background(), targets, prober, func(completed, total int) {
		if total != len(targets) {
			t.Errorf("progress total = %d, want %d", total, len(targets))
		}
		mu.Lock()
		seen = append(seen, completed)
		mu.Unlock()
	})

	if len(seen) != len(targets) {
		t.Fatalf("progress called %d times, want %d", len(seen), len(targets))
	}
	for i, c := range seen {
		if c != i+1 {
			t.Fatalf("progress counts not strictly increasing: %v", seen)
		}
	}
}

func TestPoolRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prober, _ := NewProber(ProberConfig{
		Strategy: &countingStrategy{},
		Resolver: &fakeResolver{err: context.Canceled},
		Attempts: 1,
		Timeout:  time.Second,
	})

	targets := makeTargets(5)
	outcomes := NewPool(2).Run(ctx, targets, prober, nil)

	if len(outcomes) != len(targets) {
		t.Fatalf("len(outcomes) = %d, want %d", len(outcomes), len(targets))
	}
	for i, o := range outcomes {
		if o.Status == StatusSuccess {
			t.Errorf("outcomes[%d].Status = %v after cancellation", i, o.Status)
		}
	}
}
