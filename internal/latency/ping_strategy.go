package latency

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

// rttPatterns match the RTT in ping output across platforms.
// Linux/macOS: "time=XX.X ms", Windows: "time=XXms",
// plus the summary line "round-trip min/avg/max = a/b/c".
var rttPatterns = []*regexp.Regexp{
	regexp.MustCompile(`time[=<]([0-9.]+)\s*ms`),
	regexp.MustCompile(`time[=<]([0-9.]+)ms`),
	regexp.MustCompile(`round-trip min/avg/max = [0-9.]+/([0-9.]+)/`),
}

// PingStrategy measures latency with the system ping binary, one echo
// request per probe. Works without raw-socket privileges.
type PingStrategy struct {
	binary string
}

// NewPingStrategy creates a ping strategy, verifying the binary exists.
func NewPingStrategy() (*PingStrategy, error) {
	path, err := exec.LookPath("ping")
	if err != nil {
		return nil, fmt.Errorf("ping strategy requires the ping binary: %w", err)
	}
	return &PingStrategy{binary: path}, nil
}

func (s *PingStrategy) Name() string { return "ping" }

func (s *PingStrategy) Probe(ctx context.Context, host string, port int) (float64, error) {
	// The context deadline bounds the attempt; pass a matching -W/-w so
	// ping gives up on its own rather than being killed.
	timeout := 3 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, s.binary, "-n", "1", "-w", strconv.Itoa(int(timeout.Milliseconds())), host)
	} else {
		secs := int(timeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		cmd = exec.CommandContext(ctx, s.binary, "-c", "1", "-W", strconv.Itoa(secs), host)
	}

	output, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if err != nil {
		return 0, fmt.Errorf("ping failed: %w", err)
	}

	rtt, ok := parsePingOutput(string(output))
	if !ok {
		return 0, fmt.Errorf("no RTT found in ping output")
	}
	return rtt, nil
}

// parsePingOutput extracts the RTT in milliseconds from ping output.
func parsePingOutput(output string) (float64, bool) {
	for _, re := range rttPatterns {
		matches := re.FindStringSubmatch(output)
		if len(matches) > 1 {
			if rtt, err := strconv.ParseFloat(matches[1], 64); err == nil {
				return rtt, true
			}
		}
	}
	return 0, false
}
