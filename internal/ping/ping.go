package ping

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"time"

	"network-quality-logger/internal/models"
)

// Pinger probes targets with the system ping binary
type Pinger struct {
	binary string
}

// New creates a new Pinger
func New() *Pinger {
	return &Pinger{binary: "ping"}
}

// Ping executes a single echo request to the target and returns the result.
// A target that does not answer yields Alive=false; an error is returned only
// when the ping binary cannot be run or ctx is cancelled.
func (p *Pinger) Ping(ctx context.Context, target string, timeout time.Duration) (models.PingResponse, error) {
	result := models.PingResponse{Host: target}

	// Give the binary a moment beyond its own reply timeout to exit on its own
	runCtx, cancel := context.WithTimeout(ctx, timeout+2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.binary, pingArgs(runtime.GOOS, target, timeout)...)
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()
	result.Output = string(output)
	result.NumericHost = parseNumericHost(result.Output)

	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("ping %s: %w", target, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) || errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			result.PacketLoss = 100
			return result, nil
		}
		return result, fmt.Errorf("ping %s: %w", target, err)
	}

	result.Alive = true
	result.Time = parsePingOutput(result.Output)
	if loss, ok := parsePacketLoss(result.Output); ok {
		result.PacketLoss = loss
	}
	return result, nil
}

// pingArgs builds platform-specific arguments for a single echo request
func pingArgs(goos, target string, timeout time.Duration) []string {
	switch goos {
	case "windows":
		return []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10), target}
	case "darwin":
		return []string{"-c", "1", "-W", strconv.FormatInt(timeout.Milliseconds(), 10), target}
	default:
		secs := int64(timeout / time.Second)
		if secs < 1 {
			secs = 1
		}
		return []string{"-c", "1", "-W", strconv.FormatInt(secs, 10), target}
	}
}

var (
	// Linux/Mac: "time=XX.X ms"
	// Windows: "time=XXms" or "time<1ms"
	rttPatterns = []*regexp.Regexp{
		regexp.MustCompile(`time[=<]([0-9.]+)\s*ms`),
		regexp.MustCompile(`round-trip min/avg/max(?:/stddev)? = [0-9.]+/([0-9.]+)/`),
		regexp.MustCompile(`rtt min/avg/max/mdev = [0-9.]+/([0-9.]+)/`),
	}
	numericHostPattern = regexp.MustCompile(`(?m)^(?:PING|Pinging) \S+ [(\[]([0-9a-fA-F:.]+)[)\]]`)
	packetLossPattern  = regexp.MustCompile(`([0-9.]+)% (?:packet )?loss`)
)

// parsePingOutput parses RTT from ping output
func parsePingOutput(output string) float64 {
	for _, re := range rttPatterns {
		matches := re.FindStringSubmatch(output)
		if len(matches) > 1 {
			if rtt, err := strconv.ParseFloat(matches[1], 64); err == nil {
				return rtt
			}
		}
	}
	return 0
}

func parseNumericHost(output string) string {
	if m := numericHostPattern.FindStringSubmatch(output); len(m) > 1 {
		return m[1]
	}
	return ""
}

func parsePacketLoss(output string) (float64, bool) {
	m := packetLossPattern.FindStringSubmatch(output)
	if len(m) < 2 {
		return 0, false
	}
	loss, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return loss, true
}
