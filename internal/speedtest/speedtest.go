package speedtest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"network-quality-logger/internal/models"
)

// CLIRunner measures bandwidth with the Ookla speedtest CLI
type CLIRunner struct {
	bin      string
	serverID string
	timeout  time.Duration
}

// NewCLIRunner creates a runner for the given binary. serverID may be empty to
// let the CLI pick the closest server.
func NewCLIRunner(bin, serverID string, timeout time.Duration) *CLIRunner {
	return &CLIRunner{
		bin:      bin,
		serverID: serverID,
		timeout:  timeout,
	}
}

// Args returns the command line arguments passed to the CLI
func (c *CLIRunner) Args() []string {
	args := []string{"--format=json", "--accept-license", "--accept-gdpr"}
	if c.serverID != "" {
		args = append(args, "--server-id="+c.serverID)
	}
	return args
}

// Run executes one speed test and returns its result event.
func (c *CLIRunner) Run(ctx context.Context) (models.SpeedtestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.bin, c.Args()...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()

	// The CLI reports failures as log events on stdout, often with a non-zero
	// exit status, so inspect the output before the exit status.
	result, parseErr := ParseOutput(&stdout)
	if parseErr == nil {
		return result, nil
	}

	if ctx.Err() != nil {
		return models.SpeedtestResult{}, fmt.Errorf("speedtest: %w", ctx.Err())
	}
	if runErr == nil || !errors.Is(parseErr, ErrNoResult) {
		return models.SpeedtestResult{}, parseErr
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return models.SpeedtestResult{}, fmt.Errorf("speedtest: %w: %s", runErr, msg)
	}
	return models.SpeedtestResult{}, fmt.Errorf("speedtest: %w", runErr)
}

// LogError is an error-level log event emitted by the CLI
type LogError struct {
	Message string
}

func (e *LogError) Error() string {
	return e.Message
}

// ErrNoResult is returned when the CLI output contains no result event
var ErrNoResult = errors.New("speedtest: no result in output")

type event struct {
	Type    string `json:"type"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ParseOutput scans the CLI's line-delimited JSON output for the result
// event. An error-level log event takes precedence over a missing result.
func ParseOutput(r io.Reader) (models.SpeedtestResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var logErr error
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var ev event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}

		switch ev.Type {
		case "result":
			var result models.SpeedtestResult
			if err := json.Unmarshal(line, &result); err != nil {
				return models.SpeedtestResult{}, fmt.Errorf("decode speedtest result: %w", err)
			}
			return result, nil
		case "log":
			if ev.Level == "error" && logErr == nil {
				logErr = &LogError{Message: ev.Message}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return models.SpeedtestResult{}, fmt.Errorf("read speedtest output: %w", err)
	}
	if logErr != nil {
		return models.SpeedtestResult{}, logErr
	}
	return models.SpeedtestResult{}, ErrNoResult
}
