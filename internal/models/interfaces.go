package models

import (
	"context"
	"time"
)

// Pinger probes a single target. A target that does not answer is reported
// through PingResponse.Alive; the error is reserved for transport failures.
type Pinger interface {
	Ping(ctx context.Context, target string, timeout time.Duration) (PingResponse, error)
}

// SpeedTester runs one bandwidth measurement as a single unit
type SpeedTester interface {
	Run(ctx context.Context) (SpeedtestResult, error)
}

// Recorder persists a finished Result
type Recorder interface {
	Record(result Result) error
}
