package monitor

import (
	"context"

	"network-quality-logger/internal/models"
	"network-quality-logger/internal/ping"
	"network-quality-logger/internal/summary"
)

// SelectProbe returns the probe for a tick: a speed test on every
// every-th tick starting with tick 0, a ping test otherwise.
func SelectProbe(loop uint64, every int) models.ProbeKind {
	if every > 0 && loop%uint64(every) == 0 {
		return models.KindSpeedtest
	}
	return models.KindPing
}

// Tick runs exactly one probe and records exactly one result.
func (m *Monitor) Tick(ctx context.Context) models.Result {
	loop := m.loop.Add(1) - 1
	m.log.Info("loop", "n", loop)

	var result models.Result
	switch SelectProbe(loop, m.config.SpeedtestEvery) {
	case models.KindSpeedtest:
		result = m.testSpeed(ctx)
	default:
		result = m.testPing(ctx)
	}

	if err := m.recorder.Record(result); err != nil {
		m.log.Error("Failed to record result", "loop", loop, "type", result.Type, "error", err)
	}
	return result
}

// testPing probes every target; any probe error fails the whole test
func (m *Monitor) testPing(ctx context.Context) models.Result {
	results, err := ping.ProbeAll(ctx, m.pinger, m.config.Targets, m.config.PingTimeout)
	if err != nil {
		m.log.Warn("Ping test failed", "error", err)
		return models.NewResult(m.now(), models.KindPing, false, "failed", models.ErrorData(err.Error()))
	}

	alive := true
	for _, r := range results {
		if !r.Alive {
			alive = false
			break
		}
	}
	return models.NewResult(m.now(), models.KindPing, alive, summary.Ping(results), models.PingData(results))
}

func (m *Monitor) testSpeed(ctx context.Context) models.Result {
	m.log.Info("Running speed test")

	result, err := m.tester.Run(ctx)
	if err != nil {
		m.log.Warn("Speed test failed", "error", err)
		return models.NewResult(m.now(), models.KindSpeedtest, false, "failed", models.ErrorData(err.Error()))
	}

	digest := summary.Speed(result)
	m.log.Info("Speed test complete", "summary", digest)
	return models.NewResult(m.now(), models.KindSpeedtest, true, digest, models.SpeedtestData(result))
}
