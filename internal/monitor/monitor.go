package monitor

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"network-quality-logger/internal/config"
	"network-quality-logger/internal/logging"
	"network-quality-logger/internal/models"
)

// Monitor runs one probe per tick and records its result
type Monitor struct {
	config   config.Config
	pinger   models.Pinger
	tester   models.SpeedTester
	recorder models.Recorder
	log      *slog.Logger
	now      func() time.Time

	// loop counts ticks since start; its pre-increment value picks the probe
	loop atomic.Uint64

	pruner    Pruner
	retention time.Duration

	cron    *cron.Cron
	cancel  context.CancelFunc
	stopped context.Context
}

// New creates a new Monitor
func New(cfg config.Config, pinger models.Pinger, tester models.SpeedTester, recorder models.Recorder, logger *slog.Logger) *Monitor {
	return &Monitor{
		config:   cfg,
		pinger:   pinger,
		tester:   tester,
		recorder: recorder,
		log:      logger,
		now:      time.Now,
	}
}

// Start schedules a tick every configured interval. Each tick runs in its own
// goroutine, so a slow probe never delays the next tick and ticks may overlap.
func (m *Monitor) Start(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(logging.NewContext(ctx, m.log))

	cl := logging.CronLogger{L: m.log}
	m.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl)))
	m.cron.Schedule(cron.Every(m.config.Interval), cron.FuncJob(func() {
		m.Tick(ctx)
	}))

	if m.pruner != nil {
		// Run immediately on start
		m.performMaintenance()
		if _, err := m.cron.AddFunc("@hourly", m.performMaintenance); err != nil {
			m.cancel()
			return err
		}
	}

	m.cron.Start()
	m.log.Info("Monitor started",
		"targets", m.config.Targets,
		"interval", m.config.Interval,
		"speedtest_every", m.config.SpeedtestEvery)
	return nil
}

// Stop stops scheduling new ticks and cancels probes still in flight
func (m *Monitor) Stop() {
	if m.cron == nil {
		return
	}
	m.log.Info("Stopping monitor...")
	m.stopped = m.cron.Stop()
	m.cancel()
}

// Wait blocks until running ticks have recorded their results
func (m *Monitor) Wait() {
	if m.stopped == nil {
		return
	}
	<-m.stopped.Done()
	m.log.Info("Monitor stopped", "ticks", m.loop.Load())
}
