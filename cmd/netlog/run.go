package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"network-quality-logger/internal/config"
	"network-quality-logger/internal/database"
	"network-quality-logger/internal/logging"
	"network-quality-logger/internal/models"
	"network-quality-logger/internal/monitor"
	"network-quality-logger/internal/ping"
	"network-quality-logger/internal/resultlog"
	"network-quality-logger/internal/speedtest"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the logger until interrupted",
	RunE:  runLogger,
}

func init() {
	addRunFlags(runCmd)
}

func runLogger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	recorder, cleanup, err := newRecorder(cfg, logger, time.Now())
	if err != nil {
		return err
	}
	defer cleanup()

	mon := monitor.New(cfg, newPinger(cfg), speedtest.NewCLIRunner(cfg.SpeedtestBinary, cfg.SpeedtestServerID, cfg.SpeedtestTimeout), recorder.recorder, logger)
	if recorder.db != nil {
		mon.EnableMaintenance(recorder.db, time.Duration(cfg.RetentionDays)*24*time.Hour)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mon.Start(ctx); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	<-ctx.Done()
	logger.Info("Shutting down...")
	mon.Stop()
	mon.Wait()
	return nil
}

func newPinger(cfg config.Config) models.Pinger {
	if cfg.PingMode == config.PingModeICMP {
		return ping.NewICMP(cfg.ICMPPrivileged)
	}
	return ping.New()
}

type recorderSet struct {
	recorder models.Recorder
	db       *database.DB
}

// newRecorder opens the NDJSON log for this run and, when configured, the
// SQLite mirror. The returned cleanup closes everything that was opened.
func newRecorder(cfg config.Config, logger *slog.Logger, start time.Time) (recorderSet, func(), error) {
	dir := cfg.LogDir
	if dir == "" {
		var err error
		dir, err = resultlog.DefaultDir()
		if err != nil {
			return recorderSet{}, nil, fmt.Errorf("failed to resolve log directory: %w", err)
		}
	}

	w, err := resultlog.Open(dir, start)
	if err != nil {
		return recorderSet{}, nil, err
	}
	logger.Info("Logging results", "path", w.Path())

	closers := []io.Closer{w}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Error("Close failed", "error", err)
			}
		}
	}

	if cfg.DatabasePath == "" {
		return recorderSet{recorder: w}, cleanup, nil
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		cleanup()
		return recorderSet{}, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	closers = append(closers, db)
	if err := db.InitSchema(); err != nil {
		cleanup()
		return recorderSet{}, nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	runID := uuid.NewString()
	logger.Info("Mirroring results to database", "path", cfg.DatabasePath, "run_id", runID)

	return recorderSet{
		recorder: monitor.NewMultiRecorder(logger, w, database.NewSink(db, runID)),
		db:       db,
	}, cleanup, nil
}
