package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"network-quality-logger/internal/database"
	"network-quality-logger/internal/logging"
	"network-quality-logger/internal/models"
	"network-quality-logger/internal/report"
	"network-quality-logger/internal/resultlog"
)

var (
	reportLogDir   string
	reportDBPath   string
	reportHours    int
	reportOutDir   string
	reportLogLevel string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate charts and a text summary from recorded results",
	Long: "report reads the NDJSON result logs (or the SQLite mirror) and writes latency, " +
		"throughput and availability charts plus summary.txt into a new report directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(reportLogLevel)

		results, err := loadResults(reportLogDir, reportDBPath, reportHours, time.Now())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return errors.New("no results found")
		}

		dir, err := report.NewGenerator(results, logger).GenerateReport(reportOutDir, reportHours)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportLogDir, "logs", "", "Directory of NDJSON result logs (default <executable>/../logs)")
	reportCmd.Flags().StringVar(&reportDBPath, "db", "", "Read results from this SQLite mirror instead of the logs")
	reportCmd.Flags().IntVar(&reportHours, "hours", 24, "Hours of results to include (0 for all)")
	reportCmd.Flags().StringVar(&reportOutDir, "out", "reports", "Directory to write the report into")
	reportCmd.Flags().StringVar(&reportLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	reportCmd.MarkFlagsMutuallyExclusive("logs", "db")
}

// loadResults reads results from the database when dbPath is set, otherwise
// from the NDJSON logs in logDir.
func loadResults(logDir, dbPath string, hours int, now time.Time) ([]models.Result, error) {
	if dbPath != "" {
		db, err := database.New(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		return db.GetRecent(since(now, hours))
	}

	if logDir == "" {
		var err error
		logDir, err = resultlog.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log directory: %w", err)
		}
	}
	return resultlog.ReadDir(logDir)
}

// since returns the start of the reporting window; zero means everything.
func since(now time.Time, hours int) time.Time {
	if hours <= 0 {
		return time.Time{}
	}
	return now.Add(-time.Duration(hours) * time.Hour)
}
