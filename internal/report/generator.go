package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"network-quality-logger/internal/models"
)

// Generator creates charts and a text summary from recorded results
type Generator struct {
	results []models.Result
	log     *slog.Logger
	now     func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(results []models.Result, logger *slog.Logger) *Generator {
	sorted := make([]models.Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	return &Generator{results: sorted, log: logger, now: time.Now}
}

// GenerateReport writes a timestamped report directory under outputDir covering
// the last hours of results (all results when hours <= 0) and returns its path.
// Individual chart failures are logged and do not abort the report.
func (g *Generator) GenerateReport(outputDir string, hours int) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	now := g.now()
	reportDir := filepath.Join(outputDir, fmt.Sprintf("network_report_%s", now.Format("2006-01-02_15-04-05")))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	results := g.window(now, hours)

	if err := generateLatencyChart(reportDir, results); err != nil {
		g.log.Warn("Failed to generate latency chart", "error", err)
	}

	if err := generateThroughputChart(reportDir, results); err != nil {
		g.log.Warn("Failed to generate throughput chart", "error", err)
	}

	if err := generateAvailabilityChart(reportDir, results); err != nil {
		g.log.Warn("Failed to generate availability chart", "error", err)
	}

	if err := generateTextReport(reportDir, results, now, hours); err != nil {
		return reportDir, fmt.Errorf("failed to generate text report: %w", err)
	}

	g.log.Info("Report generated", "dir", reportDir, "results", len(results))
	return reportDir, nil
}

func (g *Generator) window(now time.Time, hours int) []models.Result {
	if hours <= 0 {
		return g.results
	}
	cutoff := now.Add(-time.Duration(hours) * time.Hour)
	idx := sort.Search(len(g.results), func(i int) bool {
		return !g.results[i].Time.Before(cutoff)
	})
	return g.results[idx:]
}
