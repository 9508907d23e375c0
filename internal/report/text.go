package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"network-quality-logger/internal/models"
)

func generateTextReport(outputDir string, results []models.Result, now time.Time, hours int) error {
	filename := filepath.Join(outputDir, "summary.txt")
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	writeTextReport(file, results, now, hours)

	return file.Close()
}

func writeTextReport(w io.Writer, results []models.Result, now time.Time, hours int) {
	fmt.Fprintf(w, "Network Quality Report\n")
	fmt.Fprintf(w, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	if hours > 0 {
		fmt.Fprintf(w, "Period: Last %d hours\n", hours)
	} else {
		fmt.Fprintf(w, "Period: All recorded results\n")
	}
	fmt.Fprintf(w, "Records: %d\n\n", len(results))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\nPING STATISTICS")

	targets := summarizeTargets(results)
	if len(targets) == 0 {
		fmt.Fprintln(w, "No ping samples recorded.")
	}
	for _, t := range targets {
		uptime := 100 - t.PacketLoss

		fmt.Fprintf(w, "Target: %s\n", t.Target)
		fmt.Fprintf(w, "  Total Pings: %d\n", t.TotalPings)
		fmt.Fprintf(w, "  Successful: %d (%.2f%%)\n", t.Successful, uptime)
		fmt.Fprintf(w, "  Packet Loss: %.2f%%\n", t.PacketLoss)

		if t.Successful > 0 {
			fmt.Fprintf(w, "  Average RTT: %.2f ms\n", t.AvgRTT)
			fmt.Fprintf(w, "  Min RTT: %.2f ms\n", t.MinRTT)
			fmt.Fprintf(w, "  Max RTT: %.2f ms\n", t.MaxRTT)
			fmt.Fprintf(w, "  P95 RTT: %.2f ms\n", t.P95)
			fmt.Fprintf(w, "  Jitter (stddev): %.2f ms\n", t.StdDev)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\nSPEED TESTS")

	speed := summarizeSpeed(results)
	fmt.Fprintf(w, "  Runs: %d (%d successful)\n", speed.Total, speed.Successful)
	if speed.Successful > 0 {
		fmt.Fprintf(w, "  Mean Download: %s\n", rate(speed.MeanDownload))
		fmt.Fprintf(w, "  Mean Upload: %s\n", rate(speed.MeanUpload))
		fmt.Fprintf(w, "  Download Range: %s - %s\n", rate(speed.MinDownload), rate(speed.MaxDownload))
		fmt.Fprintf(w, "  Mean Latency: %.2f ms\n", speed.MeanLatency)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "\nOUTAGE PERIODS (%d+ consecutive failed pings)\n", minOutageChecks)

	outages := detectOutages(results)
	for i, o := range outages {
		fmt.Fprintf(w, "Outage #%d\n", i+1)
		fmt.Fprintf(w, "  Start: %s\n", o.StartTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "  End: %s\n", o.EndTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "  Duration: %s\n", o.Duration)
		fmt.Fprintf(w, "  Failed Checks: %d\n", o.FailedChecks)
		fmt.Fprintln(w)
	}

	if len(outages) == 0 {
		fmt.Fprintln(w, "No significant outages detected.")
	} else {
		fmt.Fprintf(w, "\nTotal Outages: %d\n", len(outages))
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "\nCharts are available in the accompanying files.")
}

// rate formats a bandwidth in bytes per second
func rate(bytesPerSecond float64) string {
	return humanize.Bytes(uint64(bytesPerSecond)) + "/s"
}
