// Package summary reduces raw probe output to the short digest stored in
// every result record.
package summary

import (
	"fmt"
	"strconv"

	"network-quality-logger/internal/models"
)

// Reference bandwidths for the speed test ratios, in bytes per second.
const (
	DownloadReference = 125 * 1000 * 1000
	UploadReference   = 6.25 * 1000 * 1000
)

// Ping returns the mean round-trip time of all targets ("20.00ms"), or the
// number of unreachable targets ("1 failed") when any target failed.
func Ping(results []models.PingResponse) string {
	if len(results) == 0 {
		return "no results"
	}

	failed := 0
	var total float64
	for _, r := range results {
		if !r.Alive {
			failed++
			continue
		}
		total += r.Time
	}

	if failed != 0 {
		return fmt.Sprintf("%d failed", failed)
	}
	return fmt.Sprintf("%.2fms", total/float64(len(results)))
}

// Speed returns "<download>% <upload>% <latency>ms". The two ratios are
// measured bandwidth over the reference values, not scaled by 100.
func Speed(r models.SpeedtestResult) string {
	return fmt.Sprintf("%s%% %s%% %sms",
		formatNumber(r.Download.Bandwidth/DownloadReference),
		formatNumber(r.Upload.Bandwidth/UploadReference),
		formatNumber(r.Ping.Latency),
	)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
