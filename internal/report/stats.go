package report

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"network-quality-logger/internal/models"
)

// minOutageChecks is the number of consecutive failed ping records that
// counts as an outage
const minOutageChecks = 3

type pointSeries struct {
	times  []time.Time
	values []float64
}

// targetSummary aggregates the ping samples of one target
type targetSummary struct {
	models.Stats
	StdDev float64
	P95    float64
}

type speedSummary struct {
	Total        int
	Successful   int
	MeanDownload float64 // bytes/s
	MeanUpload   float64 // bytes/s
	MeanLatency  float64 // ms
	MinDownload  float64
	MaxDownload  float64
}

// latencyByTarget collects RTTs of reachable targets from ping records
func latencyByTarget(results []models.Result) (map[string]*pointSeries, []string) {
	series := make(map[string]*pointSeries)
	var order []string
	for _, r := range results {
		pings, ok := r.Data.Pings()
		if !ok {
			continue
		}
		for _, p := range pings {
			s, seen := series[p.Host]
			if !seen {
				s = &pointSeries{}
				series[p.Host] = s
				order = append(order, p.Host)
			}
			if p.Alive {
				s.times = append(s.times, r.Time)
				s.values = append(s.values, p.Time)
			}
		}
	}
	sort.Strings(order)
	return series, order
}

func summarizeTargets(results []models.Result) []targetSummary {
	totals := make(map[string]int)
	for _, r := range results {
		pings, ok := r.Data.Pings()
		if !ok {
			continue
		}
		for _, p := range pings {
			totals[p.Host]++
		}
	}

	series, order := latencyByTarget(results)
	out := make([]targetSummary, 0, len(order))
	for _, target := range order {
		s := series[target]
		ts := targetSummary{Stats: models.Stats{
			Target:     target,
			TotalPings: totals[target],
			Successful: len(s.values),
		}}
		if ts.TotalPings > 0 {
			ts.PacketLoss = (1 - float64(ts.Successful)/float64(ts.TotalPings)) * 100
		}
		if len(s.values) > 0 {
			sorted := append([]float64(nil), s.values...)
			sort.Float64s(sorted)
			ts.AvgRTT = stat.Mean(sorted, nil)
			ts.MinRTT = sorted[0]
			ts.MaxRTT = sorted[len(sorted)-1]
			ts.P95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
			if len(sorted) > 1 {
				ts.StdDev = stat.StdDev(sorted, nil)
			}
		}
		out = append(out, ts)
	}
	return out
}

func summarizeSpeed(results []models.Result) speedSummary {
	var s speedSummary
	var down, up, latency []float64
	for _, r := range results {
		if r.Type != models.KindSpeedtest {
			continue
		}
		s.Total++
		st, ok := r.Data.Speedtest()
		if !r.IsSuccessful || !ok {
			continue
		}
		s.Successful++
		down = append(down, st.Download.Bandwidth)
		up = append(up, st.Upload.Bandwidth)
		latency = append(latency, st.Ping.Latency)
	}
	if len(down) == 0 {
		return s
	}

	s.MeanDownload = stat.Mean(down, nil)
	s.MeanUpload = stat.Mean(up, nil)
	s.MeanLatency = stat.Mean(latency, nil)
	sort.Float64s(down)
	s.MinDownload = down[0]
	s.MaxDownload = down[len(down)-1]
	return s
}

// detectOutages finds runs of at least minOutageChecks consecutive
// unsuccessful ping records
func detectOutages(results []models.Result) []models.Outage {
	var outages []models.Outage
	var current *models.Outage

	flush := func() {
		if current != nil && current.FailedChecks >= minOutageChecks {
			current.Duration = current.EndTime.Sub(current.StartTime).String()
			outages = append(outages, *current)
		}
		current = nil
	}

	for _, r := range results {
		if r.Type != models.KindPing {
			continue
		}
		if r.IsSuccessful {
			flush()
			continue
		}
		if current == nil {
			current = &models.Outage{StartTime: r.Time}
		}
		current.EndTime = r.Time
		current.FailedChecks++
	}
	flush()

	return outages
}

// availabilityByHour returns the share of successful ping records per hour
func availabilityByHour(results []models.Result) ([]time.Time, []float64) {
	type bucket struct{ total, ok int }
	buckets := make(map[time.Time]*bucket)
	var hours []time.Time
	for _, r := range results {
		if r.Type != models.KindPing {
			continue
		}
		h := r.Time.UTC().Truncate(time.Hour)
		b, seen := buckets[h]
		if !seen {
			b = &bucket{}
			buckets[h] = b
			hours = append(hours, h)
		}
		b.total++
		if r.IsSuccessful {
			b.ok++
		}
	}

	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })
	values := make([]float64, len(hours))
	for i, h := range hours {
		b := buckets[h]
		values[i] = float64(b.ok) / float64(b.total) * 100
	}
	return hours, values
}
