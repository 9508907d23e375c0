package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"network-quality-logger/internal/models"
)

var gridStyle = chart.Style{
	StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
	StrokeWidth: 1.0,
}

var padding = chart.Style{
	Padding: chart.Box{
		Top:    20,
		Left:   20,
		Right:  20,
		Bottom: 20,
	},
}

func axisStyle() chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorBlack,
		FontSize:    10,
	}
}

func generateLatencyChart(outputDir string, results []models.Result) error {
	series, order := latencyByTarget(results)

	// Create chart for each target
	for _, target := range order {
		data := series[target]
		if len(data.values) < 2 {
			continue
		}

		graph := chart.Chart{
			Title:      fmt.Sprintf("Network Latency - %s", target),
			TitleStyle: chart.Style{FontSize: 16},
			Background: padding,
			Width:      1200,
			Height:     400,
			XAxis: chart.XAxis{
				Name:           "Time",
				NameStyle:      chart.Style{FontSize: 12},
				Style:          axisStyle(),
				ValueFormatter: chart.TimeMinuteValueFormatter,
			},
			YAxis: chart.YAxis{
				Name:           "Latency (ms)",
				NameStyle:      chart.Style{FontSize: 12},
				Style:          axisStyle(),
				GridMajorStyle: gridStyle,
			},
			Series: []chart.Series{
				chart.TimeSeries{
					Name: target,
					Style: chart.Style{
						StrokeColor: chart.GetDefaultColor(0),
						StrokeWidth: 2,
					},
					XValues: data.times,
					YValues: data.values,
				},
			},
		}

		// Add moving average
		if len(data.values) > 10 {
			ts := graph.Series[0].(chart.TimeSeries)
			graph.Series = append(graph.Series, chart.SMASeries{
				Name: "Moving Avg",
				Style: chart.Style{
					StrokeColor:     chart.GetDefaultColor(1),
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
				InnerSeries: ts,
				Period:      10,
			})
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("latency_%s.png", sanitizeFilename(target)))
		if err := renderPNG(filename, graph); err != nil {
			return fmt.Errorf("%s: %w", target, err)
		}
	}

	return nil
}

func generateThroughputChart(outputDir string, results []models.Result) error {
	var down, up pointSeries
	for _, r := range results {
		st, ok := r.Data.Speedtest()
		if !ok || !r.IsSuccessful {
			continue
		}
		down.times = append(down.times, r.Time)
		down.values = append(down.values, toMbps(st.Download.Bandwidth))
		up.times = append(up.times, r.Time)
		up.values = append(up.values, toMbps(st.Upload.Bandwidth))
	}
	if len(down.values) < 2 {
		return nil
	}

	graph := chart.Chart{
		Title:      "Throughput",
		TitleStyle: chart.Style{FontSize: 16},
		Background: padding,
		Width:      1200,
		Height:     400,
		XAxis: chart.XAxis{
			Name:           "Time",
			Style:          axisStyle(),
			ValueFormatter: chart.TimeHourValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Mbit/s",
			Style:          axisStyle(),
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Download",
				Style:   chart.Style{StrokeColor: chart.GetDefaultColor(0), StrokeWidth: 2},
				XValues: down.times,
				YValues: down.values,
			},
			chart.TimeSeries{
				Name:    "Upload",
				Style:   chart.Style{StrokeColor: chart.GetDefaultColor(1), StrokeWidth: 2},
				XValues: up.times,
				YValues: up.values,
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	return renderPNG(filepath.Join(outputDir, "throughput.png"), graph)
}

func generateAvailabilityChart(outputDir string, results []models.Result) error {
	hours, values := availabilityByHour(results)
	if len(hours) < 2 {
		return nil
	}

	graph := chart.Chart{
		Title:      "Network Availability (Hourly)",
		TitleStyle: chart.Style{FontSize: 16},
		Background: padding,
		Width:      1200,
		Height:     400,
		XAxis: chart.XAxis{
			Name:           "Time",
			Style:          axisStyle(),
			ValueFormatter: chart.TimeHourValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Successful ping tests %",
			Style: axisStyle(),
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Availability",
				Style:   chart.Style{StrokeColor: chart.GetDefaultColor(0), StrokeWidth: 2},
				XValues: hours,
				YValues: values,
			},
		},
	}

	return renderPNG(filepath.Join(outputDir, "availability.png"), graph)
}

func renderPNG(filename string, graph chart.Chart) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := graph.Render(chart.PNG, file); err != nil {
		file.Close()
		os.Remove(filename)
		return err
	}
	return file.Close()
}

func toMbps(bytesPerSecond float64) float64 {
	return bytesPerSecond * 8 / 1e6
}

// sanitizeFilename replaces dots and special characters for safe filenames
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		".", "_",
		":", "_",
		"/", "_",
		"\\", "_",
		" ", "_",
	)
	return replacer.Replace(s)
}
