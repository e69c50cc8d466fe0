package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/shakedown/internal/vibe/summary"
)

// writeHTMLReport renders the FFT spectrum, peaks spectrogram, and
// matched-amplitude-vs-speed series as an interactive go-echarts
// dashboard — scatter/bar charts built the same way
// internal/lidar/monitor/echarts_handlers.go builds its own debug
// dashboards (NewScatter + VisualMap for a colored point cloud,
// NewBar for a labeled summary chart).
func writeHTMLReport(out summary.AnalysisSummary, path string) error {
	page := components.NewPage()
	page.AddCharts(
		spectrumChart(out),
		spectrogramChart(out),
		speedSeriesChart(out),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func spectrumChart(out summary.AnalysisSummary) *charts.Scatter {
	maxAmp := 0.0
	data := make([]opts.ScatterData, 0, len(out.Plots.FFTSpectrum))
	for _, pt := range out.Plots.FFTSpectrum {
		if pt.AmpG > maxAmp {
			maxAmp = pt.AmpG
		}
		data = append(data, opts.ScatterData{Value: []interface{}{pt.FrequencyHz, pt.AmpG}})
	}
	if maxAmp == 0 {
		maxAmp = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "960px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "FFT spectrum", Subtitle: "run " + out.RunID}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frequency (Hz)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "amplitude (g)", Min: 0, Max: maxAmp * 1.1}),
	)
	scatter.AddSeries("persistence-weighted", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	return scatter
}

// spectrogramChart renders the time x frequency peaks spectrogram as a
// colored point cloud (x=time bucket, y=frequency bin, color=amplitude),
// the same VisualMap-colored scatter technique
// handleBackgroundGridPolar uses for its own grid/observation plot.
func spectrogramChart(out summary.AnalysisSummary) *charts.Scatter {
	maxAmp := 0.0
	data := make([]opts.ScatterData, 0, len(out.Plots.PeaksSpectrogram))
	for _, cell := range out.Plots.PeaksSpectrogram {
		if cell.AmpG > maxAmp {
			maxAmp = cell.AmpG
		}
		data = append(data, opts.ScatterData{Value: []interface{}{cell.TimeBucketS, cell.FrequencyHz, cell.AmpG}})
	}
	if maxAmp == 0 {
		maxAmp = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "960px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "peaks spectrogram"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time bucket (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "frequency (Hz)"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxAmp),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#6ece58", "#fde725"}},
		}),
	)
	scatter.AddSeries("amplitude", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	return scatter
}

func speedSeriesChart(out summary.AnalysisSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "960px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "matched amplitude vs speed"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	var xs []string
	for _, series := range out.Plots.MatchedAmpVsSpeed {
		if len(series.Bins) > len(xs) {
			xs = make([]string, 0, len(series.Bins))
			for _, b := range series.Bins {
				xs = append(xs, b.SpeedBandLabel)
			}
		}
	}
	bar.SetXAxis(xs)
	for _, series := range out.Plots.MatchedAmpVsSpeed {
		data := make([]opts.BarData, 0, len(series.Bins))
		for _, b := range series.Bins {
			data = append(data, opts.BarData{Value: b.MeanAmpG})
		}
		bar.AddSeries(string(series.ReferenceKey), data)
	}
	return bar
}
