package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// The chart layer consumes the pipeline's artifacts and owns all figure
// layout and file naming. It writes self-contained HTML pages.

func lineChart(title, xName, yName string, xs, ys []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	data := make([]opts.LineData, len(ys))
	for i, v := range ys {
		data[i] = opts.LineData{Value: []interface{}{xs[i], v}}
	}
	line.AddSeries(yName, data)
	return line
}

// RenderAnalysis writes the four-panel diagnostic page: the notched signal
// and its spectrum on top, the fully filtered signal and its spectrum below.
func RenderAnalysis(times []float64, a *Analysis, name string) error {
	page := components.NewPage()
	page.PageTitle = "ECG analysis"
	page.AddCharts(
		lineChart("Original Signal (Time Domain)", "Time (s)", "Voltage (V)",
			times, a.Notched.Samples),
		lineChart("Original Signal (Frequency Domain)", "Frequency (Hz)", "Magnitude (dB)",
			a.NotchedSpectrum.Freq, a.NotchedSpectrum.Magnitude),
		lineChart("Filtered Signal (Time Domain)", "Time (s)", "Voltage (V)",
			times, a.Filtered.Samples),
		lineChart("Filtered Signal (Frequency Domain)", "Frequency (Hz)", "Magnitude (dB)",
			a.FilteredSpectrum.Freq, a.FilteredSpectrum.Magnitude),
	)

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

// RenderPeaks writes the filtered trace with markers on every detected
// R-peak. The title carries the heart rate, or notes that none could be
// determined.
func RenderPeaks(times []float64, a *Analysis, name string) error {
	title := "ECG Signal with Detected Peaks (No Peaks Detected)"
	if a.HeartRateValid {
		title = fmt.Sprintf("ECG Signal with Detected Peaks (Heart Rate: %.2f bpm)", a.HeartRate)
	}
	line := lineChart(title, "Time (s)", "Voltage (V)", times, a.Filtered.Samples)

	if len(a.Peaks) > 0 {
		scatter := charts.NewScatter()
		data := make([]opts.ScatterData, len(a.Peaks))
		for i, p := range a.Peaks {
			data[i] = opts.ScatterData{
				Value:      []interface{}{times[p], a.Filtered.Samples[p]},
				SymbolSize: 10,
			}
		}
		scatter.AddSeries("Detected Peaks", data)
		line.Overlap(scatter)
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}

// RenderSignal writes a single unprocessed trace. It backs the plot command,
// which charts a capture exactly as recorded.
func RenderSignal(times []float64, sig Signal, title, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return lineChart(title, "Time (s)", "Voltage (V)", times, sig.Samples).Render(f)
}
