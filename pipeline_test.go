package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ecgFixture builds the 5 s test capture: a 1.2 Hz beat component with 50 Hz
// mains interference on top.
func ecgFixture(t *testing.T) Signal {
	t.Helper()
	n := 5000
	samples := sine(1.2, 1.0, 1000, n)
	for i, v := range sine(50, 0.3, 1000, n) {
		samples[i] += v
	}
	return mustSignal(t, samples, 1000)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	sig := ecgFixture(t)
	a, err := Analyze(sig, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if !a.HeartRateValid {
		t.Fatalf("heart rate undetermined, peaks = %v", a.Peaks)
	}
	if a.HeartRate < 70 || a.HeartRate > 74 {
		t.Errorf("heart rate %.2f bpm, want within [70, 74]", a.HeartRate)
	}
	// Exactly the six beats of the 1.2 Hz component; filter edge transients
	// near either end must not survive as extra peaks.
	if len(a.Peaks) != 6 {
		t.Errorf("got %d peaks %v, want the 6 beats", len(a.Peaks), a.Peaks)
	}
	if len(a.Peaks) > 0 {
		first, last := a.Peaks[0], a.Peaks[len(a.Peaks)-1]
		if first < 100 || last > sig.Len()-100 {
			t.Errorf("peaks %v reach into the filter edge region", a.Peaks)
		}
	}
	for i := 1; i < len(a.Peaks); i++ {
		if a.Peaks[i] <= a.Peaks[i-1] {
			t.Fatalf("peak indices not strictly increasing: %v", a.Peaks)
		}
	}
	if a.Notched.Len() != sig.Len() || a.Filtered.Len() != sig.Len() {
		t.Errorf("filtering changed the length: %d -> %d/%d",
			sig.Len(), a.Notched.Len(), a.Filtered.Len())
	}

	// The notch must wipe out the 50 Hz interference peak.
	rawSpec, err := NewSpectrum(sig)
	if err != nil {
		t.Fatal(err)
	}
	raw50 := rawSpec.MagnitudeAt(50)
	notched50 := a.NotchedSpectrum.MagnitudeAt(50)
	if raw50-notched50 < 20 {
		t.Errorf("50 Hz bin only dropped %.1f dB (%.1f -> %.1f)", raw50-notched50, raw50, notched50)
	}

	// After the full chain the spectrum has no discernible 50 Hz peak left:
	// the beat component towers over it.
	beat := a.FilteredSpectrum.MagnitudeAt(1.2)
	mains := a.FilteredSpectrum.MagnitudeAt(50)
	if beat-mains < 20 {
		t.Errorf("filtered spectrum: beat %.1f dB vs mains %.1f dB", beat, mains)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SampleRate != 1000 || cfg.NotchFreq != 50 || cfg.NotchQ != 30 {
		t.Errorf("notch defaults: %+v", cfg)
	}
	if cfg.Lowcut != 0.5 || cfg.Highcut != 40 || cfg.Order != 2 {
		t.Errorf("bandpass defaults: %+v", cfg)
	}
	if cfg.PeakHeight != 0.5 {
		t.Errorf("peak height default: %v", cfg.PeakHeight)
	}
}

func TestAnalyzeNoPeaks(t *testing.T) {
	// Everything stays below the 0.5 V peak threshold: a valid outcome,
	// not an error.
	sig := mustSignal(t, sine(1.2, 0.3, 1000, 5000), 1000)
	a, err := Analyze(sig, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if a.HeartRateValid {
		t.Errorf("expected undetermined heart rate, got %.2f bpm", a.HeartRate)
	}
	if len(a.Peaks) != 0 {
		t.Errorf("expected no peaks, got %v", a.Peaks)
	}
}

func TestAnalyzeBadFilterConfig(t *testing.T) {
	sig := ecgFixture(t)

	cfg := DefaultConfig()
	cfg.Lowcut, cfg.Highcut = 40, 0.5
	if _, err := Analyze(sig, cfg); !errors.Is(err, ErrInvalidFilterRange) {
		t.Errorf("reversed cutoffs: got %v", err)
	}

	cfg = DefaultConfig()
	cfg.NotchFreq = 600
	if _, err := Analyze(sig, cfg); !errors.Is(err, ErrInvalidFilterRange) {
		t.Errorf("notch above nyquist: got %v", err)
	}
}

func TestRenderCharts(t *testing.T) {
	sig := ecgFixture(t)
	a, err := Analyze(sig, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	times := make([]float64, sig.Len())
	for i := range times {
		times[i] = float64(i) / sig.Rate
	}

	dir := t.TempDir()
	dashboard := filepath.Join(dir, "dashboard.html")
	if err := RenderAnalysis(times, a, dashboard); err != nil {
		t.Fatal(err)
	}
	peaksChart := filepath.Join(dir, "peaks.html")
	if err := RenderPeaks(times, a, peaksChart); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{dashboard, peaksChart} {
		info, err := os.Stat(name)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestAnalyzeFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for f := 0; f < 3; f++ {
		var b strings.Builder
		b.WriteString("Starting new capture\n")
		b.WriteString("Time(ms),Voltage(V)\n")
		sig := ecgFixture(t)
		for i, v := range sig.Samples {
			fmt.Fprintf(&b, "%d,%.6f\n", i, v)
		}
		path := filepath.Join(dir, fmt.Sprintf("capture_%d.csv", f))
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	out := t.TempDir()
	if err := AnalyzeFiles(paths, DefaultConfig(), out); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2*len(paths) {
		t.Errorf("got %d charts, want %d", len(entries), 2*len(paths))
	}
}
