package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Config carries every tunable of the processing chain. All values are
// passed explicitly; nothing is read from the environment.
type Config struct {
	SampleRate float64 // Hz
	NotchFreq  float64 // mains interference center, Hz
	NotchQ     float64 // notch quality factor, bandwidth is NotchFreq/NotchQ
	Lowcut     float64 // bandpass lower edge, Hz
	Highcut    float64 // bandpass upper edge, Hz
	Order      int     // Butterworth bandpass order
	PeakHeight float64 // minimum R-peak amplitude, V
}

// DefaultConfig matches a 1 kHz capture on a 50 Hz mains grid. The bandpass
// order defaults to 2: with a lower edge this close to DC, higher-order
// transfer functions put poles almost on the unit circle and their edge
// transients can leak spurious maxima into peak detection.
func DefaultConfig() Config {
	return Config{
		SampleRate: 1000,
		NotchFreq:  50,
		NotchQ:     30,
		Lowcut:     0.5,
		Highcut:    40,
		Order:      2,
		PeakHeight: 0.5,
	}
}

// Analysis bundles everything the chart renderer consumes: the signal after
// the notch stage with its spectrum, the fully filtered signal with its
// spectrum, the detected R-peaks and the heart rate. HeartRateValid is false
// when fewer than two peaks were found.
type Analysis struct {
	Notched          Signal
	NotchedSpectrum  Spectrum
	Filtered         Signal
	FilteredSpectrum Spectrum
	Peaks            []int
	HeartRate        float64 // bpm
	HeartRateValid   bool
}

// Analyze runs the full chain on one recording: notch, bandpass, spectra,
// peak detection and heart-rate estimation. Malformed filter parameters
// abort the run; an undetermined heart rate does not.
func Analyze(sig Signal, cfg Config) (*Analysis, error) {
	notched, err := NotchFilter(sig, cfg.NotchFreq, cfg.NotchQ)
	if err != nil {
		return nil, fmt.Errorf("notch stage: %w", err)
	}
	notchedSpec, err := NewSpectrum(notched)
	if err != nil {
		return nil, err
	}

	filtered, err := BandpassFilter(notched, cfg.Lowcut, cfg.Highcut, cfg.Order)
	if err != nil {
		return nil, fmt.Errorf("bandpass stage: %w", err)
	}
	filteredSpec, err := NewSpectrum(filtered)
	if err != nil {
		return nil, err
	}

	peaks, err := DetectPeaks(filtered, cfg.PeakHeight)
	if err != nil {
		return nil, fmt.Errorf("peak detection: %w", err)
	}

	a := &Analysis{
		Notched:          notched,
		NotchedSpectrum:  notchedSpec,
		Filtered:         filtered,
		FilteredSpectrum: filteredSpec,
		Peaks:            peaks,
	}
	if bpm, ok := EstimateHeartRate(peaks, sig.Rate); ok {
		a.HeartRate = bpm
		a.HeartRateValid = true
	}
	return a, nil
}

// AnalyzeFiles processes several recordings concurrently, one goroutine per
// file. Every stage allocates its own output, so whole-recording jobs need
// no coordination beyond the fan-out.
func AnalyzeFiles(paths []string, cfg Config, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	var wg sync.WaitGroup
	errs := make([]error, len(paths))
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			errs[i] = processRecording(path, cfg, outDir)
		}(i, path)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func processRecording(path string, cfg Config, outDir string) error {
	times, sig, err := LoadRecording(path, cfg.SampleRate)
	if err != nil {
		return err
	}
	a, err := Analyze(sig, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if a.HeartRateValid {
		log.Infof("%s: heart rate %.2f bpm from %d peaks", path, a.HeartRate, len(a.Peaks))
	} else {
		log.Warnf("%s: no peaks detected, heart rate undetermined", path)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dashboard := filepath.Join(outDir, base+"_processed.html")
	if err := RenderAnalysis(times, a, dashboard); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	peaksChart := filepath.Join(outDir, base+"_peaks.html")
	if err := RenderPeaks(times, a, peaksChart); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("%s: wrote %s and %s", path, dashboard, peaksChart)
	return nil
}
