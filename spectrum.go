package main

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is a one-sided magnitude spectrum: Freq ascends from zero in Hz
// and Magnitude holds the matching levels in dB. It is derived from a Signal
// for plotting only and never feeds back into filtering or detection.
type Spectrum struct {
	Freq      []float64
	Magnitude []float64
}

// logFloor keeps the logarithm away from zero on silent bins without
// disturbing legitimate magnitudes.
const logFloor = 1e-10

// NewSpectrum computes the spectrum of sig. The input is real-valued, so the
// negative half is redundant and dropped: bin k maps to k*Rate/N Hz for
// k = 0..N/2-1.
func NewSpectrum(sig Signal) (Spectrum, error) {
	if err := sig.validate(); err != nil {
		return Spectrum{}, err
	}

	n := len(sig.Samples)
	bins := fft.FFTReal(sig.Samples)
	half := n / 2

	sp := Spectrum{
		Freq:      make([]float64, half),
		Magnitude: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		sp.Freq[k] = float64(k) * sig.Rate / float64(n)
		sp.Magnitude[k] = 20 * math.Log10(cmplx.Abs(bins[k])+logFloor)
	}
	return sp, nil
}

// PeakBin returns the index of the strongest bin, or -1 for an empty
// spectrum.
func (s Spectrum) PeakBin() int {
	best := -1
	for k := range s.Magnitude {
		if best < 0 || s.Magnitude[k] > s.Magnitude[best] {
			best = k
		}
	}
	return best
}

// MagnitudeAt returns the level of the bin closest to freq Hz. It is a
// chart/diagnostic convenience; out-of-range frequencies clamp to the edge
// bins.
func (s Spectrum) MagnitudeAt(freq float64) float64 {
	if len(s.Freq) == 0 {
		return math.Inf(-1)
	}
	best := 0
	for k := range s.Freq {
		if math.Abs(s.Freq[k]-freq) < math.Abs(s.Freq[best]-freq) {
			best = k
		}
	}
	return s.Magnitude[best]
}
