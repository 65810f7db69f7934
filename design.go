package main

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Coefficients describe a linear digital filter as a feed-forward polynomial
// B and a feedback polynomial A in powers of z^-1, normalized so that
// A[0] == 1. A value is built once per filter configuration and may be reused
// for any signal captured at the same sampling rate.
type Coefficients struct {
	B []float64
	A []float64
}

// order returns the polynomial order of the filter.
func (c Coefficients) order() int {
	n := len(c.B)
	if len(c.A) > n {
		n = len(c.A)
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

// NotchCoefficients designs a second-order IIR notch centered at f0 Hz with
// bandwidth f0/q. Energy at f0 is nulled while the rest of the spectrum stays
// close to unity gain.
func NotchCoefficients(f0, q, rate float64) (Coefficients, error) {
	if rate <= 0 {
		return Coefficients{}, fmt.Errorf("notch: sampling rate %v: %w", rate, ErrInvalidSamplingRate)
	}
	if f0 <= 0 || f0 >= rate/2 {
		return Coefficients{}, fmt.Errorf("notch: center %v Hz outside (0, %v): %w", f0, rate/2, ErrInvalidFilterRange)
	}
	if q <= 0 {
		return Coefficients{}, fmt.Errorf("notch: quality factor %v: %w", q, ErrInvalidFilterRange)
	}

	w0 := 2 * math.Pi * f0 / rate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha

	return Coefficients{
		B: []float64{1 / a0, -2 * cw / a0, 1 / a0},
		A: []float64{1, -2 * cw / a0, (1 - alpha) / a0},
	}, nil
}

// BandpassCoefficients designs a Butterworth bandpass of the given order with
// passband (lowcut, highcut) Hz. The cutoffs are normalized by the Nyquist
// frequency, prewarped, and the analog lowpass prototype is carried through
// the band transform and the bilinear transform. The resulting polynomials
// have length 2*order+1.
func BandpassCoefficients(lowcut, highcut, rate float64, order int) (Coefficients, error) {
	if rate <= 0 {
		return Coefficients{}, fmt.Errorf("bandpass: sampling rate %v: %w", rate, ErrInvalidSamplingRate)
	}
	if order < 1 {
		return Coefficients{}, fmt.Errorf("bandpass: order %d: %w", order, ErrInvalidFilterRange)
	}
	nyq := rate / 2
	if lowcut <= 0 || highcut >= nyq || lowcut >= highcut {
		return Coefficients{}, fmt.Errorf("bandpass: cutoffs (%v, %v) Hz outside (0, %v): %w",
			lowcut, highcut, nyq, ErrInvalidFilterRange)
	}

	// Prewarp the normalized cutoffs so the bilinear transform lands the
	// band edges on the requested frequencies.
	warpLow := 4 * math.Tan(math.Pi*lowcut/rate)
	warpHigh := 4 * math.Tan(math.Pi*highcut/rate)
	bw := warpHigh - warpLow
	w0 := math.Sqrt(warpLow * warpHigh)

	// Analog lowpass prototype poles, evenly spaced on the left half of the
	// unit circle.
	proto := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * float64(2*k+order+1) / float64(2*order)
		proto[k] = cmplx.Exp(complex(0, theta))
	}

	// Lowpass-to-bandpass: every prototype pole splits into a pair around w0.
	poles := make([]complex128, 0, 2*order)
	for _, p := range proto {
		ps := p * complex(bw/2, 0)
		d := cmplx.Sqrt(ps*ps - complex(w0*w0, 0))
		poles = append(poles, ps+d, ps-d)
	}
	gain := math.Pow(bw, float64(order))

	// Bilinear transform into the z plane. The band transform left `order`
	// zeros at s = 0; they map to z = 1 and the remaining zeros sit at
	// z = -1.
	const fs2 = 4.0
	num := complex(1, 0)
	den := complex(1, 0)
	zZeros := make([]complex128, 0, 2*order)
	for i := 0; i < order; i++ {
		num *= complex(fs2, 0)
		zZeros = append(zZeros, 1)
	}
	zPoles := make([]complex128, 0, 2*order)
	for _, p := range poles {
		den *= complex(fs2, 0) - p
		zPoles = append(zPoles, (complex(fs2, 0)+p)/(complex(fs2, 0)-p))
	}
	for len(zZeros) < len(zPoles) {
		zZeros = append(zZeros, -1)
	}
	k := gain * real(num/den)

	b := polynomial(zZeros)
	for i := range b {
		b[i] *= k
	}
	return Coefficients{B: b, A: polynomial(zPoles)}, nil
}

// polynomial expands a set of roots into real polynomial coefficients,
// highest power first. Complex roots must come in conjugate pairs so the
// imaginary parts cancel.
func polynomial(roots []complex128) []float64 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}
