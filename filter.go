package main

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Filter runs the filter over x in a single forward pass (direct-form II
// transposed) and returns a new slice. The input is not modified.
func (c Coefficients) Filter(x []float64) []float64 {
	y, _ := c.filterState(x, nil)
	return y
}

// filterState runs one forward pass starting from the delay-line state zi
// (nil means zero state) and returns the output together with the final
// state.
func (c Coefficients) filterState(x, zi []float64) ([]float64, []float64) {
	n := c.order()
	b := pad(c.B, n+1)
	a := pad(c.A, n+1)

	z := make([]float64, n)
	copy(z, zi)
	y := make([]float64, len(x))
	for m, xm := range x {
		if n == 0 {
			y[m] = b[0] * xm
			continue
		}
		ym := b[0]*xm + z[0]
		for i := 0; i < n-1; i++ {
			z[i] = b[i+1]*xm + z[i+1] - a[i+1]*ym
		}
		z[n-1] = b[n]*xm - a[n]*ym
		y[m] = ym
	}
	return y, z
}

// steadyState returns the delay-line state that puts the filter in its
// step-response steady state, so a pass started on a constant signal
// produces no startup transient. It solves (I - C^T) zi = B where C is the
// companion matrix of A and B[i] = b[i+1] - a[i+1]*b[0].
func (c Coefficients) steadyState() []float64 {
	n := c.order()
	if n == 0 {
		return nil
	}
	b := pad(c.B, n+1)
	a := pad(c.A, n+1)

	m := mat.NewDense(n, n, nil)
	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := 0.0
			if i == j {
				v++
			}
			if j == 0 {
				v += a[i+1]
			}
			if j == i+1 {
				v--
			}
			m.Set(i, j, v)
		}
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(m, rhs); err != nil {
		// Degenerate coefficient sets fall back to a cold start.
		return make([]float64, n)
	}
	return zi.RawVector().Data
}

// FiltFilt applies the filter forward and then backward so the output stays
// time-aligned with the input. Both ends are extended by an odd reflection
// of 2*order samples to absorb edge transients, and the extension is trimmed
// afterwards, so the output always has the input's length. Signals shorter
// than 2*order+1 samples fail with ErrInsufficientSamples.
func (c Coefficients) FiltFilt(sig Signal) (Signal, error) {
	if err := sig.validate(); err != nil {
		return Signal{}, err
	}
	x := sig.Samples
	edge := 2 * c.order()
	if len(x) < edge+1 {
		return Signal{}, fmt.Errorf("filtfilt: %d samples, need at least %d for an order-%d filter: %w",
			len(x), edge+1, c.order(), ErrInsufficientSamples)
	}

	ext := make([]float64, 0, len(x)+2*edge)
	first, last := x[0], x[len(x)-1]
	for i := edge; i >= 1; i-- {
		ext = append(ext, 2*first-x[i])
	}
	ext = append(ext, x...)
	for i := 1; i <= edge; i++ {
		ext = append(ext, 2*last-x[len(x)-1-i])
	}

	zi := c.steadyState()
	z0 := make([]float64, len(zi))

	for i := range zi {
		z0[i] = zi[i] * ext[0]
	}
	fwd, _ := c.filterState(ext, z0)

	reverse(fwd)
	for i := range zi {
		z0[i] = zi[i] * fwd[0]
	}
	back, _ := c.filterState(fwd, z0)
	reverse(back)

	out := make([]float64, len(x))
	copy(out, back[edge:len(back)-edge])
	return Signal{Samples: out, Rate: sig.Rate}, nil
}

// NotchFilter removes a narrow band centered at f0 Hz from sig, leaving the
// rest of the spectrum and the sample timing unchanged.
func NotchFilter(sig Signal, f0, q float64) (Signal, error) {
	c, err := NotchCoefficients(f0, q, sig.Rate)
	if err != nil {
		return Signal{}, err
	}
	return c.FiltFilt(sig)
}

// BandpassFilter keeps only the energy between lowcut and highcut Hz.
func BandpassFilter(sig Signal, lowcut, highcut float64, order int) (Signal, error) {
	c, err := BandpassCoefficients(lowcut, highcut, sig.Rate, order)
	if err != nil {
		return Signal{}, err
	}
	return c.FiltFilt(sig)
}

func pad(v []float64, n int) []float64 {
	if len(v) >= n {
		return v
	}
	out := make([]float64, n)
	copy(out, v)
	return out
}

func reverse(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
