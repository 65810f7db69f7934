package main

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSamplingRate reports a sampling rate that is not positive.
	ErrInvalidSamplingRate = errors.New("invalid sampling rate")
	// ErrInsufficientSamples reports a signal too short for the requested
	// operation.
	ErrInsufficientSamples = errors.New("insufficient samples")
	// ErrInvalidFilterRange reports filter frequencies that are out of order
	// or outside (0, Nyquist).
	ErrInvalidFilterRange = errors.New("invalid filter range")
)

// Signal is a fixed-length sequence of voltage samples captured at a constant
// sampling rate. Every filtering stage returns a fresh Signal and leaves its
// input untouched, so one capture can fan out to several consumers.
type Signal struct {
	Samples []float64
	Rate    float64 // samples per second
}

// NewSignal wraps samples captured at rate Hz.
func NewSignal(samples []float64, rate float64) (Signal, error) {
	s := Signal{Samples: samples, Rate: rate}
	if err := s.validate(); err != nil {
		return Signal{}, err
	}
	return s, nil
}

func (s Signal) validate() error {
	if s.Rate <= 0 {
		return fmt.Errorf("sampling rate %v: %w", s.Rate, ErrInvalidSamplingRate)
	}
	if len(s.Samples) == 0 {
		return fmt.Errorf("empty signal: %w", ErrInsufficientSamples)
	}
	return nil
}

// Nyquist returns half the sampling rate, the highest representable frequency.
func (s Signal) Nyquist() float64 {
	return s.Rate / 2
}

// Len returns the number of samples.
func (s Signal) Len() int {
	return len(s.Samples)
}
