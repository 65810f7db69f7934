package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadRecording reads a capture CSV: a one-line preamble written by the
// capture utility, a Time(ms),Voltage(V) header row, then one sample per
// row. Timestamps are converted from milliseconds to seconds. The sampling
// rate comes from the caller because the capture hardware runs at a fixed,
// known rate.
func LoadRecording(path string, rate float64) (times []float64, sig Signal, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Signal{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // the preamble is free-form text
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, Signal{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) < 3 {
		return nil, Signal{}, fmt.Errorf("%s: no sample rows: %w", path, ErrInsufficientSamples)
	}

	// rows[0] is the preamble, rows[1] the header. A file without the
	// preamble shifts a sample row into the header slot, so check the
	// column names instead of skipping blindly.
	header := rows[1]
	if len(header) < 2 ||
		!strings.Contains(strings.ToLower(header[0]), "time") ||
		!strings.Contains(strings.ToLower(header[1]), "voltage") {
		return nil, Signal{}, fmt.Errorf("%s: header row %v, want Time(ms),Voltage(V) after a one-line preamble", path, header)
	}

	var voltages []float64
	for i, row := range rows[2:] {
		if len(row) < 2 {
			return nil, Signal{}, fmt.Errorf("%s: row %d: expected time and voltage, got %v", path, i+3, row)
		}
		ms, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			return nil, Signal{}, fmt.Errorf("%s: row %d: bad timestamp: %w", path, i+3, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, Signal{}, fmt.Errorf("%s: row %d: bad voltage: %w", path, i+3, err)
		}
		times = append(times, ms/1000)
		voltages = append(voltages, v)
	}

	sig, err = NewSignal(voltages, rate)
	if err != nil {
		return nil, Signal{}, fmt.Errorf("%s: %w", path, err)
	}
	return times, sig, nil
}
