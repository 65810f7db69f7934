package main

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FindPeaks returns the indices of local maxima in x that reach the height
// threshold and sit at least distance samples from any stronger accepted
// peak. When two candidates are closer than distance the higher one wins;
// equal heights keep the earlier index, so the result is deterministic. An
// empty result is a valid outcome, not an error.
func FindPeaks(x []float64, height float64, distance int) []int {
	if distance < 1 {
		distance = 1
	}

	var candidates []int
	for i := 1; i < len(x)-1; i++ {
		if x[i] <= x[i-1] {
			continue
		}
		// Walk a flat stretch to its end; it is a maximum only when the
		// next differing sample is strictly lower. A plateau counts once,
		// at its first sample.
		j := i
		for j < len(x)-1 && x[j+1] == x[i] {
			j++
		}
		if j < len(x)-1 && x[j+1] < x[i] && x[i] >= height {
			candidates = append(candidates, i)
		}
		i = j
	}
	if len(candidates) == 0 {
		return nil
	}

	// Strongest candidate first; the earlier index breaks ties.
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := candidates[order[a]], candidates[order[b]]
		if x[ia] != x[ib] {
			return x[ia] > x[ib]
		}
		return ia < ib
	})

	suppressed := make([]bool, len(candidates))
	var kept []int
	for _, ci := range order {
		if suppressed[ci] {
			continue
		}
		idx := candidates[ci]
		kept = append(kept, idx)
		for j, other := range candidates {
			if j != ci && !suppressed[j] && absInt(other-idx) < distance {
				suppressed[j] = true
			}
		}
	}

	sort.Ints(kept)
	return kept
}

// DetectPeaks locates R-peaks in a conditioned signal. The minimum peak
// separation is Rate/2.5 samples, which rejects heart rates implausibly
// above ~150 bpm. height is the minimum peak amplitude in the signal's own
// voltage units and depends on the capture gain.
func DetectPeaks(sig Signal, height float64) ([]int, error) {
	if err := sig.validate(); err != nil {
		return nil, err
	}
	distance := int(math.Round(sig.Rate / 2.5))
	return FindPeaks(sig.Samples, height, distance), nil
}

// EstimateHeartRate converts R-peak spacing into beats per minute as
// 60 / mean(RR intervals). At least two peaks are needed to form one RR
// interval; fewer yield ok == false, an ordinary outcome rather than an
// error.
func EstimateHeartRate(peaks []int, rate float64) (bpm float64, ok bool) {
	if len(peaks) < 2 || rate <= 0 {
		return 0, false
	}
	rr := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		rr[i-1] = float64(peaks[i]-peaks[i-1]) / rate
	}
	return 60 / stat.Mean(rr, nil), true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
