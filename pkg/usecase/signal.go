package usecase

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Small pure helpers over 1-D signals. Kept free of track/cycle types so the
// boundary behavior is testable in isolation.

// movingAverage smooths sig with a centered window of the given width. The
// window shrinks near the edges instead of padding.
func movingAverage(sig []float64, window int) []float64 {
	if window <= 1 || len(sig) == 0 {
		out := make([]float64, len(sig))
		copy(out, sig)
		return out
	}
	half := window / 2
	out := make([]float64, len(sig))
	for i := range sig {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(sig) {
			hi = len(sig)
		}
		out[i] = stat.Mean(sig[lo:hi], nil)
	}
	return out
}

// localMinima returns the indices of local minima of sig, at least minSep
// indices apart. When two candidates violate the separation the deeper one
// wins. Plateaus count once, at their first index.
func localMinima(sig []float64, minSep int) []int {
	if len(sig) < 3 {
		return nil
	}
	if minSep < 1 {
		minSep = 1
	}

	var candidates []int
	for i := 1; i < len(sig)-1; i++ {
		if sig[i] < sig[i-1] && sig[i] <= sig[i+1] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Deepest first, then greedily accept anything far enough from all
	// accepted minima.
	sort.Slice(candidates, func(a, b int) bool {
		return sig[candidates[a]] < sig[candidates[b]]
	})
	var accepted []int
	for _, c := range candidates {
		ok := true
		for _, a := range accepted {
			if abs(c-a) < minSep {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, c)
		}
	}
	sort.Ints(accepted)
	return accepted
}

// quantile returns the p-quantile of values without mutating the input.
func quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// lerp interpolates linearly between a and b by t in [0,1].
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
