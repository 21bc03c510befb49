package model

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// AlignmentMap maps frame indices of track A onto (possibly fractional) frame
// positions of track B so that equivalent gait phases coincide. It is a
// piecewise-linear function anchored at paired cycle boundaries and is weakly
// monotonic over its domain. Regions of A outside any paired cycle are
// outside the domain and must be reported as unaligned, never extrapolated.
type AlignmentMap struct {
	runs []alignmentRun
}

// alignmentRun is one contiguous stretch of paired cycles, interpolated as a
// single piecewise-linear segment chain over the half-open A-range
// [startA, endA).
type alignmentRun struct {
	startA float64
	endA   float64
	pl     interp.PiecewiseLinear
}

// NewAlignmentMap builds the map from ordered, non-overlapping cycle pairs.
// Consecutive pairs whose A-cycles touch are fused into one interpolation
// run; a gap in either track starts a new run.
func NewAlignmentMap(pairs []CyclePair) (*AlignmentMap, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no cycle pairs: %w", ErrNoOverlap)
	}

	m := &AlignmentMap{}
	var xs, ys []float64

	flush := func() error {
		if len(xs) < 2 {
			xs, ys = nil, nil
			return nil
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return fmt.Errorf("fit alignment anchors: %w", err)
		}
		m.runs = append(m.runs, alignmentRun{startA: xs[0], endA: xs[len(xs)-1], pl: pl})
		xs, ys = nil, nil
		return nil
	}

	for i, p := range pairs {
		if p.A.End <= p.A.Start || p.B.End <= p.B.Start {
			return nil, fmt.Errorf("degenerate cycle pair %d", i)
		}
		contiguous := len(xs) > 0 &&
			xs[len(xs)-1] == float64(p.A.Start) &&
			ys[len(ys)-1] == float64(p.B.Start)
		if !contiguous {
			if err := flush(); err != nil {
				return nil, err
			}
			xs = append(xs, float64(p.A.Start))
			ys = append(ys, float64(p.B.Start))
		}
		xs = append(xs, float64(p.A.End))
		ys = append(ys, float64(p.B.End))
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(m.runs) == 0 {
		return nil, fmt.Errorf("no usable cycle pairs: %w", ErrNoOverlap)
	}
	return m, nil
}

// Position returns the B-frame position equivalent to A-frame position a.
// ok is false when a lies outside the aligned domain.
func (m *AlignmentMap) Position(a float64) (float64, bool) {
	for i := range m.runs {
		r := &m.runs[i]
		if a >= r.startA && a < r.endA {
			return r.pl.Predict(a), true
		}
	}
	return 0, false
}

// Domain returns the overall half-open A-range [min, max) the map covers.
// Gaps between runs are still unaligned; use Position to test membership.
func (m *AlignmentMap) Domain() (float64, float64) {
	return m.runs[0].startA, m.runs[len(m.runs)-1].endA
}
