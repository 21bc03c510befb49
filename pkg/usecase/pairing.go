package usecase

import (
	"fmt"

	"github.com/katalvlaran/lvlath/dtw"

	"github.com/strideworks/gaitalign/pkg/config"
	"github.com/strideworks/gaitalign/pkg/model"
)

// CyclePairer decides which cycle of track A corresponds to which cycle of
// track B. Only complete cycles participate; an incomplete trailing cycle has
// no real closing strike, so phase-proportional mapping inside it would be
// meaningless.
type CyclePairer interface {
	Pair(a, b []model.GaitCycle, aTrack, bTrack *model.PoseTrack) ([]model.CyclePair, error)
}

// NewCyclePairer returns the pairer for the configured policy.
func NewCyclePairer(cfg *config.Config) (CyclePairer, error) {
	switch cfg.PairingPolicy {
	case config.PairingOrdinal:
		return OrdinalPairer{}, nil
	case config.PairingDTW:
		return DTWPairer{}, nil
	default:
		return nil, fmt.Errorf("unknown pairing policy %q", cfg.PairingPolicy)
	}
}

// OrdinalPairer pairs cycle n of A with cycle n of B, up to the shorter
// count. Excess cycles of the longer track stay unaligned.
type OrdinalPairer struct{}

func (OrdinalPairer) Pair(a, b []model.GaitCycle, _, _ *model.PoseTrack) ([]model.CyclePair, error) {
	a = completeCycles(a)
	b = completeCycles(b)
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	pairs := make([]model.CyclePair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, model.CyclePair{A: a[i], B: b[i]})
	}
	return pairs, nil
}

// DTWPairer matches cycles by dynamic time warping over their duration
// sequences, so a dropped or extra stride on one side shifts the pairing
// instead of desynchronizing every later cycle. Selectable via config; never
// a silent substitute for ordinal pairing.
type DTWPairer struct{}

func (DTWPairer) Pair(a, b []model.GaitCycle, aTrack, bTrack *model.PoseTrack) ([]model.CyclePair, error) {
	a = completeCycles(a)
	b = completeCycles(b)
	if len(a) == 0 || len(b) == 0 {
		return nil, nil
	}

	aDur := cycleDurations(a, aTrack)
	bDur := cycleDurations(b, bTrack)

	window := len(aDur)
	if len(bDur) > window {
		window = len(bDur)
	}
	opts := &dtw.Options{
		Window:       window,
		SlopePenalty: 0.5,
		ReturnPath:   true,
		MemoryMode:   dtw.FullMatrix,
	}
	_, path, err := dtw.DTW(aDur, bDur, opts)
	if err != nil {
		return nil, fmt.Errorf("dtw cycle pairing: %w", err)
	}

	// The warping path may repeat indices; keep the first appearance of each
	// so the pairing stays injective and ordered.
	pairs := make([]model.CyclePair, 0, len(path))
	usedA, usedB := -1, -1
	for _, p := range path {
		ai, bi := p.I, p.J
		if ai <= usedA || bi <= usedB {
			continue
		}
		pairs = append(pairs, model.CyclePair{A: a[ai], B: b[bi]})
		usedA, usedB = ai, bi
	}
	return pairs, nil
}

func completeCycles(cycles []model.GaitCycle) []model.GaitCycle {
	out := make([]model.GaitCycle, 0, len(cycles))
	for _, c := range cycles {
		if !c.Incomplete {
			out = append(out, c)
		}
	}
	return out
}

func cycleDurations(cycles []model.GaitCycle, track *model.PoseTrack) []float64 {
	out := make([]float64, len(cycles))
	for i, c := range cycles {
		out[i] = c.Duration(track)
	}
	return out
}
