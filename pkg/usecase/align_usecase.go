package usecase

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/strideworks/gaitalign/pkg/model"
)

// Align builds the alignment map between two tracks from their detected
// cycles. Cycles are matched by the given pairer (ordinal by default); inside
// each matched pair, frame positions map proportionally by phase fraction, so
// the map is piecewise linear with anchors at every cycle boundary.
//
// Regions of A before its first paired cycle, after its last, and any excess
// cycles of the longer track are outside the map's domain and stay unaligned.
// Either track having zero complete cycles is ErrNoOverlap.
func Align(aTrack, bTrack *model.PoseTrack, aCycles, bCycles []model.GaitCycle, pairer CyclePairer) (*model.AlignmentMap, []model.CyclePair, error) {
	if len(completeCycles(aCycles)) == 0 || len(completeCycles(bCycles)) == 0 {
		return nil, nil, fmt.Errorf("cycles detected a=%d b=%d: %w",
			len(completeCycles(aCycles)), len(completeCycles(bCycles)), model.ErrNoOverlap)
	}

	pairs, err := pairer.Pair(aCycles, bCycles, aTrack, bTrack)
	if err != nil {
		return nil, nil, err
	}
	if len(pairs) == 0 {
		return nil, nil, fmt.Errorf("pairer matched no cycles: %w", model.ErrNoOverlap)
	}

	m, err := model.NewAlignmentMap(pairs)
	if err != nil {
		return nil, nil, err
	}

	lo, hi := m.Domain()
	log.Debug().
		Str("a", aTrack.Name).
		Str("b", bTrack.Name).
		Int("pairs", len(pairs)).
		Float64("domain_start", lo).
		Float64("domain_end", hi).
		Msg("alignment map built")

	return m, pairs, nil
}

// UnalignedCycles returns the cycles of one track left out of the pairing:
// the excess ordinal range of the longer track, plus incomplete cycles.
func UnalignedCycles(cycles []model.GaitCycle, pairs []model.CyclePair, pickA bool) []model.GaitCycle {
	paired := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		c := p.B
		if pickA {
			c = p.A
		}
		paired[c.Start] = true
	}
	var out []model.GaitCycle
	for _, c := range cycles {
		if !paired[c.Start] {
			out = append(out, c)
		}
	}
	return out
}
