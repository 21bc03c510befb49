package usecase

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/strideworks/gaitalign/pkg/config"
	"github.com/strideworks/gaitalign/pkg/model"
)

// DetectCycles finds the gait cycles of one side of a track. Foot strikes are
// approximated by local minima of the smoothed vertical trajectory of the
// configured reference joint; two consecutive strikes bound one cycle. The
// trailing partial cycle is kept and marked incomplete.
//
// Tracks shorter than one expected stride produce zero cycles, not an error.
// Detection refuses to run on unreliable data: if the reference joint is
// confidently observed in less than MinSignalFraction of frames the result is
// ErrInsufficientSignal.
func DetectCycles(track *model.PoseTrack, side model.Side, cfg *config.Config) ([]model.GaitCycle, error) {
	joint := cfg.ReferenceJoint(side)

	sig, confident := referenceSignal(track, joint, cfg.ConfidenceThreshold)
	if track.Len() > 0 {
		fraction := float64(confident) / float64(track.Len())
		if fraction < cfg.MinSignalFraction {
			return nil, fmt.Errorf("joint %q confident in %.0f%% of %d frames (need %.0f%%): %w",
				joint, fraction*100, track.Len(), cfg.MinSignalFraction*100, model.ErrInsufficientSignal)
		}
	}

	rate := track.FrameRate()
	if rate <= 0 {
		return nil, nil
	}
	minSep := int(cfg.MinStrideSeconds() * rate)
	if minSep < 1 {
		minSep = 1
	}

	smoothed := movingAverage(sig, cfg.SmoothingWindow)
	minima := localMinima(smoothed, minSep)

	// Spurious minima from detector jitter sit high in the signal; a strike
	// minimum sits in the lower half.
	floor := quantile(smoothed, 0.5)
	strikes := minima[:0]
	for _, m := range minima {
		if smoothed[m] <= floor {
			strikes = append(strikes, m)
		}
	}

	log.Debug().
		Str("track", track.Name).
		Str("side", string(side)).
		Str("joint", string(joint)).
		Int("minima", len(strikes)).
		Int("min_separation", minSep).
		Msg("cycle detection")

	if len(strikes) < 2 {
		return nil, nil
	}

	cycles := make([]model.GaitCycle, 0, len(strikes))
	for i := 0; i < len(strikes)-1; i++ {
		cycles = append(cycles, model.GaitCycle{
			Start: strikes[i],
			End:   strikes[i+1],
			Side:  side,
		})
	}
	if last := strikes[len(strikes)-1]; last < track.Len()-1 {
		cycles = append(cycles, model.GaitCycle{
			Start:      last,
			End:        track.Len(),
			Side:       side,
			Incomplete: true,
		})
	}
	return cycles, nil
}

// referenceSignal extracts the vertical coordinate of the reference joint per
// frame, forward-filling frames where the joint is missing or below the
// confidence threshold. It also reports how many frames were confidently
// observed.
func referenceSignal(track *model.PoseTrack, joint model.Joint, minConfidence float64) ([]float64, int) {
	sig := make([]float64, track.Len())
	confident := 0
	lastKnown := 0.0
	haveKnown := false
	firstGap := 0

	for i := 0; i < track.Len(); i++ {
		f, _ := track.Frame(i)
		if c, ok := f.ConfidentJoint(joint, minConfidence); ok {
			confident++
			if !haveKnown {
				// Backfill the leading gap with the first real value.
				for j := firstGap; j < i; j++ {
					sig[j] = c.Y
				}
				haveKnown = true
			}
			lastKnown = c.Y
			sig[i] = c.Y
			continue
		}
		sig[i] = lastKnown
	}
	return sig, confident
}
