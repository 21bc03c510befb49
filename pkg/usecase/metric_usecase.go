package usecase

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/strideworks/gaitalign/pkg/config"
	"github.com/strideworks/gaitalign/pkg/model"
)

// Per-frame metric names, in presentation order.
const (
	MetricKneeFlexionLeft  = "knee_flexion_left"
	MetricKneeFlexionRight = "knee_flexion_right"
	MetricHipFlexionLeft   = "hip_flexion_left"
	MetricHipFlexionRight  = "hip_flexion_right"
	MetricTrunkLean        = "trunk_lean"
)

// FrameMetricNames lists every per-frame metric the extractor produces.
var FrameMetricNames = []string{
	MetricKneeFlexionLeft,
	MetricKneeFlexionRight,
	MetricHipFlexionLeft,
	MetricHipFlexionRight,
	MetricTrunkLean,
}

// ExtractFrameMetrics computes the per-frame biomechanical scalars of a
// track: three-joint angles and trunk lean. A sample is invalid, not zero,
// when any required joint is missing or below the confidence threshold.
func ExtractFrameMetrics(track *model.PoseTrack, cfg *config.Config) []model.MetricSet {
	sets := make([]model.MetricSet, track.Len())
	for i := 0; i < track.Len(); i++ {
		f, _ := track.Frame(i)
		set := model.MetricSet{}

		set[MetricKneeFlexionLeft] = threeJointAngle(f, model.LeftHip, model.LeftKnee, model.LeftAnkle,
			MetricKneeFlexionLeft, cfg.ConfidenceThreshold)
		set[MetricKneeFlexionRight] = threeJointAngle(f, model.RightHip, model.RightKnee, model.RightAnkle,
			MetricKneeFlexionRight, cfg.ConfidenceThreshold)
		set[MetricHipFlexionLeft] = threeJointAngle(f, model.LeftShoulder, model.LeftHip, model.LeftKnee,
			MetricHipFlexionLeft, cfg.ConfidenceThreshold)
		set[MetricHipFlexionRight] = threeJointAngle(f, model.RightShoulder, model.RightHip, model.RightKnee,
			MetricHipFlexionRight, cfg.ConfidenceThreshold)
		set[MetricTrunkLean] = trunkLean(f, cfg.ConfidenceThreshold)

		sets[i] = set
	}
	return sets
}

// threeJointAngle measures the interior angle at joint b of the a-b-c chain,
// in degrees.
func threeJointAngle(f *model.Frame, a, b, c model.Joint, name string, minConf float64) model.MetricSample {
	pa, okA := f.ConfidentJoint(a, minConf)
	pb, okB := f.ConfidentJoint(b, minConf)
	pc, okC := f.ConfidentJoint(c, minConf)
	if !okA || !okB || !okC {
		return model.Invalid(name, model.Degrees)
	}
	deg, ok := angleDeg(pa.X-pb.X, pa.Y-pb.Y, pc.X-pb.X, pc.Y-pb.Y)
	if !ok {
		return model.Invalid(name, model.Degrees)
	}
	return model.MetricSample{Name: name, Unit: model.Degrees, Value: deg, Valid: true}
}

// trunkLean measures the angle between the mid-hip→mid-shoulder segment and
// image-vertical, in degrees. Image y grows downward, so vertical up is
// (0,-1).
func trunkLean(f *model.Frame, minConf float64) model.MetricSample {
	ls, ok1 := f.ConfidentJoint(model.LeftShoulder, minConf)
	rs, ok2 := f.ConfidentJoint(model.RightShoulder, minConf)
	lh, ok3 := f.ConfidentJoint(model.LeftHip, minConf)
	rh, ok4 := f.ConfidentJoint(model.RightHip, minConf)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return model.Invalid(MetricTrunkLean, model.Degrees)
	}
	dx := (ls.X+rs.X)/2 - (lh.X+rh.X)/2
	dy := (ls.Y+rs.Y)/2 - (lh.Y+rh.Y)/2
	deg, ok := angleDeg(dx, dy, 0, -1)
	if !ok {
		return model.Invalid(MetricTrunkLean, model.Degrees)
	}
	return model.MetricSample{Name: MetricTrunkLean, Unit: model.Degrees, Value: deg, Valid: true}
}

// angleDeg returns the angle between vectors (x1,y1) and (x2,y2) in degrees.
// ok is false for degenerate (zero-length) vectors.
func angleDeg(x1, y1, x2, y2 float64) (float64, bool) {
	n1 := math.Hypot(x1, y1)
	n2 := math.Hypot(x2, y2)
	if n1 == 0 || n2 == 0 {
		return 0, false
	}
	cos := (x1*x2 + y1*y2) / (n1 * n2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi, true
}

// ExtractCycleMetrics computes per-cycle scalars: stride duration, cadence
// (60/duration) and a stride-length proxy (widest horizontal ankle spread
// inside the cycle). Incomplete cycles get invalid duration-derived samples.
func ExtractCycleMetrics(track *model.PoseTrack, cycles []model.GaitCycle, cfg *config.Config) []model.CycleMetrics {
	out := make([]model.CycleMetrics, len(cycles))
	for i, c := range cycles {
		cm := model.CycleMetrics{Cycle: c}

		if c.Incomplete {
			cm.StrideDuration = model.Invalid("stride_duration", model.Seconds)
			cm.Cadence = model.Invalid("cadence", model.StridesPerMin)
		} else {
			dur := c.Duration(track)
			cm.StrideDuration = model.MetricSample{Name: "stride_duration", Unit: model.Seconds, Value: dur, Valid: dur > 0}
			if dur > 0 {
				cm.Cadence = model.MetricSample{Name: "cadence", Unit: model.StridesPerMin, Value: 60 / dur, Valid: true}
			} else {
				cm.Cadence = model.Invalid("cadence", model.StridesPerMin)
			}
		}

		cm.StrideLength = strideLengthProxy(track, c, cfg.ConfidenceThreshold)
		out[i] = cm
	}
	return out
}

// strideLengthProxy is the widest horizontal distance between the two ankles
// over the cycle's frames, in the track's (normalized) coordinate units.
func strideLengthProxy(track *model.PoseTrack, c model.GaitCycle, minConf float64) model.MetricSample {
	var spreads []float64
	end := c.End
	if end > track.Len() {
		end = track.Len()
	}
	for i := c.Start; i < end; i++ {
		f, ok := track.Frame(i)
		if !ok {
			continue
		}
		l, okL := f.ConfidentJoint(model.LeftAnkle, minConf)
		r, okR := f.ConfidentJoint(model.RightAnkle, minConf)
		if !okL || !okR {
			continue
		}
		spreads = append(spreads, math.Abs(l.X-r.X))
	}
	if len(spreads) == 0 {
		return model.Invalid("stride_length", model.NormalizedDist)
	}
	return model.MetricSample{
		Name:  "stride_length",
		Unit:  model.NormalizedDist,
		Value: floats.Max(spreads),
		Valid: true,
	}
}

// BilateralSymmetry is the relative difference between the mean complete
// cycle durations of the two sides. A perfectly even gait evaluates to zero.
func BilateralSymmetry(track *model.PoseTrack, left, right []model.GaitCycle) model.MetricSample {
	mL, okL := meanCompleteDuration(track, left)
	mR, okR := meanCompleteDuration(track, right)
	if !okL || !okR || mL+mR == 0 {
		return model.Invalid("bilateral_symmetry", model.Ratio)
	}
	return model.MetricSample{
		Name:  "bilateral_symmetry",
		Unit:  model.Ratio,
		Value: math.Abs(mL-mR) / ((mL + mR) / 2),
		Valid: true,
	}
}

func meanCompleteDuration(track *model.PoseTrack, cycles []model.GaitCycle) (float64, bool) {
	var durs []float64
	for _, c := range cycles {
		if c.Incomplete {
			continue
		}
		durs = append(durs, c.Duration(track))
	}
	if len(durs) == 0 {
		return 0, false
	}
	return stat.Mean(durs, nil), true
}

// DeltasAt pairs the per-frame metrics of A-frame aFrame with the metric
// values interpolated at B-position bPos. A delta is valid only when the A
// sample and both B samples around bPos are valid; invalid deltas never
// default to zero.
func DeltasAt(aSets, bSets []model.MetricSet, aFrame int, bPos float64) map[string]model.MetricDelta {
	deltas := make(map[string]model.MetricDelta, len(FrameMetricNames))
	for _, name := range FrameMetricNames {
		var d model.MetricDelta
		sA, okA := aSets[aFrame][name]
		vB, okB := interpolateSample(bSets, name, bPos)
		if okA && sA.Valid && okB {
			d = model.MetricDelta{ValueA: sA.Value, ValueB: vB, Delta: sA.Value - vB, Valid: true}
		}
		deltas[name] = d
	}
	return deltas
}

// interpolateSample linearly interpolates metric name between the two frames
// around fractional position pos. Both neighboring samples must be valid.
func interpolateSample(sets []model.MetricSet, name string, pos float64) (float64, bool) {
	if len(sets) == 0 || pos < 0 {
		return 0, false
	}
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if hi >= len(sets) {
		hi = len(sets) - 1
	}
	if lo > hi || lo < 0 {
		return 0, false
	}
	sLo, okLo := sets[lo][name]
	if !okLo || !sLo.Valid {
		return 0, false
	}
	if lo == hi {
		return sLo.Value, true
	}
	sHi, okHi := sets[hi][name]
	if !okHi || !sHi.Valid {
		return 0, false
	}
	return lerp(sLo.Value, sHi.Value, pos-float64(lo)), true
}
