package usecase

import (
	"math"
	"testing"

	"github.com/strideworks/gaitalign/pkg/config"
	"github.com/strideworks/gaitalign/pkg/model"
)

func frameWith(joints map[model.Joint]model.Coordinate) *model.Frame {
	return &model.Frame{Index: 0, Joints: joints}
}

// TestKneeAngleStraightLeg: collinear hip-knee-ankle measures 180 degrees.
func TestKneeAngleStraightLeg(t *testing.T) {
	f := frameWith(map[model.Joint]model.Coordinate{
		model.LeftHip:   {X: 0.5, Y: 0.4, Confidence: 0.9},
		model.LeftKnee:  {X: 0.5, Y: 0.6, Confidence: 0.9},
		model.LeftAnkle: {X: 0.5, Y: 0.8, Confidence: 0.9},
	})
	s := threeJointAngle(f, model.LeftHip, model.LeftKnee, model.LeftAnkle, MetricKneeFlexionLeft, 0.3)
	if !s.Valid {
		t.Fatal("straight-leg sample should be valid")
	}
	if math.Abs(s.Value-180) > 1e-9 {
		t.Errorf("expected 180 degrees, got %f", s.Value)
	}
	if s.Unit != model.Degrees {
		t.Errorf("expected unit %q, got %q", model.Degrees, s.Unit)
	}
}

func TestKneeAngleRightAngle(t *testing.T) {
	f := frameWith(map[model.Joint]model.Coordinate{
		model.LeftHip:   {X: 0.5, Y: 0.4, Confidence: 0.9},
		model.LeftKnee:  {X: 0.5, Y: 0.6, Confidence: 0.9},
		model.LeftAnkle: {X: 0.7, Y: 0.6, Confidence: 0.9},
	})
	s := threeJointAngle(f, model.LeftHip, model.LeftKnee, model.LeftAnkle, MetricKneeFlexionLeft, 0.3)
	if !s.Valid || math.Abs(s.Value-90) > 1e-9 {
		t.Fatalf("expected valid 90 degrees, got %+v", s)
	}
}

// TestMissingKneeInvalidNotZero: a frame without the knee joint yields an
// invalid knee sample, while cadence (which does not need the knee) still
// computes for the cycle.
func TestMissingKneeInvalidNotZero(t *testing.T) {
	track := syntheticTrack(t, "missing-knee", 61, 30, 1.0, 0.9)
	cfg := config.Default()

	// the synthetic track carries all joints; drop the knee from one frame
	f, _ := track.Frame(10)
	delete(f.Joints, model.LeftKnee)
	sets := ExtractFrameMetrics(track, cfg)

	s := sets[10][MetricKneeFlexionLeft]
	if s.Valid {
		t.Fatal("knee sample without a knee joint must be invalid")
	}
	if s.Value != 0 {
		t.Fatal("invalid samples carry no computed value")
	}

	cycles := []model.GaitCycle{{Start: 0, End: 30, Side: model.Left}}
	cms := ExtractCycleMetrics(track, cycles, cfg)
	if !cms[0].Cadence.Valid {
		t.Fatal("cadence must stay valid; it does not depend on the knee")
	}
	if math.Abs(cms[0].Cadence.Value-60) > 1 {
		t.Errorf("1 s stride should be ~60 strides/min, got %f", cms[0].Cadence.Value)
	}
}

func TestIncompleteCycleDurationInvalid(t *testing.T) {
	track := syntheticTrack(t, "incomplete", 61, 30, 1.0, 0.9)
	cycles := []model.GaitCycle{{Start: 45, End: 61, Side: model.Left, Incomplete: true}}
	cms := ExtractCycleMetrics(track, cycles, config.Default())
	if cms[0].StrideDuration.Valid || cms[0].Cadence.Valid {
		t.Fatal("duration-derived metrics of an incomplete cycle must be invalid")
	}
}

// TestBilateralSymmetryEvenGait: identical alternating cycle durations
// evaluate to zero difference.
func TestBilateralSymmetryEvenGait(t *testing.T) {
	track := syntheticTrack(t, "sym", 91, 30, 1.0, 0.9)
	left := []model.GaitCycle{
		{Start: 0, End: 30, Side: model.Left},
		{Start: 30, End: 60, Side: model.Left},
	}
	right := []model.GaitCycle{
		{Start: 15, End: 45, Side: model.Right},
		{Start: 45, End: 75, Side: model.Right},
	}
	s := BilateralSymmetry(track, left, right)
	if !s.Valid {
		t.Fatal("symmetry should be valid with complete cycles on both sides")
	}
	if math.Abs(s.Value) > 1e-9 {
		t.Errorf("even gait should score 0 symmetry difference, got %f", s.Value)
	}
}

func TestBilateralSymmetryOneSideMissing(t *testing.T) {
	track := syntheticTrack(t, "one-side", 61, 30, 1.0, 0.9)
	left := []model.GaitCycle{{Start: 0, End: 30, Side: model.Left}}
	s := BilateralSymmetry(track, left, nil)
	if s.Valid {
		t.Fatal("symmetry without right-side cycles must be invalid, not zero")
	}
}

func TestDeltasAtInterpolation(t *testing.T) {
	mk := func(v float64, valid bool) model.MetricSet {
		set := model.MetricSet{}
		for _, name := range FrameMetricNames {
			set[name] = model.MetricSample{Name: name, Unit: model.Degrees, Value: v, Valid: valid}
		}
		return set
	}
	aSets := []model.MetricSet{mk(100, true)}
	bSets := []model.MetricSet{mk(10, true), mk(20, true)}

	deltas := DeltasAt(aSets, bSets, 0, 0.5)
	d := deltas[MetricKneeFlexionLeft]
	if !d.Valid {
		t.Fatal("delta with valid samples on both sides should be valid")
	}
	if math.Abs(d.ValueB-15) > 1e-9 {
		t.Errorf("expected interpolated B value 15, got %f", d.ValueB)
	}
	if math.Abs(d.Delta-85) > 1e-9 {
		t.Errorf("expected delta 85, got %f", d.Delta)
	}
}

// TestDeltasAtInvalidNeighbor: one invalid neighboring B sample invalidates
// the delta instead of defaulting to zero.
func TestDeltasAtInvalidNeighbor(t *testing.T) {
	mk := func(v float64, valid bool) model.MetricSet {
		set := model.MetricSet{}
		for _, name := range FrameMetricNames {
			set[name] = model.MetricSample{Name: name, Unit: model.Degrees, Value: v, Valid: valid}
		}
		return set
	}
	aSets := []model.MetricSet{mk(100, true)}
	bSets := []model.MetricSet{mk(10, true), mk(20, false)}

	deltas := DeltasAt(aSets, bSets, 0, 0.5)
	if deltas[MetricKneeFlexionLeft].Valid {
		t.Fatal("delta across an invalid B sample must be invalid")
	}
	if deltas[MetricKneeFlexionLeft].Delta != 0 {
		t.Fatal("invalid delta must carry no computed value")
	}
}
