package model

import (
	"errors"
	"testing"
)

func rawFrames(n int, fps float64, confidence float64) []RawFrame {
	schema := RunningSkeleton()
	frames := make([]RawFrame, n)
	for i := 0; i < n; i++ {
		joints := make(map[string]RawJoint, len(schema.Joints))
		for _, j := range schema.Joints {
			joints[string(j)] = RawJoint{X: 0.5, Y: 0.5, Confidence: confidence}
		}
		frames[i] = RawFrame{
			FrameIndex: i,
			Timestamp:  float64(i) / fps,
			HasPose:    true,
			Confidence: confidence,
			Joints:     joints,
		}
	}
	return frames
}

// TestTrackConstruction verifies the construction invariant: frame indices
// are exactly 0..count-1 with contiguous timestamps.
func TestTrackConstruction(t *testing.T) {
	raw := &RawPoseData{
		VideoName: "runner",
		SchemaID:  RunningSkeletonID,
		Frames:    rawFrames(10, 30, 0.9),
	}
	track, err := NewPoseTrack(raw, RunningSkeleton())
	if err != nil {
		t.Fatalf("NewPoseTrack failed: %v", err)
	}
	if track.Len() != 10 {
		t.Fatalf("expected 10 frames, got %d", track.Len())
	}
	for i := 0; i < track.Len(); i++ {
		f, ok := track.Frame(i)
		if !ok {
			t.Fatalf("frame %d missing", i)
		}
		if f.Index != i {
			t.Errorf("frame at position %d has index %d", i, f.Index)
		}
	}
	if rate := track.FrameRate(); rate < 29.9 || rate > 30.1 {
		t.Errorf("expected ~30 fps, got %f", rate)
	}
}

func TestTrackRejectsIndexGap(t *testing.T) {
	frames := rawFrames(5, 30, 0.9)
	frames[3].FrameIndex = 7
	raw := &RawPoseData{SchemaID: RunningSkeletonID, Frames: frames}
	if _, err := NewPoseTrack(raw, RunningSkeleton()); err == nil {
		t.Fatal("expected error for non-contiguous frame indices")
	}
}

func TestTrackRejectsTimestampRegression(t *testing.T) {
	frames := rawFrames(5, 30, 0.9)
	frames[3].Timestamp = frames[1].Timestamp
	frames[4].Timestamp = frames[1].Timestamp - 0.01
	raw := &RawPoseData{SchemaID: RunningSkeletonID, Frames: frames}
	_, err := NewPoseTrack(raw, RunningSkeleton())
	if !errors.Is(err, ErrNonMonotonicTimestamp) {
		t.Fatalf("expected ErrNonMonotonicTimestamp, got %v", err)
	}
}

func TestTrackRejectsSchemaMismatch(t *testing.T) {
	raw := &RawPoseData{SchemaID: "other-schema", Frames: rawFrames(5, 30, 0.9)}
	_, err := NewPoseTrack(raw, RunningSkeleton())
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

// TestFrameCompleteness verifies that a frame counts as complete only when
// every schema joint is present above the threshold.
func TestFrameCompleteness(t *testing.T) {
	frames := rawFrames(3, 30, 0.9)
	delete(frames[1].Joints, string(LeftKnee))
	frames[2].Joints[string(RightAnkle)] = RawJoint{X: 0.5, Y: 0.5, Confidence: 0.1}

	raw := &RawPoseData{SchemaID: RunningSkeletonID, Frames: frames}
	track, err := NewPoseTrack(raw, RunningSkeleton())
	if err != nil {
		t.Fatalf("NewPoseTrack failed: %v", err)
	}

	if !track.Complete(0, DefaultConfidenceThreshold) {
		t.Error("frame 0 should be complete")
	}
	if track.Complete(1, DefaultConfidenceThreshold) {
		t.Error("frame 1 missing a joint should not be complete")
	}
	if track.Complete(2, DefaultConfidenceThreshold) {
		t.Error("frame 2 with a low-confidence joint should not be complete")
	}
}

func TestMissingJointIsAbsentNotSentinel(t *testing.T) {
	frames := rawFrames(1, 30, 0.9)
	delete(frames[0].Joints, string(LeftKnee))
	raw := &RawPoseData{SchemaID: RunningSkeletonID, Frames: frames}
	track, err := NewPoseTrack(raw, RunningSkeleton())
	if err != nil {
		t.Fatalf("NewPoseTrack failed: %v", err)
	}
	f, _ := track.Frame(0)
	if _, ok := f.Joint(LeftKnee); ok {
		t.Fatal("deleted joint should be reported absent")
	}
}
