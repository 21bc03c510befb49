package model

import (
	"fmt"
)

// Coordinate is a 2-D or 3-D joint position with a detection confidence in
// [0,1]. Z is zero for 2-D schemas.
type Coordinate struct {
	X          float64
	Y          float64
	Z          float64
	Confidence float64
}

// Frame holds the joint coordinates observed at one video frame. Missing
// joints are absent from the map, never stored as a sentinel coordinate.
type Frame struct {
	Index     int
	Timestamp float64
	Joints    map[Joint]Coordinate
}

// Joint returns the coordinate of the given joint and whether it was observed
// in this frame at all.
func (f *Frame) Joint(j Joint) (Coordinate, bool) {
	c, ok := f.Joints[j]
	return c, ok
}

// ConfidentJoint returns the coordinate only if the joint was observed with
// at least the given confidence.
func (f *Frame) ConfidentJoint(j Joint, minConfidence float64) (Coordinate, bool) {
	c, ok := f.Joints[j]
	if !ok || c.Confidence < minConfidence {
		return Coordinate{}, false
	}
	return c, true
}

// DefaultConfidenceThreshold is the minimum per-joint confidence for a joint
// to count towards frame completeness.
const DefaultConfidenceThreshold = 0.3

// PoseTrack is the ordered frame sequence of one video. Invariants enforced
// at construction: frame indices are contiguous from 0, timestamps are
// monotonically non-decreasing, and the skeleton schema never changes.
type PoseTrack struct {
	Name   string
	schema *Skeleton
	frames []Frame

	// lazily computed per-frame completeness, keyed by the threshold it was
	// computed with
	completeness          []bool
	completenessThreshold float64
}

// NewPoseTrack builds a track from decoded raw pose data. The raw frames must
// already be ordered by frame index; gaps and timestamp regressions are
// rejected rather than repaired.
func NewPoseTrack(raw *RawPoseData, schema *Skeleton) (*PoseTrack, error) {
	if schema == nil {
		return nil, fmt.Errorf("nil skeleton schema")
	}
	if raw.SchemaID != schema.ID {
		return nil, fmt.Errorf("track %q declares schema %q, want %q: %w",
			raw.VideoName, raw.SchemaID, schema.ID, ErrSchemaMismatch)
	}

	frames := make([]Frame, 0, len(raw.Frames))
	prevTS := 0.0
	for i, rf := range raw.Frames {
		if rf.FrameIndex != i {
			return nil, fmt.Errorf("track %q: frame index %d at position %d, indices must be contiguous from 0",
				raw.VideoName, rf.FrameIndex, i)
		}
		if i > 0 && rf.Timestamp < prevTS {
			return nil, fmt.Errorf("track %q: timestamp %f at frame %d after %f: %w",
				raw.VideoName, rf.Timestamp, i, prevTS, ErrNonMonotonicTimestamp)
		}
		prevTS = rf.Timestamp

		joints := make(map[Joint]Coordinate, len(rf.Joints))
		if rf.HasPose {
			for name, rj := range rf.Joints {
				j := Joint(name)
				if !schema.Contains(j) {
					continue
				}
				joints[j] = Coordinate{X: rj.X, Y: rj.Y, Z: rj.Z, Confidence: rj.Confidence}
			}
		}
		frames = append(frames, Frame{Index: i, Timestamp: rf.Timestamp, Joints: joints})
	}

	return &PoseTrack{Name: raw.VideoName, schema: schema, frames: frames}, nil
}

// Schema returns the track's skeleton schema.
func (t *PoseTrack) Schema() *Skeleton { return t.schema }

// Len returns the number of frames.
func (t *PoseTrack) Len() int { return len(t.frames) }

// Frame returns the frame at the given index.
func (t *PoseTrack) Frame(i int) (*Frame, bool) {
	if i < 0 || i >= len(t.frames) {
		return nil, false
	}
	return &t.frames[i], true
}

// Timestamp returns the timestamp of frame i. For i == Len() (the open end of
// a trailing half-open interval) it extrapolates one frame past the last
// timestamp using the mean frame period.
func (t *PoseTrack) Timestamp(i int) float64 {
	if i < len(t.frames) {
		return t.frames[i].Timestamp
	}
	return t.frames[len(t.frames)-1].Timestamp + t.FramePeriod()
}

// FramePeriod returns the mean seconds per frame over the whole track.
func (t *PoseTrack) FramePeriod() float64 {
	if len(t.frames) < 2 {
		return 0
	}
	first := t.frames[0].Timestamp
	last := t.frames[len(t.frames)-1].Timestamp
	return (last - first) / float64(len(t.frames)-1)
}

// FrameRate returns the mean frames per second, or 0 for degenerate tracks.
func (t *PoseTrack) FrameRate() float64 {
	p := t.FramePeriod()
	if p <= 0 {
		return 0
	}
	return 1 / p
}

// Complete reports whether every schema joint is present in frame i with at
// least the given confidence. Results are cached per threshold.
func (t *PoseTrack) Complete(i int, minConfidence float64) bool {
	if i < 0 || i >= len(t.frames) {
		return false
	}
	if t.completeness == nil || t.completenessThreshold != minConfidence {
		t.completeness = make([]bool, len(t.frames))
		t.completenessThreshold = minConfidence
		for fi := range t.frames {
			t.completeness[fi] = t.frameComplete(fi, minConfidence)
		}
	}
	return t.completeness[i]
}

func (t *PoseTrack) frameComplete(i int, minConfidence float64) bool {
	f := &t.frames[i]
	for _, j := range t.schema.Joints {
		c, ok := f.Joints[j]
		if !ok || c.Confidence < minConfidence {
			return false
		}
	}
	return true
}
