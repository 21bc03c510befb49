package model

// Raw wire types for the per-video pose-data JSON produced by the offline
// estimation step. These are decode targets only; PoseTrack is the in-memory
// representation the pipeline works on.

type RawJoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z,omitempty"`
	Confidence float64 `json:"confidence"`
}

type RawFrame struct {
	FrameIndex int                 `json:"frame_index"`
	Timestamp  float64             `json:"timestamp"`
	HasPose    bool                `json:"has_pose"`
	Confidence float64             `json:"confidence"`
	Joints     map[string]RawJoint `json:"joints"`
}

type RawPoseData struct {
	Path      string     `json:"-"`
	VideoName string     `json:"video_name"`
	SchemaID  string     `json:"schema_id"`
	FPS       float64    `json:"fps"`
	Frames    []RawFrame `json:"frames"`
}
