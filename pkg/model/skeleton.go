package model

import "fmt"

// Joint identifies one named landmark of a skeleton schema.
type Joint string

// Side distinguishes left and right limbs for side-tagged data such as gait
// cycles and per-side reference joints.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// Running-schema joints, named after the MediaPipe pose landmarks the upstream
// overlay videos are drawn from.
const (
	Nose           Joint = "nose"
	LeftShoulder   Joint = "left_shoulder"
	RightShoulder  Joint = "right_shoulder"
	LeftElbow      Joint = "left_elbow"
	RightElbow     Joint = "right_elbow"
	LeftWrist      Joint = "left_wrist"
	RightWrist     Joint = "right_wrist"
	LeftHip        Joint = "left_hip"
	RightHip       Joint = "right_hip"
	LeftKnee       Joint = "left_knee"
	RightKnee      Joint = "right_knee"
	LeftAnkle      Joint = "left_ankle"
	RightAnkle     Joint = "right_ankle"
	LeftHeel       Joint = "left_heel"
	RightHeel      Joint = "right_heel"
	LeftFootIndex  Joint = "left_foot_index"
	RightFootIndex Joint = "right_foot_index"
)

// Skeleton is a fixed, ordered set of named joints. All tracks in a session
// must share the same schema; comparisons across mismatched schemas are
// invalid by definition.
type Skeleton struct {
	ID     string
	Joints []Joint
}

// RunningSkeletonID is the schema identifier the upstream pose-data JSON files
// declare.
const RunningSkeletonID = "mediapipe-running-v1"

// RunningSkeleton returns the built-in schema for running analysis.
func RunningSkeleton() *Skeleton {
	return &Skeleton{
		ID: RunningSkeletonID,
		Joints: []Joint{
			Nose,
			LeftShoulder, RightShoulder,
			LeftElbow, RightElbow,
			LeftWrist, RightWrist,
			LeftHip, RightHip,
			LeftKnee, RightKnee,
			LeftAnkle, RightAnkle,
			LeftHeel, RightHeel,
			LeftFootIndex, RightFootIndex,
		},
	}
}

// Contains reports whether the schema defines the given joint.
func (s *Skeleton) Contains(j Joint) bool {
	for _, sj := range s.Joints {
		if sj == j {
			return true
		}
	}
	return false
}

// Ankle returns the ankle joint of the given side.
func Ankle(side Side) Joint {
	if side == Left {
		return LeftAnkle
	}
	return RightAnkle
}

// JointFromSide builds a side-qualified joint name, e.g. ("knee", Left) ->
// "left_knee".
func JointFromSide(base string, side Side) Joint {
	return Joint(fmt.Sprintf("%s_%s", side, base))
}
