package model

// GaitCycle is one detected stride: the half-open frame interval
// [Start, End) between two consecutive foot strikes of the same side. A
// trailing cycle whose closing strike never arrived is kept with Incomplete
// set rather than discarded.
type GaitCycle struct {
	Start      int
	End        int
	Side       Side
	Incomplete bool
}

// Contains reports whether frame i falls inside the cycle.
func (c GaitCycle) Contains(i int) bool {
	return i >= c.Start && i < c.End
}

// Frames returns the number of frames the cycle spans.
func (c GaitCycle) Frames() int {
	return c.End - c.Start
}

// Duration returns the cycle's duration in seconds on the given track.
func (c GaitCycle) Duration(t *PoseTrack) float64 {
	return t.Timestamp(c.End) - t.Timestamp(c.Start)
}

// Phase returns the phase fraction in [0,1) of frame position pos within the
// cycle. pos may be fractional.
func (c GaitCycle) Phase(pos float64) float64 {
	if c.End <= c.Start {
		return 0
	}
	return (pos - float64(c.Start)) / float64(c.End-c.Start)
}

// CyclePair ties the ordinal-matched cycles of two tracks together for
// alignment.
type CyclePair struct {
	A GaitCycle
	B GaitCycle
}
