package model

import (
	"math"
	"testing"
)

// TestAlignmentScenario covers the ordinal-pairing scenario: A has 3 cycles,
// B has 2, so only the first two ordinal cycles are aligned; the midpoint of
// A's first cycle maps to the midpoint of B's first.
func TestAlignmentScenario(t *testing.T) {
	pairs := []CyclePair{
		{A: GaitCycle{Start: 0, End: 30, Side: Left}, B: GaitCycle{Start: 0, End: 40, Side: Left}},
		{A: GaitCycle{Start: 30, End: 58, Side: Left}, B: GaitCycle{Start: 40, End: 85, Side: Left}},
	}
	m, err := NewAlignmentMap(pairs)
	if err != nil {
		t.Fatalf("NewAlignmentMap failed: %v", err)
	}

	pos, ok := m.Position(15)
	if !ok {
		t.Fatal("frame 15 should be inside the aligned domain")
	}
	if math.Abs(pos-20) > 1e-9 {
		t.Errorf("frame 15 (phase 0.5 of cycle 1) should map to 20, got %f", pos)
	}

	if _, ok := m.Position(85); ok {
		t.Error("frame 85 (A's third cycle) must be reported unaligned")
	}
	if _, ok := m.Position(58); ok {
		t.Error("frame 58 (open end of the domain) must be unaligned")
	}
	if pos, ok := m.Position(0); !ok || pos != 0 {
		t.Errorf("frame 0 should map to 0, got (%f, %v)", pos, ok)
	}

	lo, hi := m.Domain()
	if lo != 0 || hi != 58 {
		t.Errorf("expected domain [0,58), got [%f,%f)", lo, hi)
	}
}

// TestAlignmentMonotonic verifies weak monotonicity over the domain.
func TestAlignmentMonotonic(t *testing.T) {
	pairs := []CyclePair{
		{A: GaitCycle{Start: 0, End: 25, Side: Left}, B: GaitCycle{Start: 5, End: 50, Side: Left}},
		{A: GaitCycle{Start: 25, End: 60, Side: Left}, B: GaitCycle{Start: 50, End: 71, Side: Left}},
		{A: GaitCycle{Start: 60, End: 90, Side: Left}, B: GaitCycle{Start: 71, End: 130, Side: Left}},
	}
	m, err := NewAlignmentMap(pairs)
	if err != nil {
		t.Fatalf("NewAlignmentMap failed: %v", err)
	}

	prev := math.Inf(-1)
	for a := 0.0; a < 90; a += 0.25 {
		pos, ok := m.Position(a)
		if !ok {
			t.Fatalf("position %f unexpectedly outside domain", a)
		}
		if pos < prev {
			t.Fatalf("map not monotonic: map(%f)=%f < previous %f", a, pos, prev)
		}
		prev = pos
	}
}

// TestAlignmentIdentity verifies that aligning a track against itself yields
// the identity mapping.
func TestAlignmentIdentity(t *testing.T) {
	cycles := []GaitCycle{
		{Start: 0, End: 30, Side: Left},
		{Start: 30, End: 58, Side: Left},
		{Start: 58, End: 90, Side: Left},
	}
	pairs := make([]CyclePair, len(cycles))
	for i, c := range cycles {
		pairs[i] = CyclePair{A: c, B: c}
	}
	m, err := NewAlignmentMap(pairs)
	if err != nil {
		t.Fatalf("NewAlignmentMap failed: %v", err)
	}
	for a := 0; a < 90; a++ {
		pos, ok := m.Position(float64(a))
		if !ok {
			t.Fatalf("frame %d unexpectedly outside domain", a)
		}
		if math.Abs(pos-float64(a)) > 1e-9 {
			t.Fatalf("identity alignment broken: map(%d)=%f", a, pos)
		}
	}
}

func TestAlignmentMapGapStaysUnaligned(t *testing.T) {
	// second pair does not touch the first in A: frames 30..39 are a gap
	pairs := []CyclePair{
		{A: GaitCycle{Start: 0, End: 30, Side: Left}, B: GaitCycle{Start: 0, End: 40, Side: Left}},
		{A: GaitCycle{Start: 40, End: 70, Side: Left}, B: GaitCycle{Start: 40, End: 85, Side: Left}},
	}
	m, err := NewAlignmentMap(pairs)
	if err != nil {
		t.Fatalf("NewAlignmentMap failed: %v", err)
	}
	if _, ok := m.Position(35); ok {
		t.Error("frames in a pairing gap must stay unaligned")
	}
	if _, ok := m.Position(45); !ok {
		t.Error("frames of the second run should be aligned")
	}
}

func TestAlignmentMapRejectsEmpty(t *testing.T) {
	if _, err := NewAlignmentMap(nil); err == nil {
		t.Fatal("expected error for empty pair list")
	}
}
