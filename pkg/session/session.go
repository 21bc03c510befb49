// Package session orchestrates the alignment pipeline for one pair of pose
// tracks and serves aligned-phase queries to the presentation layer.
package session

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/strideworks/gaitalign/pkg/config"
	"github.com/strideworks/gaitalign/pkg/model"
	"github.com/strideworks/gaitalign/pkg/usecase"
)

// State is the session's position in the fixed pipeline order. Transitions
// are forward-only; replacing a track drops back to TracksLoaded and
// invalidates everything derived.
type State int

const (
	Empty State = iota
	TracksLoaded
	CyclesDetected
	Aligned
	Ready
)

var stateNames = [...]string{"empty", "tracks_loaded", "cycles_detected", "aligned", "ready"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Slot names one of the session's two tracks.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

type trackState struct {
	track        *model.PoseTrack
	cycles       map[model.Side][]model.GaitCycle
	frameMetrics []model.MetricSet
	cycleMetrics map[model.Side][]model.CycleMetrics
	symmetry     model.MetricSample
}

// Session owns one (A, B) track pair plus all data derived from it. It is a
// single-threaded unit: independent sessions may be built concurrently, but
// one session's methods must be externally serialized.
type Session struct {
	id    string
	cfg   *config.Config
	state State

	a trackState
	b trackState

	pairs    []model.CyclePair
	amap     *model.AlignmentMap
	pairCmp  []model.CycleComparison
	symmetry map[Slot]model.MetricSample
}

// New creates an empty session with its own snapshot of the configuration.
func New(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{
		id:  uuid.NewString(),
		cfg: cfg.Clone(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current pipeline state.
func (s *Session) State() State { return s.state }

// Config returns the session's configuration snapshot.
func (s *Session) Config() *config.Config { return s.cfg }

// LoadTracks installs the track pair. Both tracks must share one skeleton
// schema; a mismatch fails before any detection runs. Loading tracks into a
// session that already advanced resets it to TracksLoaded.
func (s *Session) LoadTracks(a, b *model.PoseTrack) error {
	if a == nil || b == nil {
		return fmt.Errorf("both tracks are required")
	}
	if a.Schema().ID != b.Schema().ID {
		return fmt.Errorf("track %q has schema %q, track %q has %q: %w",
			a.Name, a.Schema().ID, b.Name, b.Schema().ID, model.ErrSchemaMismatch)
	}
	s.a = trackState{track: a}
	s.b = trackState{track: b}
	s.invalidateDerived()
	s.state = TracksLoaded
	return nil
}

// ReplaceTrack swaps one track of the pair. All derived state is invalidated
// and the session drops back to TracksLoaded.
func (s *Session) ReplaceTrack(slot Slot, t *model.PoseTrack) error {
	if s.state < TracksLoaded {
		return fmt.Errorf("no track pair loaded yet")
	}
	if t == nil {
		return fmt.Errorf("nil track")
	}
	other := s.b.track
	if slot == SlotB {
		other = s.a.track
	}
	if t.Schema().ID != other.Schema().ID {
		return fmt.Errorf("replacement track %q has schema %q, want %q: %w",
			t.Name, t.Schema().ID, other.Schema().ID, model.ErrSchemaMismatch)
	}
	if slot == SlotA {
		s.a = trackState{track: t}
		s.b = trackState{track: s.b.track}
	} else {
		s.b = trackState{track: t}
		s.a = trackState{track: s.a.track}
	}
	s.invalidateDerived()
	s.state = TracksLoaded
	return nil
}

func (s *Session) invalidateDerived() {
	s.pairs = nil
	s.amap = nil
	s.pairCmp = nil
	s.symmetry = nil
}

// DetectCycles runs gait-cycle detection on both sides of both tracks. On
// failure the session stays in its previous state.
func (s *Session) DetectCycles() error {
	if s.state < TracksLoaded {
		return fmt.Errorf("detect requires a loaded track pair (state %s)", s.state)
	}
	for _, ts := range []*trackState{&s.a, &s.b} {
		cycles := make(map[model.Side][]model.GaitCycle, 2)
		for _, side := range []model.Side{model.Left, model.Right} {
			cs, err := usecase.DetectCycles(ts.track, side, s.cfg)
			if err != nil {
				return fmt.Errorf("track %q side %s: %w", ts.track.Name, side, err)
			}
			cycles[side] = cs
		}
		ts.cycles = cycles
	}
	s.state = CyclesDetected
	return nil
}

// Align builds the alignment map from the primary side's cycles. Zero cycles
// on either side is ErrNoOverlap and the session stays below Aligned.
func (s *Session) Align() error {
	if s.state < CyclesDetected {
		return fmt.Errorf("align requires detected cycles (state %s)", s.state)
	}
	pairer, err := usecase.NewCyclePairer(s.cfg)
	if err != nil {
		return err
	}
	side := s.cfg.PrimarySide
	aCycles := s.a.cycles[side]
	bCycles := s.b.cycles[side]

	amap, pairs, err := usecase.Align(s.a.track, s.b.track, aCycles, bCycles, pairer)
	if err != nil {
		return err
	}
	s.pairs = pairs
	s.amap = amap
	s.state = Aligned
	return nil
}

// ComputeMetrics fills the per-frame and per-cycle metric caches and the
// paired cycle comparisons, completing the pipeline.
func (s *Session) ComputeMetrics() error {
	if s.state < Aligned {
		return fmt.Errorf("metrics require an alignment (state %s)", s.state)
	}
	for _, ts := range []*trackState{&s.a, &s.b} {
		ts.frameMetrics = usecase.ExtractFrameMetrics(ts.track, s.cfg)
		ts.cycleMetrics = map[model.Side][]model.CycleMetrics{
			model.Left:  usecase.ExtractCycleMetrics(ts.track, ts.cycles[model.Left], s.cfg),
			model.Right: usecase.ExtractCycleMetrics(ts.track, ts.cycles[model.Right], s.cfg),
		}
		ts.symmetry = usecase.BilateralSymmetry(ts.track, ts.cycles[model.Left], ts.cycles[model.Right])
	}

	s.pairCmp = make([]model.CycleComparison, len(s.pairs))
	for i, p := range s.pairs {
		s.pairCmp[i] = model.CycleComparison{
			Ordinal: i,
			A:       s.cycleMetricsFor(&s.a, p.A),
			B:       s.cycleMetricsFor(&s.b, p.B),
		}
	}
	s.symmetry = map[Slot]model.MetricSample{SlotA: s.a.symmetry, SlotB: s.b.symmetry}
	s.state = Ready

	log.Info().
		Str("session", s.id).
		Int("paired_cycles", len(s.pairs)).
		Msg("session ready")
	return nil
}

func (s *Session) cycleMetricsFor(ts *trackState, c model.GaitCycle) model.CycleMetrics {
	for _, cm := range ts.cycleMetrics[c.Side] {
		if cm.Cycle.Start == c.Start && cm.Cycle.Side == c.Side {
			return cm
		}
	}
	// Cycle did not come from the cached lists; compute directly.
	return usecase.ExtractCycleMetrics(ts.track, []model.GaitCycle{c}, s.cfg)[0]
}

// Run executes the remaining pipeline stages in order.
func (s *Session) Run() error {
	if s.state < TracksLoaded {
		return fmt.Errorf("no track pair loaded")
	}
	if s.state < CyclesDetected {
		if err := s.DetectCycles(); err != nil {
			return err
		}
	}
	if s.state < Aligned {
		if err := s.Align(); err != nil {
			return err
		}
	}
	if s.state < Ready {
		if err := s.ComputeMetrics(); err != nil {
			return err
		}
	}
	return nil
}

// CompareFrame returns the comparison result for one A-frame. Frames outside
// the aligned domain come back with Aligned=false and no deltas rather than
// extrapolated values.
func (s *Session) CompareFrame(aFrame int) (*model.ComparisonResult, error) {
	if s.state != Ready {
		return nil, fmt.Errorf("state %s: %w", s.state, model.ErrSessionNotReady)
	}
	if aFrame < 0 || aFrame >= s.a.track.Len() {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", aFrame, s.a.track.Len())
	}

	res := &model.ComparisonResult{AFrame: aFrame}
	bPos, ok := s.amap.Position(float64(aFrame))
	if !ok {
		return res, nil
	}
	res.Aligned = true
	res.BPosition = bPos
	for _, p := range s.pairs {
		if p.A.Contains(aFrame) {
			res.PhaseFraction = p.A.Phase(float64(aFrame))
			break
		}
	}
	res.Deltas = usecase.DeltasAt(s.a.frameMetrics, s.b.frameMetrics, aFrame, bPos)
	return res, nil
}

// ComparePhase resolves a phase fraction in [0,1] across the aligned A-domain
// to the nearest frame and returns its comparison result.
func (s *Session) ComparePhase(fraction float64) (*model.ComparisonResult, error) {
	if s.state != Ready {
		return nil, fmt.Errorf("state %s: %w", s.state, model.ErrSessionNotReady)
	}
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("phase fraction %f out of range [0,1]", fraction)
	}
	lo, hi := s.amap.Domain()
	pos := lo + fraction*(hi-lo)
	frame := int(math.Round(pos))
	if frame >= int(hi) {
		frame = int(hi) - 1
	}
	return s.CompareFrame(frame)
}

// CompareCycle returns the paired cycle-level metrics for the k-th matched
// cycle pair.
func (s *Session) CompareCycle(ordinal int) (*model.CycleComparison, error) {
	if s.state != Ready {
		return nil, fmt.Errorf("state %s: %w", s.state, model.ErrSessionNotReady)
	}
	if ordinal < 0 || ordinal >= len(s.pairCmp) {
		return nil, fmt.Errorf("cycle ordinal %d out of range [0,%d)", ordinal, len(s.pairCmp))
	}
	cmp := s.pairCmp[ordinal]
	return &cmp, nil
}

// CycleComparisons returns all paired cycle-level metrics.
func (s *Session) CycleComparisons() ([]model.CycleComparison, error) {
	if s.state != Ready {
		return nil, fmt.Errorf("state %s: %w", s.state, model.ErrSessionNotReady)
	}
	out := make([]model.CycleComparison, len(s.pairCmp))
	copy(out, s.pairCmp)
	return out, nil
}

// Track returns one of the session's tracks, or nil before loading.
func (s *Session) Track(slot Slot) *model.PoseTrack {
	if slot == SlotA {
		return s.a.track
	}
	return s.b.track
}

// Info is a read-only snapshot for status endpoints.
type Info struct {
	ID          string             `json:"id"`
	State       string             `json:"state"`
	TrackA      TrackInfo          `json:"track_a"`
	TrackB      TrackInfo          `json:"track_b"`
	PairedCount int                `json:"paired_cycles"`
	DomainStart float64            `json:"domain_start"`
	DomainEnd   float64            `json:"domain_end"`
	Symmetry    map[string]float64 `json:"bilateral_symmetry,omitempty"`
}

// TrackInfo summarizes one track for status endpoints.
type TrackInfo struct {
	Name        string `json:"name"`
	Frames      int    `json:"frames"`
	LeftCycles  int    `json:"left_cycles"`
	RightCycles int    `json:"right_cycles"`
}

// Info returns the session snapshot. Valid in every state; fields derived
// from later stages stay zero until those stages ran.
func (s *Session) Info() Info {
	info := Info{ID: s.id, State: s.state.String()}
	if s.a.track != nil {
		info.TrackA = trackInfo(&s.a)
		info.TrackB = trackInfo(&s.b)
	}
	if s.amap != nil {
		info.PairedCount = len(s.pairs)
		info.DomainStart, info.DomainEnd = s.amap.Domain()
	}
	if s.symmetry != nil {
		info.Symmetry = map[string]float64{}
		if sm := s.symmetry[SlotA]; sm.Valid {
			info.Symmetry["a"] = sm.Value
		}
		if sm := s.symmetry[SlotB]; sm.Valid {
			info.Symmetry["b"] = sm.Value
		}
	}
	return info
}

func trackInfo(ts *trackState) TrackInfo {
	return TrackInfo{
		Name:        ts.track.Name,
		Frames:      ts.track.Len(),
		LeftCycles:  len(ts.cycles[model.Left]),
		RightCycles: len(ts.cycles[model.Right]),
	}
}
