package model

// Unit labels metric values. Every metric sample carries one explicitly.
type Unit string

const (
	Degrees        Unit = "deg"
	Seconds        Unit = "s"
	StridesPerMin  Unit = "strides/min"
	Ratio          Unit = "ratio"
	NormalizedDist Unit = "norm"
)

// MetricSample is one named scalar attached to a frame or a cycle. Invalid
// samples (required joints absent or below the confidence threshold) carry
// Valid=false and must never default to zero in downstream aggregates.
type MetricSample struct {
	Name  string  `json:"name"`
	Unit  Unit    `json:"unit"`
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Invalid returns an invalid sample placeholder for the named metric.
func Invalid(name string, unit Unit) MetricSample {
	return MetricSample{Name: name, Unit: unit}
}

// MetricSet holds the per-frame samples of one frame, keyed by metric name.
type MetricSet map[string]MetricSample

// CycleMetrics holds the per-cycle scalars of one gait cycle.
type CycleMetrics struct {
	Cycle          GaitCycle    `json:"cycle"`
	StrideDuration MetricSample `json:"stride_duration"`
	Cadence        MetricSample `json:"cadence"`
	StrideLength   MetricSample `json:"stride_length"`
}

// MetricDelta pairs the A and B values of one metric at an aligned phase.
type MetricDelta struct {
	ValueA float64 `json:"value_a"`
	ValueB float64 `json:"value_b"`
	Delta  float64 `json:"delta"`
	Valid  bool    `json:"valid"`
}

// ComparisonResult is the read-only view served to the presentation layer:
// one A-frame, its mapped B position (when aligned), the phase fraction
// within the containing cycle, and the per-metric deltas.
type ComparisonResult struct {
	AFrame        int                    `json:"a_frame"`
	Aligned       bool                   `json:"aligned"`
	BPosition     float64                `json:"b_position"`
	PhaseFraction float64                `json:"phase_fraction"`
	Deltas        map[string]MetricDelta `json:"metric_deltas,omitempty"`
}

// CycleComparison pairs the cycle-level metrics of ordinal-matched cycles.
type CycleComparison struct {
	Ordinal int          `json:"ordinal"`
	A       CycleMetrics `json:"a"`
	B       CycleMetrics `json:"b"`
}
