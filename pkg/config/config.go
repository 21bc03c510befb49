// Package config holds the tunable surface of the alignment pipeline: which
// joints drive detection, the expected cadence range, smoothing and confidence
// thresholds, and the cycle-pairing policy.
package config

import (
	"fmt"
	"os"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"github.com/strideworks/gaitalign/pkg/model"
)

// Pairing policies. Ordinal is the only default; DTW must be asked for
// explicitly, never substituted silently.
const (
	PairingOrdinal = "ordinal"
	PairingDTW     = "dtw"
)

// ReferenceJoints names the detection reference joint per side. The default
// for each side is the ankle of the opposite side.
type ReferenceJoints struct {
	Left  model.Joint `yaml:"left"`
	Right model.Joint `yaml:"right"`
}

// Config is the full pipeline configuration. Zero values are filled from
// Default by Validate, so a partial YAML file is fine.
type Config struct {
	// PrimarySide selects which side's cycles anchor the alignment map.
	PrimarySide model.Side `yaml:"primary_side"`

	ReferenceJoints ReferenceJoints `yaml:"reference_joints"`

	// Expected cadence range in strides per minute, used to derive the
	// minimum separation between detected foot strikes.
	CadenceMin float64 `yaml:"cadence_min"`
	CadenceMax float64 `yaml:"cadence_max"`

	// SmoothingWindow is the moving-average window (frames) applied to the
	// reference-joint signal before minima detection.
	SmoothingWindow int `yaml:"smoothing_window"`

	// ConfidenceThreshold is the minimum per-joint confidence for a joint
	// observation to be used at all. 0 means unset and is filled from the
	// default; an explicit zero threshold is not expressible in YAML.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// MinSignalFraction is the minimum fraction of frames in which the
	// reference joint must be confidently observed for detection to run.
	// 0 means unset and is filled from the default, like ConfidenceThreshold.
	MinSignalFraction float64 `yaml:"min_signal_fraction"`

	// PairingPolicy selects how cycles of the two tracks are matched.
	PairingPolicy string `yaml:"pairing_policy"`
}

// Default returns the configuration the pipeline runs with when the caller
// supplies nothing.
func Default() *Config {
	return &Config{
		PrimarySide: model.Left,
		ReferenceJoints: ReferenceJoints{
			Left:  model.Ankle(model.Right),
			Right: model.Ankle(model.Left),
		},
		CadenceMin:          60,
		CadenceMax:          220,
		SmoothingWindow:     5,
		ConfidenceThreshold: model.DefaultConfidenceThreshold,
		MinSignalFraction:   0.5,
		PairingPolicy:       PairingOrdinal,
	}
}

// Load reads and parses a YAML config file, filling omitted fields with
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills zero fields from Default and rejects inconsistent values.
func (c *Config) Validate() error {
	d := Default()
	if c.PrimarySide == "" {
		c.PrimarySide = d.PrimarySide
	}
	if c.PrimarySide != model.Left && c.PrimarySide != model.Right {
		return fmt.Errorf("primary_side must be %q or %q, got %q", model.Left, model.Right, c.PrimarySide)
	}
	if c.ReferenceJoints.Left == "" {
		c.ReferenceJoints.Left = d.ReferenceJoints.Left
	}
	if c.ReferenceJoints.Right == "" {
		c.ReferenceJoints.Right = d.ReferenceJoints.Right
	}
	if c.CadenceMin == 0 {
		c.CadenceMin = d.CadenceMin
	}
	if c.CadenceMax == 0 {
		c.CadenceMax = d.CadenceMax
	}
	if c.CadenceMin <= 0 || c.CadenceMax <= c.CadenceMin {
		return fmt.Errorf("cadence range [%f, %f] is not a valid range", c.CadenceMin, c.CadenceMax)
	}
	if c.SmoothingWindow == 0 {
		c.SmoothingWindow = d.SmoothingWindow
	}
	if c.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be >= 1, got %d", c.SmoothingWindow)
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = d.ConfidenceThreshold
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be in [0,1], got %f", c.ConfidenceThreshold)
	}
	if c.MinSignalFraction == 0 {
		c.MinSignalFraction = d.MinSignalFraction
	}
	if c.MinSignalFraction < 0 || c.MinSignalFraction > 1 {
		return fmt.Errorf("min_signal_fraction must be in [0,1], got %f", c.MinSignalFraction)
	}
	if c.PairingPolicy == "" {
		c.PairingPolicy = d.PairingPolicy
	}
	if c.PairingPolicy != PairingOrdinal && c.PairingPolicy != PairingDTW {
		return fmt.Errorf("unknown pairing_policy %q", c.PairingPolicy)
	}
	return nil
}

// ReferenceJoint returns the configured detection reference joint for the
// given side.
func (c *Config) ReferenceJoint(side model.Side) model.Joint {
	if side == model.Left {
		return c.ReferenceJoints.Left
	}
	return c.ReferenceJoints.Right
}

// MinStrideSeconds returns the shortest stride duration the cadence range
// admits.
func (c *Config) MinStrideSeconds() float64 {
	return 60 / c.CadenceMax
}

// MaxStrideSeconds returns the longest stride duration the cadence range
// admits.
func (c *Config) MaxStrideSeconds() float64 {
	return 60 / c.CadenceMin
}

// Clone returns a deep copy so a session owns an isolated snapshot of its
// configuration.
func (c *Config) Clone() *Config {
	out := &Config{}
	if err := copier.Copy(out, c); err != nil {
		// Config is a plain value struct; Copy cannot fail on it.
		cp := *c
		return &cp
	}
	return out
}
