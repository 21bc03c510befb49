package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/strideworks/gaitalign/pkg/model"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.ReferenceJoint(model.Left) != model.RightAnkle {
		t.Errorf("left side should reference the right ankle, got %s", cfg.ReferenceJoint(model.Left))
	}
	if cfg.ReferenceJoint(model.Right) != model.LeftAnkle {
		t.Errorf("right side should reference the left ankle, got %s", cfg.ReferenceJoint(model.Right))
	}
	if cfg.PairingPolicy != PairingOrdinal {
		t.Errorf("default pairing policy must be ordinal, got %q", cfg.PairingPolicy)
	}
}

func TestValidateFillsZeroFields(t *testing.T) {
	cfg := &Config{CadenceMax: 200}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("partial config must validate: %v", err)
	}
	if cfg.CadenceMax != 200 {
		t.Errorf("explicit value overwritten: %f", cfg.CadenceMax)
	}
	if cfg.CadenceMin != 60 || cfg.SmoothingWindow != 5 {
		t.Errorf("zero fields not filled: %+v", cfg)
	}
	// Zero reads as unset for the float thresholds too.
	if cfg.ConfidenceThreshold != model.DefaultConfidenceThreshold || cfg.MinSignalFraction != 0.5 {
		t.Errorf("zero thresholds not filled from defaults: %+v", cfg)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"inverted cadence range", func(c *Config) { c.CadenceMin = 220; c.CadenceMax = 60 }},
		{"unknown pairing policy", func(c *Config) { c.PairingPolicy = "greedy" }},
		{"unknown primary side", func(c *Config) { c.PrimarySide = "up" }},
		{"negative smoothing window", func(c *Config) { c.SmoothingWindow = -3 }},
		{"confidence above one", func(c *Config) { c.ConfidenceThreshold = 1.5 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mut(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadPartialYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "primary_side: right\ncadence_max: 200\npairing_policy: dtw\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PrimarySide != model.Right {
		t.Errorf("primary_side not read: %s", cfg.PrimarySide)
	}
	if cfg.CadenceMax != 200 || cfg.PairingPolicy != PairingDTW {
		t.Errorf("explicit fields not read: %+v", cfg)
	}
	if cfg.SmoothingWindow != 5 || cfg.MinSignalFraction != 0.5 {
		t.Errorf("omitted fields not defaulted: %+v", cfg)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file must fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pairing_policy: greedy\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid policy must fail")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Default()
	clone := orig.Clone()
	clone.CadenceMax = 180
	clone.ReferenceJoints.Left = model.LeftHeel
	if orig.CadenceMax != 220 || orig.ReferenceJoints.Left != model.RightAnkle {
		t.Errorf("clone mutation leaked into original: %+v", orig)
	}
}

func TestStrideBounds(t *testing.T) {
	cfg := Default()
	if got := cfg.MinStrideSeconds(); got != 60.0/220.0 {
		t.Errorf("MinStrideSeconds = %f", got)
	}
	if got := cfg.MaxStrideSeconds(); got != 1.0 {
		t.Errorf("MaxStrideSeconds = %f", got)
	}
}
