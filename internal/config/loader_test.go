package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/overlayassistant/overlay-go/internal/cv"
)

func TestDefaultsAreSafe(t *testing.T) {
	s := NewDefaultSettings()

	if !s.SimulateOnly {
		t.Error("defaults must start in simulate-only mode")
	}
	if s.AllowRealClicks {
		t.Error("defaults must not allow real clicks")
	}
	if s.Scale <= 0 || s.Scale > 1 {
		t.Errorf("default scale %g outside (0,1]", s.Scale)
	}
	if s.Threshold < 0 || s.Threshold > 1 {
		t.Errorf("default threshold %g outside [0,1]", s.Threshold)
	}
	if s.FPSTarget <= 0 {
		t.Errorf("default fps target %g must be positive", s.FPSTarget)
	}
	if s.TemplatesPerTick <= 0 {
		t.Errorf("default templates per tick %d must be positive", s.TemplatesPerTick)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Settings.ini")

	want := &Settings{
		TemplateFolder:   "/srv/overlay/templates",
		ScanFraction:     0.85,
		Threshold:        0.72,
		Scale:            0.40,
		FPSTarget:        30,
		TemplatesPerTick: 6,
		CooldownSeconds:  1.5,
		Wiggle:           3,
		HoverDelay:       0.05,
		SimulateOnly:     false,
		AllowRealClicks:  true,
		SelectedMonitor:  1,
		HistoryPath:      "/srv/overlay/history.db",
		LogLevel:         "DEBUG",
	}

	if err := SaveToINI(want, path); err != nil {
		t.Fatalf("SaveToINI failed: %v", err)
	}

	got, err := LoadFromINI(path)
	if err != nil {
		t.Fatalf("LoadFromINI failed: %v", err)
	}

	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadMissingKeysFallBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Settings.ini")
	partial := "[UserSettings]\nthreshold = 0.9\ntemplatesPerTick = 8\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	s, err := LoadFromINI(path)
	if err != nil {
		t.Fatalf("LoadFromINI failed: %v", err)
	}

	if s.Threshold != 0.9 {
		t.Errorf("Threshold = %g, want 0.9", s.Threshold)
	}
	if s.TemplatesPerTick != 8 {
		t.Errorf("TemplatesPerTick = %d, want 8", s.TemplatesPerTick)
	}

	defaults := NewDefaultSettings()
	if s.Scale != defaults.Scale {
		t.Errorf("Scale = %g, want default %g", s.Scale, defaults.Scale)
	}
	if s.SimulateOnly != defaults.SimulateOnly {
		t.Errorf("SimulateOnly = %t, want default %t", s.SimulateOnly, defaults.SimulateOnly)
	}
	if s.LogLevel != defaults.LogLevel {
		t.Errorf("LogLevel = %q, want default %q", s.LogLevel, defaults.LogLevel)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := LoadFromINI(filepath.Join(t.TempDir(), "absent.ini")); err == nil {
		t.Fatal("expected an error for a missing settings file")
	}
}

func TestEngineConfigConversion(t *testing.T) {
	s := &Settings{
		TemplateFolder:   "templates",
		Threshold:        0.8,
		Scale:            0.5,
		FPSTarget:        20,
		TemplatesPerTick: 4,
		CooldownSeconds:  0.25,
		Wiggle:           2,
		HoverDelay:       0.03,
		SimulateOnly:     true,
	}
	region := cv.Region{Left: 100, Top: 50, Width: 800, Height: 600}

	cfg := s.EngineConfig(region)

	if cfg.Region != region {
		t.Errorf("Region = %v, want %v", cfg.Region, region)
	}
	if cfg.Cooldown != 250*time.Millisecond {
		t.Errorf("Cooldown = %v, want 250ms", cfg.Cooldown)
	}
	if cfg.HoverDelay != 30*time.Millisecond {
		t.Errorf("HoverDelay = %v, want 30ms", cfg.HoverDelay)
	}
	if cfg.ScaleFactor != 0.5 || cfg.ConfidenceThreshold != 0.8 {
		t.Errorf("scale/threshold = %g/%g, want 0.5/0.8", cfg.ScaleFactor, cfg.ConfidenceThreshold)
	}
	if !cfg.SimulateOnly || cfg.AllowAction {
		t.Error("gate flags did not carry over")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("converted config failed validation: %v", err)
	}
}
