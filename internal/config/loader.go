package config

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"

	"github.com/overlayassistant/overlay-go/internal/cv"
	"github.com/overlayassistant/overlay-go/internal/engine"
)

// Settings is everything the hosting collaborator persists between runs.
// The engine consumes these values only at start; editing the file while a
// run is active has no effect until restart.
type Settings struct {
	// Detection
	TemplateFolder   string
	ScanFraction     float64
	Threshold        float64
	Scale            float64
	FPSTarget        float64
	TemplatesPerTick int
	CooldownSeconds  float64

	// Action
	Wiggle          int
	HoverDelay      float64
	SimulateOnly    bool
	AllowRealClicks bool

	// Host
	SelectedMonitor int
	HistoryPath     string
	LogLevel        string
}

// NewDefaultSettings returns the safe first-run defaults: simulate-only,
// real clicks off.
func NewDefaultSettings() *Settings {
	return &Settings{
		TemplateFolder:   "",
		ScanFraction:     0.70,
		Threshold:        0.80,
		Scale:            0.50,
		FPSTarget:        20,
		TemplatesPerTick: 4,
		CooldownSeconds:  0.25,
		Wiggle:           2,
		HoverDelay:       0.03,
		SimulateOnly:     true,
		AllowRealClicks:  false,
		SelectedMonitor:  0,
		HistoryPath:      "",
		LogLevel:         "INFO",
	}
}

// LoadFromINI loads settings from a Settings.ini file
func LoadFromINI(path string) (*Settings, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	section := cfg.Section("UserSettings")
	defaults := NewDefaultSettings()

	s := &Settings{}
	s.TemplateFolder = section.Key("templateFolder").MustString(defaults.TemplateFolder)
	s.ScanFraction = section.Key("scanFraction").MustFloat64(defaults.ScanFraction)
	s.Threshold = section.Key("threshold").MustFloat64(defaults.Threshold)
	s.Scale = section.Key("scale").MustFloat64(defaults.Scale)
	s.FPSTarget = section.Key("fpsTarget").MustFloat64(defaults.FPSTarget)
	s.TemplatesPerTick = section.Key("templatesPerTick").MustInt(defaults.TemplatesPerTick)
	s.CooldownSeconds = section.Key("cooldownSeconds").MustFloat64(defaults.CooldownSeconds)
	s.Wiggle = section.Key("wiggle").MustInt(defaults.Wiggle)
	s.HoverDelay = section.Key("hoverDelay").MustFloat64(defaults.HoverDelay)
	s.SimulateOnly = section.Key("simulateOnly").MustBool(defaults.SimulateOnly)
	s.AllowRealClicks = section.Key("allowRealClicks").MustBool(defaults.AllowRealClicks)
	s.SelectedMonitor = section.Key("selectedMonitor").MustInt(defaults.SelectedMonitor)
	s.HistoryPath = section.Key("historyPath").MustString(defaults.HistoryPath)
	s.LogLevel = section.Key("logLevel").MustString(defaults.LogLevel)

	return s, nil
}

// SaveToINI writes settings to a Settings.ini file
func SaveToINI(s *Settings, path string) error {
	cfg := ini.Empty()
	section := cfg.Section("UserSettings")

	section.Key("templateFolder").SetValue(s.TemplateFolder)
	section.Key("scanFraction").SetValue(fmt.Sprintf("%g", s.ScanFraction))
	section.Key("threshold").SetValue(fmt.Sprintf("%g", s.Threshold))
	section.Key("scale").SetValue(fmt.Sprintf("%g", s.Scale))
	section.Key("fpsTarget").SetValue(fmt.Sprintf("%g", s.FPSTarget))
	section.Key("templatesPerTick").SetValue(fmt.Sprintf("%d", s.TemplatesPerTick))
	section.Key("cooldownSeconds").SetValue(fmt.Sprintf("%g", s.CooldownSeconds))
	section.Key("wiggle").SetValue(fmt.Sprintf("%d", s.Wiggle))
	section.Key("hoverDelay").SetValue(fmt.Sprintf("%g", s.HoverDelay))
	section.Key("simulateOnly").SetValue(fmt.Sprintf("%t", s.SimulateOnly))
	section.Key("allowRealClicks").SetValue(fmt.Sprintf("%t", s.AllowRealClicks))
	section.Key("selectedMonitor").SetValue(fmt.Sprintf("%d", s.SelectedMonitor))
	section.Key("historyPath").SetValue(s.HistoryPath)
	section.Key("logLevel").SetValue(s.LogLevel)

	return cfg.SaveTo(path)
}

// EngineConfig converts the persisted settings plus a derived scan region
// into the engine's immutable run configuration.
func (s *Settings) EngineConfig(region cv.Region) engine.Config {
	return engine.Config{
		TemplateFolder:      s.TemplateFolder,
		Region:              region,
		ScaleFactor:         s.Scale,
		ConfidenceThreshold: s.Threshold,
		TargetFrequencyHz:   s.FPSTarget,
		TemplatesPerCycle:   s.TemplatesPerTick,
		Cooldown:            time.Duration(s.CooldownSeconds * float64(time.Second)),
		WigglePixels:        s.Wiggle,
		HoverDelay:          time.Duration(s.HoverDelay * float64(time.Second)),
		SimulateOnly:        s.SimulateOnly,
		AllowAction:         s.AllowRealClicks,
	}
}
