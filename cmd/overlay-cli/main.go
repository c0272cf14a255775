package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/overlayassistant/overlay-go/internal/config"
	"github.com/overlayassistant/overlay-go/internal/cv"
	"github.com/overlayassistant/overlay-go/internal/engine"
	"github.com/overlayassistant/overlay-go/internal/events"
	"github.com/overlayassistant/overlay-go/internal/history"
	"github.com/overlayassistant/overlay-go/internal/input"
	"github.com/overlayassistant/overlay-go/internal/logging"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to Settings.ini")
	simulate := flag.Bool("simulate", false, "force simulate-only mode regardless of settings")
	flag.Parse()

	log := logging.NewLogger("overlay-cli")

	settings, err := loadOrCreateSettings(*configPath, log)
	if err != nil {
		log.Error("failed to load settings", err)
		os.Exit(1)
	}

	log.SetMinLevel(logging.ParseLevel(settings.LogLevel))

	if *simulate {
		settings.SimulateOnly = true
	}

	region, err := cv.CenteredRegion(settings.SelectedMonitor, settings.ScanFraction)
	if err != nil {
		log.Error("failed to derive scan region", err)
		os.Exit(1)
	}

	bus := events.NewEventBus(256)
	defer bus.Stop()

	eventLog := log.WithComponent("events")
	bus.Subscribe(events.EventTypeMatchFound, func(ev events.Event) {
		eventLog.InfoWithContext(ev.Message, ev.Data)
	})
	bus.Subscribe(events.EventTypeActionDenied, func(ev events.Event) {
		eventLog.Warn("action denied for " + ev.Message)
	})

	opts := engine.Options{
		Capturer: cv.NewScreenCapturer(),
		Sink:     engine.NewLoggerSink(log.WithComponent("engine")),
		Logger:   log.WithComponent("engine"),
		Bus:      bus,
	}

	pointer, err := input.NewSystemPointer()
	if err != nil {
		log.Warn(fmt.Sprintf("pointer injection unavailable, running log-only: %v", err))
	} else {
		opts.Pointer = pointer
	}

	if settings.HistoryPath != "" {
		store, err := history.Open(settings.HistoryPath)
		if err != nil {
			log.Error("failed to open detection history, continuing without it", err)
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	eng := engine.New(opts)
	if err := eng.Start(settings.EngineConfig(region)); err != nil {
		log.Error("engine failed to start", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	eng.Stop()
}

// loadOrCreateSettings loads Settings.ini, writing the safe defaults first
// if the file does not exist yet.
func loadOrCreateSettings(path string, log *logging.Logger) (*config.Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		settings := config.NewDefaultSettings()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := config.SaveToINI(settings, path); err != nil {
			return nil, fmt.Errorf("failed to write default settings: %w", err)
		}
		log.Info("wrote default settings to " + path)
		return settings, nil
	}

	return config.LoadFromINI(path)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Settings.ini"
	}
	return filepath.Join(home, ".overlay-assistant", "Settings.ini")
}
