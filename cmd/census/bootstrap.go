package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/jamesainslie/census/pkg/census/config"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/scanner"
	"github.com/jamesainslie/census/pkg/census/session"
	"github.com/jamesainslie/census/pkg/census/tuner"
	"github.com/jamesainslie/census/pkg/census/types"
)

// loadConfig decodes the global viper state, including bound flags.
func loadConfig() (*config.Config, error) {
	return config.Decode(viper.GetViper())
}

// consoleLevel mirrors log records to stderr: debug with --verbose,
// nothing with --quiet, warnings otherwise.
func consoleLevel() string {
	switch {
	case getQuiet():
		return ""
	case getVerbose():
		return "debug"
	default:
		return "warn"
	}
}

// initLogging configures file logging from cfg. In TUI mode nothing is
// written to the console.
func initLogging(cfg *config.Config, tuiMode bool) error {
	settings, err := cfg.LoggingSettings()
	if err != nil {
		return err
	}
	settings.ConsoleLevel = consoleLevel()
	settings.TUIMode = tuiMode

	if err := logging.Init(settings); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// sessionConfig derives scan settings from cfg and the detected system.
func sessionConfig(cfg *config.Config) (session.Config, error) {
	threshold, err := cfg.ThresholdBytes()
	if err != nil {
		return session.Config{}, err
	}
	estimator, err := scanner.ParseEstimator(cfg.Estimator)
	if err != nil {
		return session.Config{}, err
	}

	resources, err := tuner.Detect()
	if err != nil {
		printVerbose("Failed to detect system resources, using defaults: %v", err)
	} else {
		printVerbose("System: %d CPUs, %s RAM, %s available",
			resources.CPUCores,
			types.FormatSize(resources.TotalRAM),
			types.FormatSize(resources.AvailableRAM))
	}

	opt := tuner.Auto(cfg.Workers)
	printVerbose("Config: %d workers, queue size %d", opt.Workers, opt.QueueSize)

	return session.Config{
		Workers:   opt.Workers,
		QueueSize: opt.QueueSize,
		Threshold: threshold,
		TopK:      cfg.Top,
		Estimator: estimator,
	}, nil
}

// openHistory opens the history store unless history is disabled by
// config or --no-history. A nil store means history is off.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled || viper.GetBool("no_history") {
		return nil, nil
	}
	return history.Open(cfg.HistoryPath(), cfg.History.Retention)
}

// newSession builds a session wired to the history store. The returned
// func releases the store. A store that cannot be opened, for example
// because another census holds its lock, disables history for this run.
func newSession(cfg *config.Config) (*session.Session, func(), error) {
	sc, err := sessionConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := openHistory(cfg)
	if err != nil {
		logging.Get("history").Warn("history unavailable", "error", err)
		printVerbose("History disabled: %v", err)
		store = nil
	}

	release := func() {}
	if store != nil {
		sc.History = store
		release = func() { _ = store.Close() }
	}
	return session.New(sc), release, nil
}

// resolvePath expands ~ and makes p absolute. An empty p falls back to
// the configured default path.
func resolvePath(p string) (string, error) {
	if p == "" {
		p = viper.GetString("default_path")
	}
	if p == "" {
		p = config.DefaultPath
	}

	expanded, err := config.ExpandPath(p)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return abs, nil
}

// pathArg returns the first argument or the empty string.
func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
