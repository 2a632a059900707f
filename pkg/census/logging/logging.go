// Package logging provides component loggers for census.
//
// Loggers are cheap handles obtained with Get and are silent until Init is
// called, so library packages can log unconditionally:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logging.Get("scanner").Info("scan started", "root", root)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level represents a logging level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the string representation of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a string into a Level. The empty string means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default file log level (debug, info, warn, error).
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	Path string

	// Rotation configures log file rotation.
	Rotation RotationConfig

	// Components maps component names to level overrides.
	Components map[string]string

	// ConsoleLevel mirrors records at or above this level to stderr.
	// Empty disables console output.
	ConsoleLevel string

	// TUIMode suppresses console output because the TUI owns the terminal.
	TUIMode bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Path:     DefaultLogPath(),
		Rotation: DefaultRotationConfig(),
	}
}

// DefaultLogPath returns $XDG_STATE_HOME/census/census.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "census", "census.log")
}

// Logger is a component logger writing to the log file and,
// optionally, to the console. It is safe for concurrent use.
type Logger struct {
	out atomic.Pointer[sinks]
}

type sinks struct {
	file    *log.Logger
	console *log.Logger
}

// Debug logs a debug message with key/value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) { l.emit(LevelDebug, msg, keyvals) }

// Info logs an info message with key/value pairs.
func (l *Logger) Info(msg string, keyvals ...any) { l.emit(LevelInfo, msg, keyvals) }

// Warn logs a warning with key/value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) { l.emit(LevelWarn, msg, keyvals) }

// Error logs an error with key/value pairs.
func (l *Logger) Error(msg string, keyvals ...any) { l.emit(LevelError, msg, keyvals) }

// With returns a logger that adds keyvals to every record.
// The derived logger keeps the sinks active at the time of the call.
func (l *Logger) With(keyvals ...any) *Logger {
	cur := l.out.Load()
	next := &sinks{file: cur.file.With(keyvals...)}
	if cur.console != nil {
		next.console = cur.console.With(keyvals...)
	}
	derived := &Logger{}
	derived.out.Store(next)
	return derived
}

func (l *Logger) emit(level Level, msg string, keyvals []any) {
	cur := l.out.Load()
	cur.file.Log(level.charm(), msg, keyvals...)
	if cur.console != nil {
		cur.console.Log(level.charm(), msg, keyvals...)
	}
}

// registry is the process-wide logging state.
type registry struct {
	mu         sync.RWMutex
	ready      bool
	writer     *RotatingWriter
	level      Level
	components map[string]Level
	console    *Level
	loggers    map[string]*Logger
}

var global = &registry{
	components: make(map[string]Level),
	loggers:    make(map[string]*Logger),
}

// Init configures the logging system. Calling it again replaces the
// previous configuration and rebuilds existing component loggers.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	components := make(map[string]Level, len(cfg.Components))
	for name, raw := range cfg.Components {
		lvl, err := ParseLevel(raw)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", name, err)
		}
		components[name] = lvl
	}

	var console *Level
	if cfg.ConsoleLevel != "" && !cfg.TUIMode {
		lvl, err := ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
		console = &lvl
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if global.writer != nil {
		_ = global.writer.Close()
	}
	global.writer = writer
	global.level = level
	global.components = components
	global.console = console
	global.ready = true

	for name, logger := range global.loggers {
		logger.out.Store(global.build(name))
	}
	return nil
}

// Get returns the logger for a component, creating it on first use.
// The returned pointer stays valid across Init and Close.
func Get(component string) *Logger {
	global.mu.RLock()
	logger, ok := global.loggers[component]
	global.mu.RUnlock()
	if ok {
		return logger
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	if logger, ok := global.loggers[component]; ok {
		return logger
	}
	logger = &Logger{}
	logger.out.Store(global.build(component))
	global.loggers[component] = logger
	return logger
}

// build creates the sinks for component. Callers hold r.mu.
func (r *registry) build(component string) *sinks {
	level := r.level
	if lvl, ok := r.components[component]; ok {
		level = lvl
	}

	var out io.Writer = io.Discard
	if r.ready && r.writer != nil {
		out = r.writer
	}

	built := &sinks{
		file: log.NewWithOptions(out, log.Options{
			Level:           level.charm(),
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          component,
		}),
	}

	if r.ready && r.console != nil {
		built.console = log.NewWithOptions(os.Stderr, log.Options{
			Level:           r.console.charm(),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          component,
		})
	}
	return built
}

// Close flushes the log file and returns every logger to the silent state.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.ready {
		return nil
	}

	var err error
	if global.writer != nil {
		err = global.writer.Close()
		global.writer = nil
	}
	global.ready = false
	global.console = nil

	for name, logger := range global.loggers {
		logger.out.Store(global.build(name))
	}

	if err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}
