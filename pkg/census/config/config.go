package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/types"
)

// envPrefix prefixes every environment override (CENSUS_TOP, CENSUS_HISTORY_ENABLED).
const envPrefix = "CENSUS"

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// HistoryConfig configures the scan history store.
type HistoryConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Retention int    `mapstructure:"retention"`
}

// Config represents the application configuration.
type Config struct {
	Threshold   string        `mapstructure:"threshold"`
	Top         int           `mapstructure:"top"`
	Estimator   string        `mapstructure:"estimator"`
	Workers     int           `mapstructure:"workers"`
	DefaultPath string        `mapstructure:"default_path"`
	Output      string        `mapstructure:"output"`
	History     HistoryConfig `mapstructure:"history"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// ThresholdBytes parses Threshold into bytes.
func (c *Config) ThresholdBytes() (int64, error) {
	n, err := types.ParseSize(c.Threshold)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q: %w", c.Threshold, err)
	}
	return n, nil
}

// HistoryPath returns the configured history directory or the XDG default.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		if p, err := ExpandPath(c.History.Path); err == nil {
			return p
		}
		return c.History.Path
	}
	return DefaultHistoryPath()
}

// LoggingSettings converts the logging section into logging.Config.
func (c *Config) LoggingSettings() (logging.Config, error) {
	rotation := logging.DefaultRotationConfig()
	if c.Logging.Rotation.MaxSize != "" {
		size, err := types.ParseSize(c.Logging.Rotation.MaxSize)
		if err != nil {
			return logging.Config{}, fmt.Errorf("invalid logging.rotation.max_size: %w", err)
		}
		rotation.MaxSize = size
	}
	if c.Logging.Rotation.MaxBackups > 0 {
		rotation.MaxBackups = c.Logging.Rotation.MaxBackups
	}
	rotation.Daily = c.Logging.Rotation.Daily

	path := c.Logging.Path
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return logging.Config{}, err
		}
		path = expanded
	}

	return logging.Config{
		Level:      c.Logging.Level,
		Path:       path,
		Rotation:   rotation,
		Components: c.Logging.Components,
	}, nil
}

// SetDefaults registers census defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("threshold", DefaultThreshold)
	v.SetDefault("top", DefaultTop)
	v.SetDefault("estimator", DefaultEstimator)
	v.SetDefault("workers", 0)
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("output", DefaultOutput)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("history.retention", DefaultHistoryRetention)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.daily", false)
	v.SetDefault("logging.components", DefaultComponentLevels)
}

// Prepare wires search paths, environment binding, and defaults into v.
// An explicit file overrides the search paths.
func Prepare(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
}

// Read reads the config file into v. A missing file is not an error
// unless it was requested explicitly.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Decode unmarshals v into a Config.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Load loads configuration from $XDG_CONFIG_HOME/census/config.yaml and
// CENSUS_ environment variables.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from file, or from the default search
// path when file is empty.
func LoadFile(file string) (*Config, error) {
	v := viper.New()
	Prepare(v, file)
	if err := Read(v); err != nil {
		return nil, err
	}
	return Decode(v)
}

// ConfigDir returns the configuration directory, honouring XDG_CONFIG_HOME.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "census"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "census"), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// WriteDefault writes a commented default config file and returns its path.
// An existing file is left untouched and created is false.
func WriteDefault() (path string, created bool, err error) {
	path, err = ConfigPath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# census configuration

# Files larger than this are listed individually
threshold: %s

# Number of largest files kept per scan
top: %d

# Progress estimator: sampled (fast) or exact (full pre-pass)
estimator: %s

# Scan workers (0 = automatic)
workers: 0

# Path scanned when none is given
default_path: %s

# Report format for non-interactive runs: text, json, yaml, csv
output: %s

# Scan history used for growth reports
history:
  enabled: true
  # Empty means $XDG_DATA_HOME/census/history
  path: ""
  # Scans kept per root
  retention: %d

logging:
  # debug, info, warn, error
  level: info
  # Empty means $XDG_STATE_HOME/census/census.log
  path: ""
  rotation:
    max_size: 10MB
    max_backups: 3
    daily: false
  components:
    scanner: info
    session: info
    history: warn
    tui: info
`, DefaultThreshold, DefaultTop, DefaultEstimator, DefaultPath, DefaultOutput, DefaultHistoryRetention)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write default config: %w", err)
	}
	return path, true, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/census.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "census")
}

// DefaultHistoryPath returns the default history database directory.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}

// DefaultJournalPath returns the directory of the cleanup journal.
func DefaultJournalPath() string {
	return filepath.Join(DataDir(), "cleanup")
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}
