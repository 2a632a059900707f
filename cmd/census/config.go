package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/census/pkg/census/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the census configuration",
	Long: `Inspect and edit the census configuration.

The file lives at $XDG_CONFIG_HOME/census/config.yaml. Any key can be
overridden from the environment with the CENSUS_ prefix, dots becoming
underscores (CENSUS_HISTORY_RETENTION=10).`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in $VISUAL or $EDITOR",
	Long: `Open the configuration file in $VISUAL, then $EDITOR, then vi.
A commented default file is written first when none exists.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd, configEditCmd, configInitCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// setting is one line of `config show`.
type setting struct {
	key   string
	value string
}

// settingRows flattens cfg in display order.
func settingRows(cfg *config.Config) []setting {
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = "(default)"
	}
	return []setting{
		{"threshold", cfg.Threshold},
		{"top", strconv.Itoa(cfg.Top)},
		{"estimator", cfg.Estimator},
		{"workers", strconv.Itoa(cfg.Workers)},
		{"default_path", cfg.DefaultPath},
		{"output", cfg.Output},
		{"history.enabled", strconv.FormatBool(cfg.History.Enabled)},
		{"history.path", cfg.HistoryPath()},
		{"history.retention", strconv.Itoa(cfg.History.Retention)},
		{"logging.level", cfg.Logging.Level},
		{"logging.path", logPath},
	}
}

func writeSettings(w io.Writer, rows []setting) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.key))
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-*s  %s", width+1, r.key+":", r.value)
		if env := config.EnvVar(r.key); os.Getenv(env) != "" {
			fmt.Fprintf(w, "  (from %s)", env)
		}
		fmt.Fprintln(w)
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# %s\n", used)
	} else {
		fmt.Fprintln(out, "# no config file, built-in defaults")
	}
	writeSettings(out, settingRows(cfg))
	return nil
}

// editorCommand splits $VISUAL or $EDITOR into a program and its
// arguments so values like "code --wait" work.
func editorCommand(file string) (string, []string, error) {
	value := os.Getenv("VISUAL")
	if value == "" {
		value = os.Getenv("EDITOR")
	}
	if value == "" {
		value = "vi"
	}

	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "", nil, errors.New("editor is blank")
	}
	return fields[0], append(fields[1:], file), nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path, _, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	name, editorArgs, err := editorCommand(path)
	if err != nil {
		return err
	}
	printVerbose("Opening %s with %s", path, name)

	editor := exec.Command(name, editorArgs...)
	editor.Stdin, editor.Stdout, editor.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := editor.Run(); err != nil {
		return fmt.Errorf("editor %s failed: %w", name, err)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if created {
		printInfo("Created default config file: %s", path)
	} else {
		printInfo("Config file already exists: %s (edit it with 'census config edit')", path)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		printVerbose("File does not exist, defaults apply")
	}
	return nil
}
