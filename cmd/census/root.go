package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/census/pkg/census/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "census [path]",
		Short: "Measure where disk space goes",
		Long: `Census walks a directory tree in parallel and reports total size,
the largest files and folders, the file-type distribution, and cleanup
suggestions.

By default, census launches an interactive TUI with live progress.
Use --no-interactive or --output for a printed report.

Examples:
  census                          # Scan current directory with TUI
  census ~/Downloads              # Scan specific directory
  census -t 1MB --top 50 .        # Keep the 50 largest files over 1MB
  census -n -o json .             # Non-interactive JSON report
  census -n --suggest --growth 30D ~
  census history                  # List recorded scans
  census clean ~/Downloads        # Preview cleanup suggestions`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runScan,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/census/config.yaml)")
	rootCmd.PersistentFlags().StringP("threshold", "t", "", "retain files larger than this (e.g., 100KB, 1MB)")
	rootCmd.PersistentFlags().Int("top", 0, "number of largest files to keep")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override worker count (0=auto)")
	rootCmd.PersistentFlags().String("estimator", "", "progress estimator: sampled or exact")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "disable TUI, print a report")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().Bool("no-history", false, "do not record this scan in history")

	// Report flags
	rootCmd.Flags().StringP("output", "o", "", "report format: text, pretty, json, yaml, csv")
	rootCmd.Flags().Bool("suggest", false, "include cleanup suggestions")
	rootCmd.Flags().String("growth", "", "include a growth series: 7D, 30D, 90D, 1Y or ALL")
	rootCmd.Flags().String("export", "", "write the report to a file in this directory")
	rootCmd.Flags().Bool("dry-run", false, "TUI cleanup previews without moving files to trash")

	// Bind flags to viper
	_ = viper.BindPFlag("threshold", rootCmd.PersistentFlags().Lookup("threshold"))
	_ = viper.BindPFlag("top", rootCmd.PersistentFlags().Lookup("top"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("estimator", rootCmd.PersistentFlags().Lookup("estimator"))
	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_history", rootCmd.PersistentFlags().Lookup("no-history"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	v := viper.GetViper()
	config.Prepare(v, cfgFile)

	if err := config.Read(v); err != nil {
		printError("%v", err)
	}
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("%v", err)
	}
	return err
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...any) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...any) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
