package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/census/pkg/census/config"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [path]",
	Short: "View recorded scans",
	Long: `View the scans recorded for a directory.

Every completed scan is summarised in the history database. Without a
path, the latest scan of every recorded root is listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyGrowthCmd = &cobra.Command{
	Use:   "growth [path]",
	Short: "Show how a directory grew over time",
	Long: `Show the total size of a directory across recorded scans, bucketed
by day (7D), week (30D), or month (90D, 1Y, ALL).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistoryGrowth,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear [path]",
	Short: "Remove recorded scans",
	Long:  `Remove the recorded scans of a directory, or of every directory with --all.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryClear,
}

var (
	historyLimit  int
	historyPeriod string
	historyAll    bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")
	historyGrowthCmd.Flags().StringVarP(&historyPeriod, "period", "p", string(history.Period30D), "period: 7D, 30D, 90D, 1Y or ALL")
	historyClearCmd.Flags().BoolVar(&historyAll, "all", false, "remove every recorded scan")

	historyCmd.AddCommand(historyGrowthCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// getHistory opens the history store regardless of history.enabled so
// that earlier records stay reachable.
func getHistory() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	retention := cfg.History.Retention
	if retention <= 0 {
		retention = config.DefaultHistoryRetention
	}
	store, err := history.Open(cfg.HistoryPath(), retention)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// runHistory lists recorded scans.
func runHistory(cmd *cobra.Command, args []string) error {
	store, err := getHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		return listRoots(store)
	}

	root, err := resolvePath(args[0])
	if err != nil {
		return err
	}
	records, err := store.List(root)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(records) == 0 {
		printInfo("No scans recorded for %s.", root)
		return nil
	}

	total := len(records)
	if historyLimit > 0 && total > historyLimit {
		records = records[total-historyLimit:]
	}

	fmt.Printf("\nScans of %s\n\n", root)
	fmt.Printf("%-20s  %12s  %10s  %12s  %10s\n", "SCANNED", "FILES", "FOLDERS", "SIZE", "ELAPSED")
	fmt.Println(strings.Repeat("-", 72))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		fmt.Printf("%-20s  %12d  %10d  %12s  %10s\n",
			rec.ScannedAt.Local().Format("2006-01-02 15:04:05"),
			rec.TotalFiles,
			rec.TotalFolders,
			types.FormatSize(rec.TotalSize),
			rec.Elapsed.Round(time.Millisecond))
	}
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("\nShowing %d of %d scans. Use --limit to see more.\n", len(records), total)
	return nil
}

// listRoots prints the latest scan of every recorded root.
func listRoots(store *history.Store) error {
	roots, err := store.Roots()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(roots) == 0 {
		printInfo("No scans recorded.")
		printInfo("Run 'census [path]' to scan a directory.")
		return nil
	}

	fmt.Printf("\n%-20s  %12s  %s\n", "LAST SCAN", "SIZE", "PATH")
	fmt.Println(strings.Repeat("-", 72))
	for _, root := range roots {
		rec, err := store.Latest(root)
		if err != nil {
			if errors.Is(err, history.ErrNotFound) {
				continue
			}
			return err
		}
		fmt.Printf("%-20s  %12s  %s\n",
			rec.ScannedAt.Local().Format("2006-01-02 15:04:05"),
			types.FormatSize(rec.TotalSize),
			root)
	}
	fmt.Println("\nUse 'census history <path>' for every scan of a directory.")
	return nil
}

// runHistoryGrowth prints the growth series of a directory.
func runHistoryGrowth(cmd *cobra.Command, args []string) error {
	period, err := history.ParsePeriod(historyPeriod)
	if err != nil {
		return err
	}
	root, err := resolvePath(pathArg(args))
	if err != nil {
		return err
	}

	store, err := getHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	points, err := store.Growth(context.Background(), root, period)
	if err != nil {
		return fmt.Errorf("failed to compute growth: %w", err)
	}
	if len(points) == 0 {
		printInfo("No scans of %s in the last %s.", root, period)
		return nil
	}

	fmt.Printf("\nGrowth of %s (%s)\n\n", root, period)
	fmt.Printf("%-16s  %12s  %12s  %12s\n", "PERIOD", "SIZE", "CHANGE", "FILES")
	fmt.Println(strings.Repeat("-", 58))
	for i, p := range points {
		change := "-"
		if i > 0 {
			change = formatDelta(p.Size - points[i-1].Size)
		}
		fmt.Printf("%-16s  %12s  %12s  %12d\n", p.Label, types.FormatSize(p.Size), change, p.Files)
	}
	return nil
}

// formatDelta renders a signed size difference.
func formatDelta(d int64) string {
	switch {
	case d > 0:
		return "+" + types.FormatSize(d)
	case d < 0:
		return "-" + types.FormatSize(-d)
	default:
		return "0 B"
	}
}

// runHistoryClear removes recorded scans.
func runHistoryClear(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !historyAll {
		return errors.New("give a path or --all")
	}

	var root string
	if !historyAll {
		var err error
		if root, err = resolvePath(args[0]); err != nil {
			return err
		}
	}

	store, err := getHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(root); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if root == "" {
		printInfo("Cleared all recorded scans.")
	} else {
		printInfo("Cleared recorded scans of %s.", root)
	}
	return nil
}
