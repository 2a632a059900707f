package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/census/pkg/census/cleanup"
	"github.com/jamesainslie/census/pkg/census/config"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/session"
	"github.com/jamesainslie/census/pkg/census/trash"
	"github.com/jamesainslie/census/pkg/census/types"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Preview or apply cleanup suggestions",
	Long: `Scan a directory and list what could be reclaimed: potential
duplicates, backup files, empty folders, old large files, and temporary
files.

Nothing is touched unless --apply is given. Applied suggestions move
files to the trash and are recorded in the cleanup journal.

Kinds may be selected with --kind using: duplicates, backups, empty,
old, temp.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

var cleanLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show applied cleanups",
	Args:  cobra.NoArgs,
	RunE:  runCleanLog,
}

var (
	cleanKinds []string
	cleanApply bool
	cleanLimit int
)

func init() {
	cleanCmd.Flags().StringSliceVarP(&cleanKinds, "kind", "k", nil, "suggestion kinds to consider (default: all)")
	cleanCmd.Flags().BoolVar(&cleanApply, "apply", false, "move suggested files to the trash")
	cleanLogCmd.Flags().IntVarP(&cleanLimit, "limit", "l", 20, "maximum number of entries to show")

	cleanCmd.AddCommand(cleanLogCmd)
	rootCmd.AddCommand(cleanCmd)
}

// kindAliases maps short names to suggestion kinds.
var kindAliases = map[string]cleanup.Kind{
	"duplicates": cleanup.KindDuplicates,
	"backups":    cleanup.KindBackups,
	"empty":      cleanup.KindEmptyFolders,
	"old":        cleanup.KindOldLarge,
	"temp":       cleanup.KindTemporary,
}

// parseKinds resolves short or full kind names. No names selects every kind.
func parseKinds(names []string) (map[cleanup.Kind]bool, error) {
	selected := make(map[cleanup.Kind]bool)
	if len(names) == 0 {
		for _, k := range cleanup.Kinds() {
			selected[k] = true
		}
		return selected, nil
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if k, ok := kindAliases[strings.ToLower(name)]; ok {
			selected[k] = true
			continue
		}
		found := false
		for _, k := range cleanup.Kinds() {
			if strings.EqualFold(string(k), name) {
				selected[k] = true
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown suggestion kind %q", name)
		}
	}
	return selected, nil
}

// runClean scans a directory and previews or applies suggestions.
func runClean(cmd *cobra.Command, args []string) error {
	kinds, err := parseKinds(cleanKinds)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	root, err := resolvePath(pathArg(args))
	if err != nil {
		return err
	}

	if err := initLogging(cfg, false); err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()

	sess, release, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !getQuiet() {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", root)
	}
	status, err := sess.StartScan(ctx, root, nil)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if status == session.StatusCancelled {
		printInfo("Scan cancelled")
		return nil
	}

	var picked []cleanup.Suggestion
	for _, s := range sess.CleanupSuggestions() {
		if kinds[s.Kind] {
			picked = append(picked, s)
		}
	}
	if len(picked) == 0 {
		printInfo("Nothing to clean up in %s.", root)
		return nil
	}

	printSuggestions(picked)

	if !cleanApply {
		printInfo("\nPreview only. Re-run with --apply to move these to the trash.")
		return nil
	}
	return applySuggestions(ctx, root, picked)
}

// printSuggestions lists each suggestion and its paths.
func printSuggestions(suggestions []cleanup.Suggestion) {
	var total int64
	for _, s := range suggestions {
		total += s.Size
		fmt.Printf("\n%s: %d items, %s\n", s.Kind, s.Count, types.FormatSize(s.Size))
		if getQuiet() {
			continue
		}
		for _, p := range s.Paths {
			fmt.Printf("  %s\n", p)
		}
	}
	fmt.Printf("\nReclaimable: %s\n", types.FormatSize(total))
}

// applySuggestions moves suggested paths to the trash and journals each run.
func applySuggestions(ctx context.Context, root string, suggestions []cleanup.Suggestion) error {
	journal, err := cleanup.NewJournal(config.DefaultJournalPath())
	if err != nil {
		return err
	}

	var freed int64
	var failed int
	for _, s := range suggestions {
		res, err := cleanup.Apply(ctx, s, trash.MoveToTrash)
		if res != nil {
			freed += res.Bytes()
			failed += len(res.Failed)
			for path, ferr := range res.Failed {
				printError("%s: %v", path, ferr)
			}
			if entry, jerr := journal.Record(root, res); jerr != nil {
				printError("failed to journal cleanup: %v", jerr)
			} else if entry != nil {
				printVerbose("Journaled %s as %s", s.Kind, entry.ID)
			}
		}
		if err != nil {
			return fmt.Errorf("cleanup interrupted: %w", err)
		}
	}

	printInfo("\nMoved %s to the trash.", types.FormatSize(freed))
	if failed > 0 {
		return fmt.Errorf("%d paths could not be moved", failed)
	}
	return nil
}

// runCleanLog lists journaled cleanups, newest first.
func runCleanLog(cmd *cobra.Command, args []string) error {
	journal, err := cleanup.NewJournal(config.DefaultJournalPath())
	if err != nil {
		return err
	}
	entries, err := journal.List(cleanLimit)
	if err != nil {
		return fmt.Errorf("failed to read cleanup journal: %w", err)
	}
	if len(entries) == 0 {
		printInfo("No cleanups recorded.")
		return nil
	}

	fmt.Printf("\n%-20s  %-28s  %6s  %12s  %s\n", "WHEN", "KIND", "ITEMS", "FREED", "ROOT")
	fmt.Println(strings.Repeat("-", 90))
	for _, e := range entries {
		fmt.Printf("%-20s  %-28s  %6d  %12s  %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Kind,
			len(e.Removed),
			types.FormatSize(e.Bytes),
			e.Root)
	}
	return nil
}
