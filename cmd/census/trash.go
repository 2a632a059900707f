package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/census/pkg/census/trash"
	"github.com/jamesainslie/census/pkg/census/types"
)

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Inspect and manage the trash",
	Long: `Show how much space the trash takes.

Files removed by 'census clean --apply' are moved to the trash, so the
space is reclaimed only once the trash is emptied.`,
	Args: cobra.NoArgs,
	RunE: runTrashInfo,
}

var trashEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Permanently delete everything in the trash",
	Args:  cobra.NoArgs,
	RunE:  runTrashEmpty,
}

var trashPutCmd = &cobra.Command{
	Use:   "put <path>...",
	Short: "Move files or directories to the trash",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrashPut,
}

var trashYes bool

func init() {
	trashEmptyCmd.Flags().BoolVarP(&trashYes, "yes", "y", false, "do not ask for confirmation")

	trashCmd.AddCommand(trashEmptyCmd)
	trashCmd.AddCommand(trashPutCmd)
	rootCmd.AddCommand(trashCmd)
}

// runTrashInfo prints the trash location and usage.
func runTrashInfo(cmd *cobra.Command, args []string) error {
	bin := trash.Default()
	usage, err := bin.Usage()
	if err != nil {
		return fmt.Errorf("failed to read trash: %w", err)
	}

	fmt.Printf("Trash:  %s\n", bin.FilesDir)
	fmt.Printf("Items:  %d\n", usage.Count)
	fmt.Printf("Size:   %s\n", types.FormatSize(usage.Size))
	return nil
}

// runTrashEmpty empties the trash after confirmation.
func runTrashEmpty(cmd *cobra.Command, args []string) error {
	bin := trash.Default()
	usage, err := bin.Usage()
	if err != nil {
		return fmt.Errorf("failed to read trash: %w", err)
	}
	if usage.Count == 0 {
		printInfo("Trash is already empty.")
		return nil
	}

	if !trashYes {
		printInfo("Trash holds %d items (%s).", usage.Count, types.FormatSize(usage.Size))
		return errors.New("refusing to empty the trash without --yes")
	}

	freed, err := bin.Empty()
	if err != nil {
		return fmt.Errorf("failed to empty trash: %w", err)
	}
	printInfo("Freed %s (%d items).", types.FormatSize(freed.Size), freed.Count)
	return nil
}

// runTrashPut moves each argument to the trash.
func runTrashPut(cmd *cobra.Command, args []string) error {
	var failed int
	for _, arg := range args {
		path, err := resolvePath(arg)
		if err != nil {
			return err
		}
		if err := trash.MoveToTrash(path); err != nil {
			printError("%s: %v", path, err)
			failed++
			continue
		}
		printVerbose("Moved %s to trash", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d paths could not be moved", failed, len(args))
	}
	printInfo("Moved %d items to trash.", len(args))
	return nil
}
