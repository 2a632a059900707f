package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/census/pkg/census/session"
	"github.com/jamesainslie/census/pkg/census/types"
)

// renderAppHeader renders the shared header with the scanned root and
// headline totals. freed is the size moved to trash in this session.
func renderAppHeader(sum session.Summary, freed int64) string {
	appName := titleStyle.Render("CENSUS")

	stats := mutedTextStyle.Render(fmt.Sprintf("  %s  •  %s files  •  %s",
		sum.Root,
		humanize.Comma(sum.TotalFiles),
		types.FormatSize(sum.TotalSize)))

	header := " " + appName + stats
	if freed > 0 {
		freedStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
		header += freedStyle.Render(fmt.Sprintf("  ✓ Trashed %s", types.FormatSize(freed)))
	}
	return header
}

// renderScanMetrics renders folder and file counts, free space, and the
// elapsed time of the scan. It returns the empty string when there is
// nothing to show.
func renderScanMetrics(sum session.Summary, skipped int64) string {
	var parts []string

	if sum.TotalFolders > 0 || sum.TotalFiles > 0 {
		parts = append(parts, fmt.Sprintf("Scanned: %s folders, %s files",
			humanize.Comma(sum.TotalFolders),
			humanize.Comma(sum.TotalFiles)))
	}
	if sum.FreeSpace > 0 {
		parts = append(parts, fmt.Sprintf("Free: %s (%.1f%% used)",
			types.FormatSize(sum.FreeSpace), sum.UsedPercentage))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("Skipped: %s", humanize.Comma(skipped)))
	}
	if sum.ScanTime > 0 {
		parts = append(parts, fmt.Sprintf("Time: %v", sum.ScanTime.Round(time.Millisecond)))
	}

	if len(parts) == 0 {
		return ""
	}
	return mutedTextStyle.Render("  " + strings.Join(parts, "  |  "))
}
