package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jamesainslie/census/pkg/census/types"
)

// barWidth is the width of distribution bars.
const barWidth = 24

// PrettyFormatter renders a styled terminal report using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	w.WriteString(TitleStyle.Render("Largest files"))
	w.WriteString("\n")
	w.WriteString(f.formatFiles(r))

	w.WriteString("\n")
	w.WriteString(TitleStyle.Render("Largest folders"))
	w.WriteString("\n")
	w.WriteString(f.formatFolders(r))

	w.WriteString("\n")
	w.WriteString(TitleStyle.Render("File types"))
	w.WriteString("\n")
	w.WriteString(f.formatDistribution(r))

	if len(r.Suggestions) > 0 {
		w.WriteString("\n")
		w.WriteString(TitleStyle.Render("Cleanup suggestions"))
		w.WriteString("\n")
		for _, sg := range r.Suggestions {
			fmt.Fprintf(w, "  %s  %s %s\n",
				SizeStyle.Render(padLeft(types.FormatSize(sg.Size), 10)),
				ValueStyle.Render(string(sg.Kind)),
				MutedStyle.Render(fmt.Sprintf("(%d)", sg.Count)))
		}
	}

	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")
	return nil
}

// Ext implements Formatter.
func (f *PrettyFormatter) Ext() string { return "ansi" }

func (f *PrettyFormatter) formatHeader(r *Report) string {
	s := r.Summary
	lines := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Source:"), ValueStyle.Render(s.Root)),
		fmt.Sprintf("%s %s  %s %s",
			LabelStyle.Render("Scanned:"),
			ValueStyle.Render(fmt.Sprintf("%d files in %d folders in %s", s.TotalFiles, s.TotalFolders, formatDuration(s.ScanTime))),
			LabelStyle.Render("Free:"),
			ValueStyle.Render(fmt.Sprintf("%s (%.1f%% used)", types.FormatSize(s.FreeSpace), s.UsedPercentage))),
	}
	if r.Skipped > 0 {
		lines = append(lines, WarningStyle.Render(fmt.Sprintf("%d entries could not be read", r.Skipped)))
	}
	if r.Cancelled {
		lines = append(lines, WarningStyle.Bold(true).Render("Scan cancelled"))
	}
	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatFiles(r *Report) string {
	if len(r.Files) == 0 {
		return MutedStyle.Render("  No files above the size threshold") + "\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s  %s\n", TableHeaderStyle.Render(padLeft("SIZE", 10)), TableHeaderStyle.Render("PATH"))
	for _, file := range r.Files {
		fmt.Fprintf(&sb, "  %s  %s\n",
			SizeStyle.Render(padLeft(types.FormatSize(file.Size), 10)),
			PathStyle.Render(file.Path))
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFolders(r *Report) string {
	if len(r.Folders) == 0 {
		return MutedStyle.Render("  No subfolders") + "\n"
	}

	var sb strings.Builder
	for _, folder := range r.Folders {
		fmt.Fprintf(&sb, "  %s  %s %s\n",
			SizeStyle.Render(padLeft(types.FormatSize(folder.Size), 10)),
			PathStyle.Render(folder.Path),
			MutedStyle.Render(fmt.Sprintf("%.1f%%", folder.Percentage)))
	}
	return sb.String()
}

func (f *PrettyFormatter) formatDistribution(r *Report) string {
	var sb strings.Builder
	total := r.Summary.TotalSize
	for _, item := range r.Distribution {
		filled := min(int(types.Percent(item.Size, total)/100*barWidth), barWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(&sb, "  %-14s %s %s %s\n",
			string(item.Category),
			CategoryStyle(item.Color).Render(bar),
			SizeStyle.Render(padLeft(types.FormatSize(item.Size), 10)),
			MutedStyle.Render(fmt.Sprintf("%d files", item.Count)))
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Report) string {
	parts := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Total:"), SizeStyle.Render(types.FormatSize(r.Summary.TotalSize))),
		MutedStyle.Render("Use -o text for unformatted output"),
	}
	return FooterBox.Render(strings.Join(parts, "  "))
}

// padLeft pads s with spaces on the left to width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func init() {
	Register("pretty", func() Formatter { return &PrettyFormatter{} })
}

var _ Formatter = (*PrettyFormatter)(nil)
