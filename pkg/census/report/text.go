package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jamesainslie/census/pkg/census/types"
)

// TextFormatter renders a plain sectioned report suitable for saving.
type TextFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TextFormatter) Format(w *bytes.Buffer, r *Report) error {
	s := r.Summary

	w.WriteString("=== DISK ANALYSIS REPORT ===\n\n")
	fmt.Fprintf(w, "Scan Path: %s\n", s.Root)
	fmt.Fprintf(w, "Scan Date: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Scan Duration: %.2f seconds\n", s.ScanTime.Seconds())
	fmt.Fprintf(w, "Total Files: %d\n", s.TotalFiles)
	fmt.Fprintf(w, "Total Folders: %d\n", s.TotalFolders)
	fmt.Fprintf(w, "Total Size: %s\n", types.FormatSize(s.TotalSize))
	if s.FreeSpace > 0 {
		fmt.Fprintf(w, "Free Space: %s (%.1f%% used)\n", types.FormatSize(s.FreeSpace), s.UsedPercentage)
	}
	if r.Skipped > 0 {
		fmt.Fprintf(w, "Skipped Entries: %d\n", r.Skipped)
	}
	if r.Cancelled {
		w.WriteString("Scan cancelled before completion\n")
	}

	fmt.Fprintf(w, "\n=== TOP %d LARGEST FILES ===\n", DefaultTop)
	for i, file := range r.Files[:min(len(r.Files), DefaultTop)] {
		fmt.Fprintf(w, "%d. %s - %s (%s)\n", i+1, file.Name, types.FormatSize(file.Size), file.Path)
	}

	fmt.Fprintf(w, "\n=== TOP %d LARGEST FOLDERS ===\n", DefaultTop)
	for i, folder := range r.Folders[:min(len(r.Folders), DefaultTop)] {
		fmt.Fprintf(w, "%d. %s - %s (%d files)\n", i+1, folder.Name, types.FormatSize(folder.Size), folder.FileCount)
	}

	w.WriteString("\n=== FILE TYPE DISTRIBUTION ===\n")
	for _, item := range r.Distribution {
		fmt.Fprintf(w, "%s: %s (%d files)\n", item.Category, types.FormatSize(item.Size), item.Count)
	}

	if len(r.Suggestions) > 0 {
		w.WriteString("\n=== CLEANUP SUGGESTIONS ===\n")
		for _, sg := range r.Suggestions {
			fmt.Fprintf(w, "%s: %d items, %s\n", sg.Kind, sg.Count, types.FormatSize(sg.Size))
		}
	}

	if len(r.Growth) > 0 {
		w.WriteString("\n=== GROWTH ===\n")
		for _, p := range r.Growth {
			fmt.Fprintf(w, "%s: %s\n", p.Label, types.FormatSize(p.Size))
		}
	}
	return nil
}

// Ext implements Formatter.
func (f *TextFormatter) Ext() string { return "txt" }

// CSVFormatter writes the largest files as RFC 4180 rows.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"SIZE", "BYTES", "TYPE", "PATH"}); err != nil {
		return err
	}
	for _, file := range r.Files {
		row := []string{
			types.FormatSize(file.Size),
			strconv.FormatInt(file.Size, 10),
			string(file.Category),
			file.Path,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Ext implements Formatter.
func (f *CSVFormatter) Ext() string { return "csv" }

func init() {
	Register("text", func() Formatter { return &TextFormatter{} })
	Register("csv", func() Formatter { return &CSVFormatter{} })
}

var (
	_ Formatter = (*TextFormatter)(nil)
	_ Formatter = (*CSVFormatter)(nil)
)
