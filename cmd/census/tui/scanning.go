package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/census/pkg/census/types"
)

// ScanModel represents the scanning phase of the TUI.
type ScanModel struct {
	progress    types.ScanProgress
	spinner     spinner.Model
	currentPath string
	startTime   time.Time
	width       int
	height      int
	rootPath    string
	done        bool
	cancelling  bool
	err         error
}

// ProgressMsg is sent when scan progress is updated.
type ProgressMsg types.ScanProgress

// NewScanModel creates a new scanning model.
func NewScanModel(rootPath string) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return ScanModel{
		spinner:   s,
		startTime: time.Now(),
		width:     80,
		height:    24,
		rootPath:  rootPath,
	}
}

// Init initializes the scanning model.
func (m ScanModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// View renders the scanning model.
func (m ScanModel) View() string {
	var b strings.Builder

	contentWidth := max(m.width-4, 40)

	b.WriteString("\n")
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	case m.done:
		b.WriteString(successTextStyle.Render("  " + m.currentPath))
	case m.cancelling:
		b.WriteString(warningTextStyle.Render(fmt.Sprintf("  %s Stopping scan...", m.spinner.View())))
	default:
		b.WriteString(fmt.Sprintf("  %s Scanning: %s",
			m.spinner.View(),
			truncatePath(m.currentPath, contentWidth-20)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderProgressBar(contentWidth))
	b.WriteString("\n\n")

	b.WriteString(m.renderStats(contentWidth))
	b.WriteString("\n")

	content := b.String()
	contentLines := strings.Count(content, "\n") + 1

	// Account for outer box border (2 lines: top and bottom)
	if availableLines := m.height - 2; availableLines > contentLines {
		content += strings.Repeat("\n", availableLines-contentLines)
	}

	return outerBoxStyle.Width(m.width - 2).Height(m.height - 2).Render(content)
}

// renderHeader renders the header section.
func (m ScanModel) renderHeader(width int) string {
	title := titleStyle.Render("  census  ") + mutedTextStyle.Render(truncatePath(m.rootPath, width/2))
	hint := mutedTextStyle.Render("[Ctrl+C to stop]")

	spacing := max(width-lipgloss.Width(title)-lipgloss.Width(hint), 1)
	return title + strings.Repeat(" ", spacing) + hint
}

// renderProgressBar renders the estimated completion. The scanner caps
// the estimate below 100 until the terminal event.
func (m ScanModel) renderProgressBar(width int) string {
	barWidth := max(width-12, 10)
	pct := m.progress.Percentage
	return "  " + renderBar(pct/100, barWidth, progressFillStyle) + fmt.Sprintf(" %5.1f%%", pct)
}

// renderStats renders the statistics boxes.
func (m ScanModel) renderStats(totalWidth int) string {
	boxWidth := max((totalWidth-12)/5, 10)

	estimate := "-"
	if m.progress.EstimatedTotalSize > 0 {
		estimate = types.FormatSize(m.progress.EstimatedTotalSize)
	}

	boxes := []string{
		m.renderStatBox("Folders", humanize.Comma(m.progress.FoldersAnalyzed), boxWidth),
		m.renderStatBox("Files", humanize.Comma(m.progress.FilesAnalyzed), boxWidth),
		m.renderStatBox("Size", types.FormatSize(m.progress.TotalSize), boxWidth),
		m.renderStatBox("Estimate", estimate, boxWidth),
		m.renderStatBox("Time", formatDuration(time.Since(m.startTime)), boxWidth),
	}

	parts := []string{"  "}
	for i, box := range boxes {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, box)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderStatBox renders a single stat box.
func (m ScanModel) renderStatBox(label, value string, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		center(statsLabelStyle.Render(label), width-4),
		center(statsValueStyle.Render(value), width-4))

	return statsBoxStyle.Width(width).Render(content)
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// SetProgress updates the progress.
func (m *ScanModel) SetProgress(p types.ScanProgress) {
	m.progress = p
	m.currentPath = p.CurrentPath
}

// SetCancelling marks the scan as stopping.
func (m *ScanModel) SetCancelling() {
	m.cancelling = true
}

// SetDone marks the scan as complete.
func (m *ScanModel) SetDone(err error) {
	m.done = true
	m.err = err
}

// IsDone returns true if the scan is complete.
func (m ScanModel) IsDone() bool {
	return m.done
}

// Error returns any error from the scan.
func (m ScanModel) Error() error {
	return m.err
}
