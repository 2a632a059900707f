package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/census/pkg/census/cleanup"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/session"
	"github.com/jamesainslie/census/pkg/census/types"
)

// Tab is a view of the results.
type Tab int

// Result tabs in display order.
const (
	TabFiles Tab = iota
	TabFolders
	TabTypes
	TabCleanup
	TabGrowth
	tabCount
)

var tabNames = [tabCount]string{"Files", "Folders", "Types", "Cleanup", "Growth"}

// String returns the tab title.
func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "unknown"
	}
	return tabNames[t]
}

// folderListLimit bounds the folder tab.
const folderListLimit = 100

// ResultData is a snapshot of session queries shown by the results view.
type ResultData struct {
	Summary     session.Summary
	Skipped     int64
	Files       []session.FileItem
	Folders     []session.FolderItem
	Types       []session.TypeItem
	Suggestions []cleanup.Suggestion
	Growth      []history.Point
	Period      history.Period
}

// ResultModel represents the results phase of the TUI.
type ResultModel struct {
	data ResultData

	tab    Tab
	cursor [tabCount]int
	offset [tabCount]int

	// selected holds the indexes of chosen cleanup suggestions.
	selected map[int]bool

	// Folder drill-down
	drillDir    string
	drillFiles  []session.FileItem
	drillErr    error
	drillCursor int
	drillOffset int

	freed  int64
	width  int
	height int
}

// NewResultModel creates a result model over data.
func NewResultModel(data ResultData) ResultModel {
	return ResultModel{
		data:     data,
		selected: make(map[int]bool),
		width:    80,
		height:   24,
	}
}

// HandleKey handles key input for the result model.
func (m *ResultModel) HandleKey(key string) {
	if m.drillDir != "" {
		m.handleDrillKey(key)
		return
	}

	switch key {
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % tabCount
	case "shift+tab", "left", "h":
		m.tab = (m.tab + tabCount - 1) % tabCount
	case "1", "2", "3", "4", "5":
		m.tab = Tab(key[0] - '1')
	case " ":
		if m.tab == TabCleanup {
			m.Toggle(m.cursor[TabCleanup])
		}
	case "a":
		if m.tab == TabCleanup {
			m.SelectAll()
		}
	case "n":
		if m.tab == TabCleanup {
			m.SelectNone()
		}
	default:
		m.cursor[m.tab], m.offset[m.tab] = m.move(key, m.cursor[m.tab], m.offset[m.tab], m.listLen(m.tab))
	}
}

// handleDrillKey navigates the folder listing.
func (m *ResultModel) handleDrillKey(key string) {
	switch key {
	case "esc", "backspace":
		m.CloseFolder()
	default:
		m.drillCursor, m.drillOffset = m.move(key, m.drillCursor, m.drillOffset, len(m.drillFiles))
	}
}

// move applies a navigation key to a cursor over n rows.
func (m ResultModel) move(key string, cursor, offset, n int) (int, int) {
	rows := m.visibleRows()
	switch key {
	case "up", "k":
		cursor--
	case "down", "j":
		cursor++
	case "home", "g":
		cursor = 0
	case "end", "G":
		cursor = n - 1
	case "pgup":
		cursor -= rows
	case "pgdown":
		cursor += rows
	default:
		return cursor, offset
	}

	cursor = max(0, min(cursor, n-1))
	if cursor < offset {
		offset = cursor
	} else if cursor >= offset+rows {
		offset = cursor - rows + 1
	}
	return cursor, max(offset, 0)
}

// listLen returns the number of rows of tab.
func (m ResultModel) listLen(t Tab) int {
	switch t {
	case TabFiles:
		return len(m.data.Files)
	case TabFolders:
		return len(m.data.Folders)
	case TabTypes:
		return len(m.data.Types)
	case TabCleanup:
		return len(m.data.Suggestions)
	case TabGrowth:
		return len(m.data.Growth)
	}
	return 0
}

// View renders the result model.
func (m ResultModel) View() string {
	contentWidth := max(m.width-4, 60)

	var b strings.Builder
	b.WriteString(renderAppHeader(m.data.Summary, m.freed))
	b.WriteString("\n")
	if metrics := renderScanMetrics(m.data.Summary, m.data.Skipped); metrics != "" {
		b.WriteString(metrics)
		b.WriteString("\n")
	}
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	if m.drillDir != "" {
		b.WriteString(titleStyle.Render("  " + truncatePath(m.drillDir, contentWidth-4)))
	} else {
		b.WriteString(m.renderTabs())
	}
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	b.WriteString(m.renderList(contentWidth))

	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	b.WriteString("\n")
	b.WriteString(m.renderFooter(contentWidth))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderTabs renders the tab bar.
func (m ResultModel) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for t := range tabCount {
		label := fmt.Sprintf("%d %s", t+1, t)
		if t == m.tab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return "  " + strings.Join(parts, " ")
}

// renderList renders the visible rows of the active list, padded to a
// fixed height so the footer does not jump.
func (m ResultModel) renderList(width int) string {
	var lines []string

	switch {
	case m.drillDir != "":
		lines = m.drillLines(width)
	case m.listLen(m.tab) == 0:
		lines = []string{"", center(mutedTextStyle.Render(m.emptyText()), width)}
	default:
		lines = m.tabLines(width)
	}

	height := m.visibleRows() + 1
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

// emptyText explains an empty tab.
func (m ResultModel) emptyText() string {
	switch m.tab {
	case TabFiles:
		return "No files above the size threshold."
	case TabCleanup:
		return "Nothing to clean up."
	case TabGrowth:
		return "No recorded scans yet."
	default:
		return "Nothing to show."
	}
}

// tabLines renders the visible rows of the active tab. The row under the
// cursor is followed by a detail line.
func (m ResultModel) tabLines(width int) []string {
	n := m.listLen(m.tab)
	cursor, offset := m.cursor[m.tab], m.offset[m.tab]

	var lines []string
	for i := offset; i < offset+m.visibleRows() && i < n; i++ {
		var row, detail string
		switch m.tab {
		case TabFiles:
			row, detail = m.fileRow(m.data.Files[i], width)
		case TabFolders:
			row, detail = m.folderRow(m.data.Folders[i], width)
		case TabTypes:
			row, detail = m.typeRow(m.data.Types[i], width)
		case TabCleanup:
			row, detail = m.suggestionRow(i, width)
		case TabGrowth:
			row, detail = m.growthRow(i, width)
		}
		lines = append(lines, m.decorate(row, i == cursor, width))
		if i == cursor && detail != "" {
			lines = append(lines, detailStyle.Render(truncatePath(detail, width-16)))
		}
	}
	return lines
}

// drillLines renders the folder listing.
func (m ResultModel) drillLines(width int) []string {
	if m.drillErr != nil {
		return []string{"", errorTextStyle.Render("  " + m.drillErr.Error())}
	}
	if len(m.drillFiles) == 0 {
		return []string{"", center(mutedTextStyle.Render("This folder holds no files."), width)}
	}

	var lines []string
	for i := m.drillOffset; i < m.drillOffset+m.visibleRows() && i < len(m.drillFiles); i++ {
		row, _ := m.fileRow(m.drillFiles[i], width)
		lines = append(lines, m.decorate(row, i == m.drillCursor, width))
	}
	return lines
}

// decorate adds the cursor marker and highlight.
func (m ResultModel) decorate(row string, isCursor bool, width int) string {
	if isCursor {
		return selectedItemStyle.Width(width).Render(cursorStyle.Render(" >") + row)
	}
	return normalItemStyle.Render("  " + row)
}

func (m ResultModel) fileRow(f session.FileItem, width int) (string, string) {
	size := sizeStyle.Render(padLeft(types.FormatSize(f.Size), 10))
	kind := colorStyle(f.Category.Color()).Render(padRight(string(f.Category), 12))
	path := truncatePath(f.Path, width-30)
	detail := fmt.Sprintf("%s  •  .%s  •  %s", f.Name, f.Extension, f.Dir)
	return fmt.Sprintf(" %s  %s  %s", size, kind, path), detail
}

func (m ResultModel) folderRow(f session.FolderItem, width int) (string, string) {
	size := sizeStyle.Render(padLeft(types.FormatSize(f.Size), 10))
	bar := renderBar(f.Percentage/100, 10, progressFillStyle)
	pct := fmt.Sprintf("%5.1f%%", f.Percentage)
	path := truncatePath(f.Path, width-36)
	detail := fmt.Sprintf("%s files  •  Enter to list", humanize.Comma(f.FileCount))
	return fmt.Sprintf(" %s  %s %s  %s", size, bar, pct, path), detail
}

func (m ResultModel) typeRow(t session.TypeItem, width int) (string, string) {
	total := m.data.Summary.TotalSize
	fraction := 0.0
	if total > 0 {
		fraction = float64(t.Size) / float64(total)
	}
	name := colorStyle(t.Color).Render(padRight(string(t.Category), 14))
	size := sizeStyle.Render(padLeft(types.FormatSize(t.Size), 10))
	bar := renderBar(fraction, max(width-50, 10), colorStyle(t.Color))
	count := padLeft(humanize.Comma(t.Count), 10)
	return fmt.Sprintf(" %s %s  %s %s", name, size, count, bar), ""
}

func (m ResultModel) suggestionRow(i, width int) (string, string) {
	s := m.data.Suggestions[i]
	box := uncheckedStyle.Render("[ ]")
	if m.selected[i] {
		box = checkedStyle.Render("[x]")
	}
	kind := suggestionStyle(s.ColorClass).Render(padRight(string(s.Kind), 28))
	size := sizeStyle.Render(padLeft(types.FormatSize(s.Size), 10))

	var detail string
	if len(s.Paths) > 0 {
		detail = s.Paths[0]
		if len(s.Paths) > 1 {
			detail += fmt.Sprintf("  (+%d more)", len(s.Paths)-1)
		}
	}
	return fmt.Sprintf(" %s %s %s  %d items", box, kind, size, s.Count), detail
}

func (m ResultModel) growthRow(i, width int) (string, string) {
	points := m.data.Growth
	p := points[i]

	var peak int64
	for _, q := range points {
		peak = max(peak, q.Size)
	}
	fraction := 0.0
	if peak > 0 {
		fraction = float64(p.Size) / float64(peak)
	}

	change := ""
	if i > 0 {
		d := p.Size - points[i-1].Size
		switch {
		case d > 0:
			change = warningTextStyle.Render("+" + types.FormatSize(d))
		case d < 0:
			change = successTextStyle.Render("-" + types.FormatSize(-d))
		}
	}

	label := padRight(p.Label, 16)
	size := sizeStyle.Render(padLeft(types.FormatSize(p.Size), 10))
	bar := renderBar(fraction, max(width-56, 10), progressFillStyle)
	detail := fmt.Sprintf("Scanned %s  •  %s files", p.At.Local().Format("2006-01-02 15:04"), humanize.Comma(p.Files))
	return fmt.Sprintf(" %s %s  %s  %s", label, size, bar, change), detail
}

// renderHelpBar renders the key hints of the current view.
func (m ResultModel) renderHelpBar() string {
	if m.drillDir != "" {
		return renderKeyHints([][2]string{{"↑↓", "Navigate"}, {"Esc", "Back"}, {"q", "Quit"}})
	}

	hints := [][2]string{{"Tab", "Switch"}, {"↑↓", "Navigate"}}
	switch m.tab {
	case TabFolders:
		hints = append(hints, [2]string{"Enter", "Open"})
	case TabCleanup:
		hints = append(hints, [2]string{"Space", "Toggle"}, [2]string{"a", "All"}, [2]string{"n", "None"}, [2]string{"Enter", "Trash"})
	}
	hints = append(hints, [2]string{"r", "Rescan"}, [2]string{"q", "Quit"})
	return renderKeyHints(hints)
}

// renderFooter renders the selection summary or list position.
func (m ResultModel) renderFooter(width int) string {
	var left string
	switch {
	case m.drillDir != "":
		left = fmt.Sprintf("  %d files", len(m.drillFiles))
	case m.tab == TabCleanup:
		left = fmt.Sprintf("  Selected: %d suggestions (%s)", m.SelectedCount(), types.FormatSize(m.SelectedSize()))
	case m.tab == TabGrowth:
		left = fmt.Sprintf("  Period: %s", m.data.Period)
	default:
		if n := m.listLen(m.tab); n > 0 {
			left = fmt.Sprintf("  %d of %d", m.cursor[m.tab]+1, n)
		}
	}

	right := mutedTextStyle.Render(fmt.Sprintf("%.1f%% of volume used", m.data.Summary.UsedPercentage))
	spacing := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return left + strings.Repeat(" ", spacing) + right
}

// visibleRows returns the number of list rows that fit.
func (m ResultModel) visibleRows() int {
	return max(m.height-14, 5)
}

// Tab returns the active tab.
func (m ResultModel) Tab() Tab {
	return m.tab
}

// CurrentFolder returns the folder under the cursor on the folders tab.
func (m ResultModel) CurrentFolder() (session.FolderItem, bool) {
	if m.tab != TabFolders || m.drillDir != "" || len(m.data.Folders) == 0 {
		return session.FolderItem{}, false
	}
	return m.data.Folders[m.cursor[TabFolders]], true
}

// ShowFolder switches to the listing of dir.
func (m *ResultModel) ShowFolder(dir string, files []session.FileItem, err error) {
	m.drillDir = dir
	m.drillFiles = files
	m.drillErr = err
	m.drillCursor = 0
	m.drillOffset = 0
}

// CloseFolder returns from a folder listing.
func (m *ResultModel) CloseFolder() {
	m.drillDir = ""
	m.drillFiles = nil
	m.drillErr = nil
}

// InFolder reports whether a folder listing is shown.
func (m ResultModel) InFolder() bool {
	return m.drillDir != ""
}

// Toggle toggles selection of the suggestion at index.
func (m *ResultModel) Toggle(index int) {
	if index < 0 || index >= len(m.data.Suggestions) {
		return
	}
	if m.selected[index] {
		delete(m.selected, index)
	} else {
		m.selected[index] = true
	}
}

// SelectAll selects every suggestion.
func (m *ResultModel) SelectAll() {
	for i := range m.data.Suggestions {
		m.selected[i] = true
	}
}

// SelectNone clears the selection.
func (m *ResultModel) SelectNone() {
	m.selected = make(map[int]bool)
}

// SelectedSuggestions returns the chosen suggestions in list order.
func (m ResultModel) SelectedSuggestions() []cleanup.Suggestion {
	idx := make([]int, 0, len(m.selected))
	for i := range m.selected {
		if i < len(m.data.Suggestions) {
			idx = append(idx, i)
		}
	}
	slices.Sort(idx)

	out := make([]cleanup.Suggestion, 0, len(idx))
	for _, i := range idx {
		out = append(out, m.data.Suggestions[i])
	}
	return out
}

// SelectedSize returns the total size of the chosen suggestions.
func (m ResultModel) SelectedSize() int64 {
	var total int64
	for _, s := range m.SelectedSuggestions() {
		total += s.Size
	}
	return total
}

// SelectedCount returns the number of chosen suggestions.
func (m ResultModel) SelectedCount() int {
	return len(m.selected)
}

// SelectedItems returns the number of paths in the chosen suggestions.
func (m ResultModel) SelectedItems() int {
	var n int
	for _, s := range m.SelectedSuggestions() {
		n += len(s.Paths)
	}
	return n
}

// HasSelection returns true if any suggestion is selected.
func (m ResultModel) HasSelection() bool {
	return len(m.selected) > 0
}

// AddFreed records bytes moved to trash.
func (m *ResultModel) AddFreed(n int64) {
	m.freed += n
}

// SetDimensions updates the width and height.
func (m *ResultModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height
}
