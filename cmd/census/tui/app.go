package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/census/pkg/census/cleanup"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/session"
	"github.com/jamesainslie/census/pkg/census/trash"
	"github.com/jamesainslie/census/pkg/census/types"
)

// AppState represents the current state of the application.
type AppState int

const (
	StateScanning AppState = iota
	StateResults
	StateConfirm
	StateCleaning
	StateComplete
)

// Options configures the TUI application.
type Options struct {
	// Session runs the scans and answers queries.
	Session *session.Session

	// Root is the directory to scan.
	Root string

	// Period selects the growth tab window.
	Period history.Period

	// DryRun previews cleanup without moving anything.
	DryRun bool

	// Remove moves one path away. Defaults to trash.MoveToTrash.
	Remove cleanup.RemoveFunc

	// Journal records applied cleanups. Nil disables journaling.
	Journal *cleanup.Journal
}

// Model is the main Bubble Tea model for the census TUI.
type Model struct {
	state       AppState
	scanModel   ScanModel
	resultModel ResultModel
	options     Options

	// Scanning state
	ctx          context.Context
	cancel       context.CancelFunc
	scanDone     bool
	quitting     bool
	progressChan chan types.ScanProgress

	// Confirmation dialog state
	confirmFocused int // 0 = cancel, 1 = trash

	// Cleaning state
	cleanSpinner      spinner.Model
	cleanProgress     int
	cleanTotal        int
	cleanMoved        int
	cleanFreed        int64
	cleanErrors       []string
	cleanProgressChan chan cleanProgressMsg

	// Window dimensions
	width  int
	height int
}

// ScanCompleteMsg is sent when a scan ends.
type ScanCompleteMsg struct {
	Status session.Status
	Err    error
	Data   *ResultData
}

// folderFilesMsg carries a folder listing.
type folderFilesMsg struct {
	dir   string
	files []session.FileItem
	err   error
}

// cleanProgressMsg reports cleanup progress, one suggestion at a time.
type cleanProgressMsg struct {
	current int
	moved   int
	freed   int64
	errs    []string
	done    bool
}

// NewModel creates a new TUI model with the given options.
func NewModel(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.Remove == nil {
		opts.Remove = trash.MoveToTrash
	}
	if opts.Period == "" {
		opts.Period = history.Period30D
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(dangerColor)

	return Model{
		state:        StateScanning,
		scanModel:    NewScanModel(opts.Root),
		resultModel:  NewResultModel(ResultData{}),
		options:      opts,
		ctx:          ctx,
		cancel:       cancel,
		width:        80,
		height:       24,
		cleanSpinner: s,
		progressChan: make(chan types.ScanProgress, 100),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.scanModel.Init(),
		m.startScan(),
		m.listenForProgress(),
		m.tickUI(),
	)
}

// tickUIMsg triggers a UI refresh.
type tickUIMsg struct{}

// tickUI returns a command that periodically triggers UI updates.
func (m Model) tickUI() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return tickUIMsg{}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scanModel.width = msg.Width
		m.scanModel.height = msg.Height
		m.resultModel.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickUIMsg:
		if m.state == StateScanning && !m.scanDone {
			return m, m.tickUI()
		}
		return m, nil

	case ProgressMsg:
		m.scanModel.SetProgress(types.ScanProgress(msg))
		return m, m.listenForProgress()

	case ScanCompleteMsg:
		return m.handleScanComplete(msg)

	case folderFilesMsg:
		m.resultModel.ShowFolder(msg.dir, msg.files, msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		switch m.state {
		case StateScanning:
			m.scanModel.spinner, cmd = m.scanModel.spinner.Update(msg)
		case StateCleaning:
			m.cleanSpinner, cmd = m.cleanSpinner.Update(msg)
		}
		return m, cmd

	case cleanProgressMsg:
		m.cleanProgress = msg.current
		m.cleanMoved += msg.moved
		m.cleanFreed += msg.freed
		m.cleanErrors = append(m.cleanErrors, msg.errs...)
		if msg.done {
			m.resultModel.AddFreed(m.cleanFreed)
			m.resultModel.SelectNone()
			m.state = StateComplete
			return m, nil
		}
		return m, m.listenForCleanProgress()
	}

	return m, nil
}

// handleScanComplete moves to the results, or quits when the user asked
// to leave while the scan was winding down.
func (m Model) handleScanComplete(msg ScanCompleteMsg) (tea.Model, tea.Cmd) {
	m.scanDone = true
	m.scanModel.SetDone(msg.Err)

	if m.quitting {
		m.cancel()
		return m, tea.Quit
	}
	if msg.Err != nil {
		return m, nil
	}
	if msg.Status == session.StatusCancelled {
		m.scanModel.currentPath = "Scan cancelled"
		return m, nil
	}

	m.state = StateResults
	if msg.Data != nil {
		m.resultModel = NewResultModel(*msg.Data)
		m.resultModel.SetDimensions(m.width, m.height)
	}
	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		// A second Ctrl+C, or one after the scan, leaves at once
		if m.scanDone || m.quitting {
			m.options.Session.CancelScan()
			m.cancel()
			return m, tea.Quit
		}
		return m.stopScan()
	}

	switch m.state {
	case StateScanning:
		if key == "q" || key == "esc" {
			if m.scanDone {
				m.cancel()
				return m, tea.Quit
			}
			return m.stopScan()
		}

	case StateResults:
		return m.handleResultsKey(key)

	case StateConfirm:
		switch key {
		case "q", "esc", "n":
			m.state = StateResults
		case "left", "h":
			m.confirmFocused = 0
		case "right", "l":
			m.confirmFocused = 1
		case "tab":
			m.confirmFocused = (m.confirmFocused + 1) % 2
		case "enter":
			if m.confirmFocused == 1 {
				return m.startClean()
			}
			m.state = StateResults
		case "y":
			return m.startClean()
		}

	case StateCleaning:
		// No key handling while cleaning

	case StateComplete:
		switch key {
		case "enter", "esc":
			m.state = StateResults
		case "r":
			return m.rescan()
		case "q":
			m.cancel()
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleResultsKey handles keys in the results view.
func (m Model) handleResultsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.cancel()
		return m, tea.Quit
	case "esc":
		if m.resultModel.InFolder() {
			m.resultModel.CloseFolder()
			return m, nil
		}
		m.cancel()
		return m, tea.Quit
	case "r":
		return m.rescan()
	case "enter":
		if folder, ok := m.resultModel.CurrentFolder(); ok {
			return m, m.loadFolder(folder.Path)
		}
		if m.resultModel.Tab() == TabCleanup && m.resultModel.HasSelection() {
			m.state = StateConfirm
			m.confirmFocused = 0
		}
		return m, nil
	}

	m.resultModel.HandleKey(key)
	return m, nil
}

// stopScan asks the running scan to stop and quits once it has.
func (m Model) stopScan() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.scanModel.SetCancelling()
	m.options.Session.CancelScan()
	return m, nil
}

// rescan starts a fresh scan of the same root.
func (m Model) rescan() (tea.Model, tea.Cmd) {
	m.state = StateScanning
	m.scanDone = false
	m.scanModel = NewScanModel(m.options.Root)
	m.scanModel.width = m.width
	m.scanModel.height = m.height
	m.progressChan = make(chan types.ScanProgress, 100)

	return m, tea.Batch(
		m.scanModel.Init(),
		m.startScan(),
		m.listenForProgress(),
		m.tickUI(),
	)
}

// startScan runs one scan through the session and reports its outcome.
// Progress events are dropped when the channel is full.
func (m Model) startScan() tea.Cmd {
	progressChan := m.progressChan
	sess := m.options.Session
	ctx := m.ctx
	root := m.options.Root
	period := m.options.Period

	return func() tea.Msg {
		done, err := sess.StartScanAsync(ctx, root, func(p types.ScanProgress) {
			select {
			case progressChan <- p:
			default:
				// Channel full, skip this update
			}
		})
		if err != nil {
			close(progressChan)
			return ScanCompleteMsg{Err: err}
		}

		out := <-done
		// Every scan goroutine has exited once the outcome arrives
		close(progressChan)

		msg := ScanCompleteMsg{Status: out.Status, Err: out.Err}
		if out.Err == nil && out.Status == session.StatusCompleted {
			data := collectResults(ctx, sess, period)
			msg.Data = &data
		}
		return msg
	}
}

// collectResults snapshots the session queries shown by the results view.
func collectResults(ctx context.Context, sess *session.Session, period history.Period) ResultData {
	growth, err := sess.Growth(ctx, period)
	if err != nil {
		logging.Get("tui").Warn("growth unavailable", "error", err)
	}
	return ResultData{
		Summary:     sess.Summary(),
		Skipped:     sess.Results().Skipped,
		Files:       sess.LargestFiles(),
		Folders:     sess.TopFolders(folderListLimit),
		Types:       sess.FileTypeDistribution(),
		Suggestions: sess.CleanupSuggestions(),
		Growth:      growth,
		Period:      period,
	}
}

// listenForProgress returns a command that waits for progress updates.
func (m Model) listenForProgress() tea.Cmd {
	progressChan := m.progressChan
	return func() tea.Msg {
		p, ok := <-progressChan
		if !ok {
			return nil
		}
		return ProgressMsg(p)
	}
}

// loadFolder lists the files directly inside dir.
func (m Model) loadFolder(dir string) tea.Cmd {
	sess := m.options.Session
	return func() tea.Msg {
		files, err := sess.FolderFiles(dir)
		return folderFilesMsg{dir: dir, files: files, err: err}
	}
}

// startClean applies the selected suggestions in the background.
func (m Model) startClean() (tea.Model, tea.Cmd) {
	suggestions := m.resultModel.SelectedSuggestions()

	m.state = StateCleaning
	m.cleanTotal = len(suggestions)
	m.cleanProgress = 0
	m.cleanMoved = 0
	m.cleanFreed = 0
	m.cleanErrors = nil
	m.cleanProgressChan = make(chan cleanProgressMsg, len(suggestions)+1)

	progressChan := m.cleanProgressChan
	ctx := m.ctx
	opts := m.options
	remove := opts.Remove
	if opts.DryRun {
		remove = func(string) error { return nil }
	}

	go func() {
		defer close(progressChan)
		log := logging.Get("tui")

		for i, s := range suggestions {
			res, err := cleanup.Apply(ctx, s, remove)
			msg := cleanProgressMsg{current: i + 1}
			if res != nil {
				msg.moved = len(res.Removed)
				msg.freed = res.Bytes()
				for path, ferr := range res.Failed {
					msg.errs = append(msg.errs, fmt.Sprintf("%s: %v", path, ferr))
				}
				if opts.Journal != nil && !opts.DryRun {
					if _, jerr := opts.Journal.Record(opts.Root, res); jerr != nil {
						log.Warn("failed to journal cleanup", "kind", s.Kind, "error", jerr)
					}
				}
			}
			if err != nil {
				msg.errs = append(msg.errs, err.Error())
				progressChan <- msg
				break
			}
			progressChan <- msg
		}
		progressChan <- cleanProgressMsg{current: len(suggestions), done: true}
	}()

	return m, tea.Batch(m.cleanSpinner.Tick, m.listenForCleanProgress())
}

// listenForCleanProgress returns a command that waits for cleanup progress.
func (m Model) listenForCleanProgress() tea.Cmd {
	progressChan := m.cleanProgressChan
	total := m.cleanTotal
	return func() tea.Msg {
		if progressChan == nil {
			return cleanProgressMsg{current: total, done: true}
		}
		msg, ok := <-progressChan
		if !ok {
			return cleanProgressMsg{current: total, done: true}
		}
		return msg
	}
}

// View renders the current state.
func (m Model) View() string {
	switch m.state {
	case StateScanning:
		return m.scanModel.View()
	case StateResults:
		return m.resultModel.View()
	case StateConfirm:
		return m.renderConfirmDialog()
	case StateCleaning:
		return m.renderCleaning()
	case StateComplete:
		return m.renderComplete()
	}
	return ""
}

// renderConfirmDialog renders the cleanup confirmation dialog.
func (m Model) renderConfirmDialog() string {
	bg := m.resultModel.View()

	var dialog strings.Builder
	dialog.WriteString(dialogTitleStyle.Render("Confirm Cleanup"))
	dialog.WriteString("\n\n")
	dialog.WriteString(dialogTextStyle.Render(
		fmt.Sprintf("Move %d items (%s) to the trash?",
			m.resultModel.SelectedItems(), types.FormatSize(m.resultModel.SelectedSize()))))
	dialog.WriteString("\n")

	if m.options.DryRun {
		dialog.WriteString(warningTextStyle.Render("(Dry run - nothing will be moved)"))
		dialog.WriteString("\n")
	}
	dialog.WriteString("\n")

	cancelBtn := inactiveButtonStyle.Render("Cancel")
	trashBtn := inactiveButtonStyle.Render("Trash")
	if m.confirmFocused == 0 {
		cancelBtn = activeButtonStyle.Background(primaryColor).Render("Cancel")
	} else {
		trashBtn = activeButtonStyle.Render("Trash")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, cancelBtn, "  ", trashBtn)
	dialog.WriteString(center(buttons, 50))

	return m.overlayDialog(bg, dialogBoxStyle.Render(dialog.String()))
}

// renderCleaning renders cleanup progress.
func (m Model) renderCleaning() string {
	contentWidth := max(m.width-4, 40)

	var b strings.Builder
	b.WriteString(titleStyle.Render("  Moving to trash..."))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s Suggestions: %d / %d", m.cleanSpinner.View(), m.cleanProgress, m.cleanTotal))
	b.WriteString("\n\n")

	if m.cleanTotal > 0 {
		pct := float64(m.cleanProgress) / float64(m.cleanTotal)
		b.WriteString("  " + renderBar(pct, contentWidth-10, progressFillStyle))
		b.WriteString(fmt.Sprintf(" %d%%", int(pct*100)))
		b.WriteString("\n")
	}

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderComplete renders the cleanup summary.
func (m Model) renderComplete() string {
	contentWidth := max(m.width-4, 40)

	var b strings.Builder
	b.WriteString(successTextStyle.Render("  Cleanup Complete"))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	if m.options.DryRun {
		b.WriteString(fmt.Sprintf("  Would have moved: %d items (%s)\n", m.cleanMoved, types.FormatSize(m.cleanFreed)))
	} else {
		b.WriteString(fmt.Sprintf("  Moved to trash: %d items (%s)\n", m.cleanMoved, types.FormatSize(m.cleanFreed)))
	}

	if len(m.cleanErrors) > 0 {
		b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Failed: %d", len(m.cleanErrors))))
		b.WriteString("\n\n")
		const maxErrors = 5
		for i, e := range m.cleanErrors {
			if i >= maxErrors {
				b.WriteString(errorTextStyle.Render(fmt.Sprintf("    ... and %d more", len(m.cleanErrors)-maxErrors)))
				b.WriteString("\n")
				break
			}
			b.WriteString(errorTextStyle.Render("    - " + truncatePath(e, contentWidth-6)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedTextStyle.Render("  Results reflect the scan before cleanup. Rescan to refresh."))
	b.WriteString("\n\n")
	b.WriteString(renderKeyHints([][2]string{{"Enter", "Back"}, {"r", "Rescan"}, {"q", "Quit"}}))
	b.WriteString("\n")

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// overlayDialog centers a dialog over a background view.
func (m Model) overlayDialog(bg, dialog string) string {
	dialogLines := strings.Split(dialog, "\n")
	bgLines := strings.Split(bg, "\n")

	dialogHeight := len(dialogLines)
	startRow := max((m.height-dialogHeight)/2, 0)
	startCol := max((m.width-lipgloss.Width(dialog))/2, 0)
	pad := strings.Repeat(" ", startCol)

	var result []string
	for i := range max(len(bgLines), startRow+dialogHeight) {
		switch {
		case i >= startRow && i < startRow+dialogHeight:
			result = append(result, pad+dialogLines[i-startRow])
		case i < len(bgLines):
			result = append(result, bgLines[i])
		default:
			result = append(result, "")
		}
	}
	return strings.Join(result, "\n")
}

// State returns the current application state.
func (m Model) State() AppState {
	return m.state
}

// Run starts the TUI application.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
