package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/census/pkg/census/cleanup"
	"github.com/jamesainslie/census/pkg/census/session"
)

func newTestSession() *session.Session {
	return session.New(session.Config{
		Workers:   2,
		Threshold: 1,
		FreeSpace: func(string) (int64, error) { return 1 << 30, nil },
	})
}

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]int{
		"big.mp4":     4096,
		"notes.txt":   512,
		"sub/old.bak": 2048,
	}
	for name, size := range files {
		if err := os.WriteFile(filepath.Join(root, name), make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestModelScanToResults(t *testing.T) {
	root := writeTree(t)
	m := NewModel(Options{Session: newTestSession(), Root: root})

	msg := m.startScan()()
	done, ok := msg.(ScanCompleteMsg)
	if !ok {
		t.Fatalf("expected ScanCompleteMsg, got %T", msg)
	}
	if done.Err != nil {
		t.Fatalf("scan failed: %v", done.Err)
	}
	if done.Data == nil {
		t.Fatal("expected result data")
	}
	if done.Data.Summary.TotalFiles != 3 {
		t.Errorf("expected 3 files, got %d", done.Data.Summary.TotalFiles)
	}
	if len(done.Data.Growth) != 1 {
		t.Errorf("expected the current scan as the only growth point, got %d", len(done.Data.Growth))
	}

	next, _ := m.Update(done)
	model := next.(Model)
	if model.State() != StateResults {
		t.Errorf("expected results state, got %d", model.State())
	}
	if !strings.Contains(model.View(), "big.mp4") {
		t.Error("expected largest file in results view")
	}
}

func TestModelScanInvalidRoot(t *testing.T) {
	m := NewModel(Options{Session: newTestSession(), Root: filepath.Join(t.TempDir(), "missing")})

	msg := m.startScan()().(ScanCompleteMsg)
	if msg.Err == nil {
		t.Fatal("expected validation error")
	}

	next, _ := m.Update(msg)
	model := next.(Model)
	if model.State() != StateScanning {
		t.Errorf("expected to stay on the scan view, got %d", model.State())
	}
	if model.scanModel.Error() == nil {
		t.Error("expected error on scan view")
	}
}

func TestModelQuitWaitsForScan(t *testing.T) {
	m := NewModel(Options{Session: newTestSession(), Root: t.TempDir()})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	model := next.(Model)
	if cmd != nil {
		t.Error("expected no quit until the scan has stopped")
	}
	if !model.quitting {
		t.Error("expected quitting to be set")
	}

	_, cmd = model.Update(ScanCompleteMsg{Status: session.StatusCancelled})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelCancelledScanStaysOnScanView(t *testing.T) {
	m := NewModel(Options{Session: newTestSession(), Root: t.TempDir()})

	next, _ := m.Update(ScanCompleteMsg{Status: session.StatusCancelled})
	model := next.(Model)
	if model.State() != StateScanning {
		t.Errorf("expected scan view, got %d", model.State())
	}
	if !strings.Contains(model.View(), "Scan cancelled") {
		t.Error("expected cancelled notice")
	}
}

func TestModelCleanupFlow(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "old.bak")
	if err := os.WriteFile(target, make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}

	var removed []string
	journal, err := cleanup.NewJournal(filepath.Join(dir, "journal"))
	if err != nil {
		t.Fatal(err)
	}

	m := NewModel(Options{
		Session: newTestSession(),
		Root:    dir,
		Journal: journal,
		Remove: func(path string) error {
			removed = append(removed, path)
			return os.Remove(path)
		},
	})
	m.state = StateResults
	m.resultModel = NewResultModel(ResultData{
		Suggestions: []cleanup.Suggestion{
			{Kind: cleanup.KindBackups, Size: 100, Count: 1, Paths: []string{target}},
		},
	})
	m.resultModel.HandleKey("4")
	m.resultModel.HandleKey(" ")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := next.(Model)
	if model.State() != StateConfirm {
		t.Fatalf("expected confirm state, got %d", model.State())
	}

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	model = next.(Model)
	if model.State() != StateCleaning || cmd == nil {
		t.Fatalf("expected cleaning state, got %d", model.State())
	}

	for model.State() == StateCleaning {
		next, _ = model.Update(model.listenForCleanProgress()())
		model = next.(Model)
	}

	if model.State() != StateComplete {
		t.Fatalf("expected complete state, got %d", model.State())
	}
	if len(removed) != 1 || removed[0] != target {
		t.Errorf("expected %s removed, got %v", target, removed)
	}
	if model.cleanFreed != 100 {
		t.Errorf("expected 100 bytes freed, got %d", model.cleanFreed)
	}
	if model.resultModel.HasSelection() {
		t.Error("expected selection cleared after cleanup")
	}

	entries, err := journal.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Kind != cleanup.KindBackups {
		t.Errorf("expected one journal entry, got %v", entries)
	}
}

func TestModelCleanupDryRun(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "scratch.tmp")
	if err := os.WriteFile(target, make([]byte, 10), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewModel(Options{Session: newTestSession(), Root: dir, DryRun: true})
	m.state = StateResults
	m.resultModel = NewResultModel(ResultData{
		Suggestions: []cleanup.Suggestion{
			{Kind: cleanup.KindTemporary, Size: 10, Count: 1, Paths: []string{target}},
		},
	})
	m.resultModel.SelectAll()

	next, _ := m.startClean()
	model := next.(Model)
	for model.State() == StateCleaning {
		next, _ = model.Update(model.listenForCleanProgress()())
		model = next.(Model)
	}

	if _, err := os.Stat(target); err != nil {
		t.Errorf("dry run must not remove files: %v", err)
	}
	if !strings.Contains(model.View(), "Would have moved") {
		t.Error("expected dry-run summary")
	}
}

func TestModelWindowSize(t *testing.T) {
	m := NewModel(Options{Session: newTestSession(), Root: "/"})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model := next.(Model)
	if model.scanModel.width != 120 || model.resultModel.height != 40 {
		t.Error("expected dimensions to propagate")
	}
}
