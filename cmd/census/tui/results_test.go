package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jamesainslie/census/pkg/census/classify"
	"github.com/jamesainslie/census/pkg/census/cleanup"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/session"
	"github.com/jamesainslie/census/pkg/census/types"
)

func testData() ResultData {
	return ResultData{
		Summary: session.Summary{
			Root:         "/data",
			TotalFiles:   3,
			TotalFolders: 2,
			TotalSize:    600 * types.MiB,
			ScanTime:     time.Second,
		},
		Files: []session.FileItem{
			{ID: 1, Name: "movie.mp4", Dir: "/data/video", Path: "/data/video/movie.mp4", Size: 400 * types.MiB, Category: classify.Video, Extension: "mp4"},
			{ID: 2, Name: "photo.jpg", Dir: "/data", Path: "/data/photo.jpg", Size: 150 * types.MiB, Category: classify.Images, Extension: "jpg"},
		},
		Folders: []session.FolderItem{
			{ID: 1, Name: "video", Path: "/data/video", Size: 400 * types.MiB, FileCount: 1, Percentage: 66.7},
		},
		Types: []session.TypeItem{
			{Category: classify.Video, Size: 400 * types.MiB, Count: 1, Color: classify.Video.Color()},
			{Category: classify.Images, Size: 200 * types.MiB, Count: 2, Color: classify.Images.Color()},
		},
		Suggestions: []cleanup.Suggestion{
			{Kind: cleanup.KindBackups, Size: 10 * types.MiB, Count: 1, ColorClass: "green", Paths: []string{"/data/a.bak"}},
			{Kind: cleanup.KindTemporary, Size: 5 * types.MiB, Count: 2, ColorClass: "orange", Paths: []string{"/data/x.tmp", "/data/y.tmp"}},
		},
		Growth: []history.Point{
			{Label: "Week of Mar 02", Size: 500 * types.MiB},
			{Label: "Week of Mar 09", Size: 600 * types.MiB},
		},
		Period: history.Period30D,
	}
}

func TestNewResultModel(t *testing.T) {
	m := NewResultModel(testData())

	if m.Tab() != TabFiles {
		t.Errorf("expected files tab, got %s", m.Tab())
	}
	if m.HasSelection() {
		t.Error("expected no selection initially")
	}
	if m.InFolder() {
		t.Error("expected no folder listing initially")
	}
}

func TestResultModelTabs(t *testing.T) {
	m := NewResultModel(testData())

	m.HandleKey("tab")
	if m.Tab() != TabFolders {
		t.Errorf("expected folders tab, got %s", m.Tab())
	}

	m.HandleKey("shift+tab")
	m.HandleKey("shift+tab")
	if m.Tab() != TabGrowth {
		t.Errorf("expected wrap to growth tab, got %s", m.Tab())
	}

	m.HandleKey("4")
	if m.Tab() != TabCleanup {
		t.Errorf("expected cleanup tab, got %s", m.Tab())
	}
}

func TestResultModelNavigationClamps(t *testing.T) {
	m := NewResultModel(testData())

	m.HandleKey("up")
	if m.cursor[TabFiles] != 0 {
		t.Errorf("expected cursor 0, got %d", m.cursor[TabFiles])
	}

	m.HandleKey("down")
	m.HandleKey("down")
	m.HandleKey("down")
	if m.cursor[TabFiles] != 1 {
		t.Errorf("expected cursor clamped to 1, got %d", m.cursor[TabFiles])
	}

	m.HandleKey("g")
	if m.cursor[TabFiles] != 0 {
		t.Errorf("expected cursor 0 after home, got %d", m.cursor[TabFiles])
	}

	// Each tab keeps its own cursor
	m.HandleKey("G")
	m.HandleKey("tab")
	if m.cursor[TabFolders] != 0 {
		t.Errorf("expected folders cursor 0, got %d", m.cursor[TabFolders])
	}
}

func TestResultModelSelection(t *testing.T) {
	m := NewResultModel(testData())

	// Space only selects on the cleanup tab
	m.HandleKey(" ")
	if m.HasSelection() {
		t.Error("expected no selection outside the cleanup tab")
	}

	m.HandleKey("4")
	m.HandleKey("down")
	m.HandleKey(" ")
	if m.SelectedCount() != 1 {
		t.Fatalf("expected 1 selected, got %d", m.SelectedCount())
	}
	if got := m.SelectedSuggestions()[0].Kind; got != cleanup.KindTemporary {
		t.Errorf("expected temporary files selected, got %s", got)
	}

	m.HandleKey("a")
	sel := m.SelectedSuggestions()
	if len(sel) != 2 || sel[0].Kind != cleanup.KindBackups {
		t.Errorf("expected both suggestions in list order, got %v", sel)
	}
	if m.SelectedSize() != 15*types.MiB {
		t.Errorf("expected 15 MiB selected, got %d", m.SelectedSize())
	}
	if m.SelectedItems() != 3 {
		t.Errorf("expected 3 items, got %d", m.SelectedItems())
	}

	m.HandleKey("n")
	if m.HasSelection() {
		t.Error("expected selection cleared")
	}
}

func TestResultModelToggleOutOfRange(t *testing.T) {
	m := NewResultModel(testData())
	m.Toggle(-1)
	m.Toggle(10)
	if m.HasSelection() {
		t.Error("expected out-of-range toggles to be ignored")
	}
}

func TestResultModelFolderDrill(t *testing.T) {
	m := NewResultModel(testData())

	if _, ok := m.CurrentFolder(); ok {
		t.Error("expected no current folder on the files tab")
	}

	m.HandleKey("2")
	folder, ok := m.CurrentFolder()
	if !ok || folder.Path != "/data/video" {
		t.Fatalf("expected /data/video, got %v %v", folder, ok)
	}

	m.ShowFolder(folder.Path, testData().Files[:1], nil)
	if !m.InFolder() {
		t.Fatal("expected folder listing")
	}
	if _, ok := m.CurrentFolder(); ok {
		t.Error("expected no current folder inside a listing")
	}
	if !strings.Contains(m.View(), "movie.mp4") {
		t.Error("expected listing to show the folder's files")
	}

	m.HandleKey("esc")
	if m.InFolder() {
		t.Error("expected esc to close the listing")
	}
	if m.Tab() != TabFolders {
		t.Errorf("expected to return to folders tab, got %s", m.Tab())
	}
}

func TestResultModelFolderError(t *testing.T) {
	m := NewResultModel(testData())
	m.ShowFolder("/gone", nil, errors.New("cannot read directory"))

	if !strings.Contains(m.View(), "cannot read directory") {
		t.Error("expected error in listing view")
	}
}

func TestResultModelViews(t *testing.T) {
	m := NewResultModel(testData())
	m.SetDimensions(120, 40)

	wants := map[Tab]string{
		TabFiles:   "movie.mp4",
		TabFolders: "/data/video",
		TabTypes:   string(classify.Video),
		TabCleanup: string(cleanup.KindBackups),
		TabGrowth:  "Week of Mar 09",
	}
	for tab, want := range wants {
		m.tab = tab
		view := m.View()
		if !strings.Contains(view, want) {
			t.Errorf("%s tab: expected view to contain %q", tab, want)
		}
		if !strings.Contains(view, "CENSUS") {
			t.Errorf("%s tab: expected header", tab)
		}
	}
}

func TestResultModelEmptyView(t *testing.T) {
	m := NewResultModel(ResultData{})
	m.SetDimensions(100, 30)

	if !strings.Contains(m.View(), "No files above the size threshold.") {
		t.Error("expected empty files message")
	}
	m.HandleKey("5")
	if !strings.Contains(m.View(), "No recorded scans yet.") {
		t.Error("expected empty growth message")
	}
}

func TestTabString(t *testing.T) {
	if TabCleanup.String() != "Cleanup" {
		t.Errorf("expected Cleanup, got %s", TabCleanup)
	}
	if Tab(99).String() != "unknown" {
		t.Errorf("expected unknown, got %s", Tab(99))
	}
}
