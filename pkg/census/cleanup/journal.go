package cleanup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one journaled cleanup run.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Root      string    `json:"root"`
	Kind      Kind      `json:"kind"`
	Removed   []Removed `json:"removed"`
	Bytes     int64     `json:"bytes"`
}

// Journal records cleanup runs as JSON files in a directory.
type Journal struct {
	dir string
	mu  sync.Mutex
}

// NewJournal creates a Journal in dir. The directory is created on first write.
func NewJournal(dir string) (*Journal, error) {
	if dir == "" {
		return nil, errors.New("journal directory cannot be empty")
	}
	return &Journal{dir: dir}, nil
}

// Record writes an entry for res and returns it. Runs that removed
// nothing are not recorded.
func (j *Journal) Record(root string, res *Result) (*Entry, error) {
	if len(res.Removed) == 0 {
		return nil, nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	now := time.Now().UTC()
	entry := &Entry{
		ID:        now.Format("20060102-150405") + "-" + uuid.NewString()[:8],
		Timestamp: now,
		Root:      root,
		Kind:      res.Kind,
		Removed:   res.Removed,
		Bytes:     res.Bytes(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}

	path := filepath.Join(j.dir, entry.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("failed to rename temp file: %w", err)
	}
	return entry, nil
}

// List returns journaled runs newest first. A limit of zero or less
// returns every entry.
func (j *Journal) List(limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	files, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(j.dir, f.Name()))
		if err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
