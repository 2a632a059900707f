// Package report renders census results in several output formats
// (text, pretty, json, yaml, csv).
//
// The package uses a registry so formatters can be selected by name at
// runtime:
//
//	f, err := report.Get("json")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := f.Format(&buf, rep); err != nil {
//	    return err
//	}
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/census/pkg/census/cleanup"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/session"
)

// DefaultTop is the number of files and folders listed by the text formats.
const DefaultTop = 10

// Report is everything a formatter can render.
type Report struct {
	Summary      session.Summary      `json:"summary" yaml:"summary"`
	Files        []session.FileItem   `json:"largest_files" yaml:"largest_files"`
	Folders      []session.FolderItem `json:"largest_folders" yaml:"largest_folders"`
	Distribution []session.TypeItem   `json:"distribution" yaml:"distribution"`
	Suggestions  []cleanup.Suggestion `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Growth       []history.Point      `json:"growth,omitempty" yaml:"growth,omitempty"`
	Skipped      int64                `json:"skipped" yaml:"skipped"`
	Cancelled    bool                 `json:"cancelled" yaml:"cancelled"`
	GeneratedAt  time.Time            `json:"generated_at" yaml:"generated_at"`
}

// Options controls what Build collects.
type Options struct {
	// Top bounds the folder list; zero means DefaultTop.
	Top int

	// Suggest includes cleanup suggestions.
	Suggest bool

	// Growth is included when non-nil.
	Growth []history.Point
}

// Build assembles a Report from the current state of s.
func Build(s *session.Session, opts Options) *Report {
	top := opts.Top
	if top <= 0 {
		top = DefaultTop
	}

	r := s.Results()
	rep := &Report{
		Summary:      s.Summary(),
		Files:        s.LargestFiles(),
		Folders:      s.TopFolders(top),
		Distribution: s.FileTypeDistribution(),
		Growth:       opts.Growth,
		Skipped:      r.Skipped,
		Cancelled:    r.Cancelled,
		GeneratedAt:  time.Now(),
	}
	if opts.Suggest {
		rep.Suggestions = s.CleanupSuggestions()
	}
	return rep
}

// Formatter renders a report.
type Formatter interface {
	// Format writes the rendered report to the buffer.
	Format(w *bytes.Buffer, r *Report) error

	// Ext is the file extension used when exporting, without the dot.
	Ext() string
}

// FormatterFactory creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty formatter registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds a formatter factory, replacing any with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	return factory(), nil
}

// Available returns the sorted names of every registered formatter.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// Render formats r with the named formatter.
func Render(format string, r *Report) ([]byte, error) {
	f, err := Get(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes r to dir as census_report_<unix>.<ext> and returns the
// written path.
func Export(dir, format string, r *Report) (string, error) {
	f, err := Get(format)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, r); err != nil {
		return "", err
	}

	name := fmt.Sprintf("census_report_%d.%s", r.GeneratedAt.Unix(), f.Ext())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to export report: %w", err)
	}
	return path, nil
}
