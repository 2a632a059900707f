// Package trash inspects, empties, and moves files to the user's trash.
//
// On macOS the trash is ~/.Trash. Elsewhere it is the freedesktop trash
// under $XDG_DATA_HOME/Trash, with entries in files/ and their
// .trashinfo records in info/.
package trash

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/jamesainslie/census/pkg/census/logging"
)

// commandTimeout is the maximum time to wait for trash commands.
const commandTimeout = 30 * time.Second

// Bin is a trash location.
type Bin struct {
	// FilesDir holds the trashed entries.
	FilesDir string

	// InfoDir holds .trashinfo records. Empty when the platform keeps none.
	InfoDir string

	// UseDesktop tries desktop tools (osascript, gio, trash-put) before
	// moving entries into FilesDir directly.
	UseDesktop bool
}

// Usage is the space taken by a trash.
type Usage struct {
	Size  int64 `json:"size" yaml:"size"`
	Count int64 `json:"count" yaml:"count"`
}

// Default returns the current user's trash.
func Default() *Bin {
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return &Bin{FilesDir: filepath.Join(home, ".Trash"), UseDesktop: true}
	}
	root := filepath.Join(xdg.DataHome, "Trash")
	return &Bin{
		FilesDir:   filepath.Join(root, "files"),
		InfoDir:    filepath.Join(root, "info"),
		UseDesktop: true,
	}
}

// MoveToTrash moves a file or directory to the current user's trash.
func MoveToTrash(path string) error {
	return Default().Put(path)
}

// Usage sums the regular files under FilesDir. A missing trash is empty.
func (b *Bin) Usage() (Usage, error) {
	var u Usage
	err := filepath.WalkDir(b.FilesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == b.FilesDir && os.IsNotExist(err) {
				return fs.SkipAll
			}
			return nil //nolint:nilerr // unreadable entries are left out of the total
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // entry vanished during the walk
		}
		u.Size += info.Size()
		u.Count++
		return nil
	})
	return u, err
}

// Empty permanently removes everything in the trash and returns what
// was removed. Entries that cannot be removed are logged and skipped.
func (b *Bin) Empty() (Usage, error) {
	before, err := b.Usage()
	if err != nil {
		return Usage{}, err
	}

	log := logging.Get("trash")
	var failed int
	for _, dir := range []string{b.FilesDir, b.InfoDir} {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Usage{}, fmt.Errorf("reading trash %s: %w", dir, err)
		}
		for _, e := range entries {
			p := filepath.Join(dir, e.Name())
			if err := os.RemoveAll(p); err != nil {
				log.Warn("failed to remove trash entry", "path", p, "error", err)
				failed++
			}
		}
	}

	if failed > 0 {
		after, _ := b.Usage()
		return Usage{Size: before.Size - after.Size, Count: before.Count - after.Count},
			fmt.Errorf("%d trash entries could not be removed", failed)
	}
	return before, nil
}

// Put moves path to the trash.
func (b *Bin) Put(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return fmt.Errorf("cannot trash %q: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path for %q: %w", path, err)
	}

	if b.UseDesktop && moveWithDesktop(absPath) == nil {
		return nil
	}
	return b.move(absPath)
}

// moveWithDesktop hands path to the platform's trash tooling so the
// desktop can offer "Put Back".
func moveWithDesktop(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
		return exec.CommandContext(ctx, "osascript", "-e", script).Run()
	case "linux":
		if gioPath, err := exec.LookPath("gio"); err == nil {
			if err := exec.CommandContext(ctx, gioPath, "trash", path).Run(); err == nil {
				return nil
			}
		}
		if trashPath, err := exec.LookPath("trash-put"); err == nil {
			return exec.CommandContext(ctx, trashPath, path).Run()
		}
	}
	return fmt.Errorf("no desktop trash available on %s", runtime.GOOS)
}

// move renames path into FilesDir under a free name and writes its
// .trashinfo record when InfoDir is set.
func (b *Bin) move(path string) error {
	if err := os.MkdirAll(b.FilesDir, 0o700); err != nil {
		return fmt.Errorf("creating trash: %w", err)
	}
	if b.InfoDir != "" {
		if err := os.MkdirAll(b.InfoDir, 0o700); err != nil {
			return fmt.Errorf("creating trash info: %w", err)
		}
	}

	name := b.freeName(filepath.Base(path))
	if b.InfoDir != "" {
		info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
			escapePath(path), time.Now().Format("2006-01-02T15:04:05"))
		if err := os.WriteFile(filepath.Join(b.InfoDir, name+".trashinfo"), []byte(info), 0o600); err != nil {
			return fmt.Errorf("writing trash info: %w", err)
		}
	}

	if err := os.Rename(path, filepath.Join(b.FilesDir, name)); err != nil {
		if b.InfoDir != "" {
			_ = os.Remove(filepath.Join(b.InfoDir, name+".trashinfo"))
		}
		return fmt.Errorf("moving %q to trash: %w", path, err)
	}
	return nil
}

// freeName returns base, or base with a numeric suffix, that is unused
// in the trash.
func (b *Bin) freeName(base string) string {
	name := base
	for i := 2; ; i++ {
		_, err := os.Lstat(filepath.Join(b.FilesDir, name))
		if os.IsNotExist(err) {
			return name
		}
		ext := filepath.Ext(base)
		name = fmt.Sprintf("%s.%d%s", strings.TrimSuffix(base, ext), i, ext)
	}
}

func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}
