package history

import (
	"context"
	"testing"
	"time"

	"github.com/jamesainslie/census/pkg/census/classify"
	"github.com/jamesainslie/census/pkg/census/types"
)

func openTestStore(t *testing.T, retention int) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), retention)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func results(root string, at time.Time, size int64) *types.ScanResults {
	return &types.ScanResults{
		ID:         "scan-" + at.Format("150405.000"),
		Root:       root,
		StartedAt:  at,
		TotalFiles: 3,
		TotalSize:  size,
		Distribution: types.Histogram{
			classify.Video: {Size: size, Count: 3},
		},
	}
}

func TestStoreOpenClose(t *testing.T) {
	store, err := Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestStoreRecordAndList(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of order; List must return oldest first.
	for _, d := range []int{2, 0, 1} {
		if err := store.Record(ctx, results("/data", base.AddDate(0, 0, d), int64(100*(d+1)))); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := store.Record(ctx, results("/other", base, 5)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.List("/data")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	for i, rec := range got {
		if want := int64(100 * (i + 1)); rec.TotalSize != want {
			t.Errorf("record %d size = %d, want %d", i, rec.TotalSize, want)
		}
		if rec.Root != "/data" {
			t.Errorf("record %d root = %q", i, rec.Root)
		}
	}
	if stat := got[0].Distribution[classify.Video]; stat.Count != 3 {
		t.Errorf("distribution not round-tripped: %+v", got[0].Distribution)
	}
}

func TestStoreSkipsCancelledAndEmpty(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	cancelled := results("/data", time.Now(), 10)
	cancelled.Cancelled = true
	if err := store.Record(ctx, cancelled); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, &types.ScanResults{}); err != nil {
		t.Fatal(err)
	}

	got, err := store.List("/data")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestStoreRetention(t *testing.T) {
	store := openTestStore(t, 2)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for d := range 5 {
		if err := store.Record(ctx, results("/data", base.AddDate(0, 0, d), int64(d))); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.List("/data")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].TotalSize != 3 || got[1].TotalSize != 4 {
		t.Errorf("retention kept wrong records: %d, %d", got[0].TotalSize, got[1].TotalSize)
	}
}

func TestStoreLatest(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	if _, err := store.Latest("/data"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_ = store.Record(ctx, results("/data", base, 1))
	_ = store.Record(ctx, results("/data", base.Add(time.Hour), 2))

	latest, err := store.Latest("/data")
	if err != nil {
		t.Fatal(err)
	}
	if latest.TotalSize != 2 {
		t.Errorf("Latest size = %d, want 2", latest.TotalSize)
	}
}

func TestStoreRootsAndClear(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_ = store.Record(ctx, results("/a", now, 1))
	_ = store.Record(ctx, results("/a/b", now, 1))
	_ = store.Record(ctx, results("/c", now, 1))

	roots, err := store.Roots()
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 3 {
		t.Fatalf("Roots = %v, want 3 entries", roots)
	}

	// Clearing /a must not touch /a/b.
	if err := store.Clear("/a"); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.List("/a"); len(got) != 0 {
		t.Errorf("/a still has %d records", len(got))
	}
	if got, _ := store.List("/a/b"); len(got) != 1 {
		t.Errorf("/a/b has %d records, want 1", len(got))
	}

	if err := store.Clear(""); err != nil {
		t.Fatal(err)
	}
	if roots, _ := store.Roots(); len(roots) != 0 {
		t.Errorf("Roots after clear all = %v", roots)
	}
}

func TestStoreGrowth(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })

	_ = store.Record(ctx, results("/data", now.AddDate(0, 0, -10), 100))
	_ = store.Record(ctx, results("/data", now.AddDate(0, 0, -1), 200))

	points, err := store.Growth(ctx, "/data", Period7D)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].Size != 200 {
		t.Errorf("7D growth = %+v, want one point of 200", points)
	}
}
