package history

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/types"
)

// ErrNotFound is returned when no record exists.
var ErrNotFound = errors.New("history record not found")

// Store wraps badger for scan history.
type Store struct {
	db        *badger.DB
	retention int
}

// Open opens or creates a history store in dir. Retention bounds the
// number of records kept per root; zero or less keeps everything.
func Open(dir string, retention int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return &Store{db: db, retention: retention}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a summary of a completed scan and prunes old records.
// Cancelled or empty results are ignored.
func (s *Store) Record(_ context.Context, r *types.ScanResults) error {
	if r.Empty() || r.Cancelled {
		return nil
	}
	return s.Put(FromResults(r))
}

// Put stores rec under its root and scan time.
func (s *Store) Put(rec Record) error {
	if rec.Version == 0 {
		rec.Version = FormatVersion
	}
	value, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("encoding history record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(MakeKey(rec.Root, rec.ScannedAt), value)
	})
	if err != nil {
		return err
	}
	return s.prune(rec.Root)
}

// List returns every record for root, oldest first.
func (s *Store) List(root string) ([]Record, error) {
	var records []Record
	prefix := MakeKeyPrefix(root)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if _, _, ok := ParseKey(it.Item().Key()); !ok {
				continue
			}
			var rec Record
			if err := it.Item().Value(rec.Decode); err != nil {
				logging.Get("history").Warn("skipping unreadable record", "root", root, "error", err)
				continue
			}
			if rec.Root != root {
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

// Latest returns the most recent record for root.
func (s *Store) Latest(root string) (Record, error) {
	records, err := s.List(root)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, ErrNotFound
	}
	return records[len(records)-1], nil
}

// Roots returns every root with at least one record, in key order.
func (s *Store) Roots() ([]string, error) {
	var roots []string
	seen := make(map[string]bool)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			root, _, ok := ParseKey(it.Item().Key())
			if ok && !seen[root] {
				seen[root] = true
				roots = append(roots, root)
			}
		}
		return nil
	})
	return roots, err
}

// Clear removes every record for root, or every record when root is empty.
func (s *Store) Clear(root string) error {
	if root == "" {
		return s.db.DropAll()
	}
	return s.deleteKeys(func(keys [][]byte) [][]byte { return keys }, root)
}

// Growth returns the size series of root over period.
func (s *Store) Growth(_ context.Context, root string, period Period) ([]Point, error) {
	records, err := s.List(root)
	if err != nil {
		return nil, err
	}
	return Series(records, period, nowFunc()), nil
}

// prune drops the oldest records of root beyond the retention limit.
func (s *Store) prune(root string) error {
	if s.retention <= 0 {
		return nil
	}
	return s.deleteKeys(func(keys [][]byte) [][]byte {
		if len(keys) <= s.retention {
			return nil
		}
		return keys[:len(keys)-s.retention]
	}, root)
}

// deleteKeys deletes the subset of root's keys (oldest first) chosen by pick.
func (s *Store) deleteKeys(pick func([][]byte) [][]byte, root string) error {
	prefix := MakeKeyPrefix(root)

	return s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if r, _, ok := ParseKey(key); ok && r == root {
				keys = append(keys, key)
			}
		}
		it.Close()

		for _, key := range pick(keys) {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
