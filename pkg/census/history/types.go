// Package history persists scan summaries in an embedded badger database
// so census can report how a tree grows between scans.
package history

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"time"

	"github.com/jamesainslie/census/pkg/census/types"
)

// FormatVersion is stored in every record and bumped when Record changes.
const FormatVersion = 1

// KeySeparator separates the root from the timestamp in keys.
const KeySeparator = '\x00'

// Record is the persisted summary of one completed scan.
type Record struct {
	Version      int
	ID           string
	Root         string
	ScannedAt    time.Time
	Elapsed      time.Duration
	TotalFiles   int64
	TotalFolders int64
	TotalSize    int64
	Distribution types.Histogram
}

// FromResults builds a Record from a completed scan.
func FromResults(r *types.ScanResults) Record {
	return Record{
		Version:      FormatVersion,
		ID:           r.ID,
		Root:         r.Root,
		ScannedAt:    r.StartedAt,
		Elapsed:      r.Elapsed,
		TotalFiles:   r.TotalFiles,
		TotalFolders: r.TotalFolders,
		TotalSize:    r.TotalSize,
		Distribution: r.Distribution,
	}
}

// Encode serializes the record using gob.
func (r *Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes data into the record.
func (r *Record) Decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(r)
}

// MakeKey builds <root>\x00<big-endian unix nanos>. Keys for one root sort
// chronologically.
func MakeKey(root string, at time.Time) []byte {
	key := make([]byte, 0, len(root)+9)
	key = append(key, root...)
	key = append(key, KeySeparator)
	return binary.BigEndian.AppendUint64(key, uint64(at.UnixNano()))
}

// MakeKeyPrefix returns the prefix shared by every key of root.
func MakeKeyPrefix(root string) []byte {
	return append([]byte(root), KeySeparator)
}

// ParseKey splits a key into root and timestamp.
func ParseKey(key []byte) (root string, at time.Time, ok bool) {
	idx := len(key) - 9
	if idx < 0 || key[idx] != KeySeparator {
		return "", time.Time{}, false
	}
	nanos := binary.BigEndian.Uint64(key[idx+1:])
	return string(key[:idx]), time.Unix(0, int64(nanos)), true
}
