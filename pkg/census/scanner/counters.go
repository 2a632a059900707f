package scanner

import "sync/atomic"

// Counters are the scan-wide running totals. Every worker updates them
// and any goroutine may read them; values are advisory until the pool
// has joined.
type Counters struct {
	files   atomic.Int64
	bytes   atomic.Int64
	folders atomic.Int64
	skipped atomic.Int64
	current atomic.Value
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Files       int64
	Bytes       int64
	Folders     int64
	Skipped     int64
	CurrentPath string
}

func newCounters() *Counters {
	c := &Counters{}
	c.current.Store("")
	return c
}

// AddFile records one regular file of the given size.
func (c *Counters) AddFile(size int64) {
	c.files.Add(1)
	c.bytes.Add(size)
}

// AddFolder records one opened directory and makes it the current path.
func (c *Counters) AddFolder(path string) {
	c.folders.Add(1)
	c.current.Store(path)
}

// Skip records one entry that could not be read.
func (c *Counters) Skip() {
	c.skipped.Add(1)
}

// Snapshot reads every counter.
func (c *Counters) Snapshot() Snapshot {
	path, _ := c.current.Load().(string)
	return Snapshot{
		Files:       c.files.Load(),
		Bytes:       c.bytes.Load(),
		Folders:     c.folders.Load(),
		Skipped:     c.skipped.Load(),
		CurrentPath: path,
	}
}
