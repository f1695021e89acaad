package log

import (
	"fmt"
	"io"
	"sync"
)

// DefaultBacklogSize is the capacity used when a non-positive size is given.
const DefaultBacklogSize = 256

// Backlog holds log output while the picker owns the terminal. It keeps the
// most recent entries and counts the ones it had to drop, so that a summary
// can be printed when it is flushed.
//
// Backlog is safe for concurrent use and implements [io.Writer].
type Backlog struct {
	ring    [][]byte
	next    int
	len     int
	dropped int
	mu      sync.Mutex
}

// NewBacklog creates a new [Backlog] holding up to size entries.
func NewBacklog(size int) *Backlog {
	if size <= 0 {
		size = DefaultBacklogSize
	}

	return &Backlog{ring: make([][]byte, size)}
}

// Write stores a copy of p as one entry, evicting the oldest entry if needed.
func (b *Backlog) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.len == len(b.ring) {
		b.dropped++
	} else {
		b.len++
	}

	b.ring[b.next] = append([]byte(nil), p...)
	b.next = (b.next + 1) % len(b.ring)

	return len(p), nil
}

// Entries returns copies of the stored entries, oldest first.
func (b *Backlog) Entries() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.entries()
}

// Len returns the number of stored entries.
func (b *Backlog) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.len
}

// Dropped returns the number of entries evicted since the last flush.
func (b *Backlog) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dropped
}

// Flush writes the stored entries to w, oldest first, and empties the
// backlog. If entries were evicted, a line noting how many precedes them.
func (b *Backlog) Flush(w io.Writer) error {
	b.mu.Lock()
	entries, dropped := b.entries(), b.dropped
	b.reset()
	b.mu.Unlock()

	if dropped > 0 {
		if _, err := fmt.Fprintf(w, "... %d earlier log entries dropped\n", dropped); err != nil {
			return fmt.Errorf("flush logs: %w", err)
		}
	}

	for _, e := range entries {
		if _, err := w.Write(e); err != nil {
			return fmt.Errorf("flush logs: %w", err)
		}
	}

	return nil
}

func (b *Backlog) entries() [][]byte {
	if b.len == 0 {
		return nil
	}

	out := make([][]byte, 0, b.len)
	start := (b.next - b.len + len(b.ring)) % len(b.ring)

	for i := range b.len {
		e := b.ring[(start+i)%len(b.ring)]
		out = append(out, append([]byte(nil), e...))
	}

	return out
}

func (b *Backlog) reset() {
	clear(b.ring)
	b.next = 0
	b.len = 0
	b.dropped = 0
}
