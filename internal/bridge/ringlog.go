package bridge

import (
	"sync"
	"time"
)

// DebugLogCap bounds the in-memory debug log. Oldest entries are evicted
// first once full.
const DebugLogCap = 20

// DebugEntry is one timestamped diagnostic line. Purely diagnostic; nothing
// reads it back except the debug overlay.
type DebugEntry struct {
	Time time.Time
	Text string
}

// DebugLog is a fixed-size circular buffer of DebugEntry. Goroutine-safe:
// the relay pushes from the frame event pump while the overlay snapshots
// from the render loop.
type DebugLog struct {
	mu    sync.Mutex
	buf   []DebugEntry
	head  int // next write position
	count int // valid entries (0..cap)
	now   func() time.Time
}

// NewDebugLog creates an empty log with capacity DebugLogCap.
func NewDebugLog() *DebugLog {
	return &DebugLog{
		buf: make([]DebugEntry, DebugLogCap),
		now: time.Now,
	}
}

// Push appends a line, evicting the oldest entry when full.
func (l *DebugLog) Push(text string) {
	l.mu.Lock()
	l.buf[l.head] = DebugEntry{Time: l.now(), Text: text}
	l.head = (l.head + 1) % len(l.buf)
	if l.count < len(l.buf) {
		l.count++
	}
	l.mu.Unlock()
}

// Snapshot returns all entries in chronological order, oldest first. The
// returned slice is a copy, safe to use without locks.
func (l *DebugLog) Snapshot() []DebugEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count == 0 {
		return nil
	}
	out := make([]DebugEntry, l.count)
	if l.count < len(l.buf) {
		copy(out, l.buf[:l.count])
	} else {
		n := copy(out, l.buf[l.head:])
		copy(out[n:], l.buf[:l.head])
	}
	return out
}

// Len returns the number of buffered entries.
func (l *DebugLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Clear empties the log. Called on re-initialize.
func (l *DebugLog) Clear() {
	l.mu.Lock()
	l.head = 0
	l.count = 0
	l.mu.Unlock()
}
