package changelog

import (
	"sync"
	"time"
)

// Entry is one recorded mutation summary.
type Entry struct {
	Time         time.Time `json:"time"`
	Action       string    `json:"action"`
	ResourceKind string    `json:"resourceKind"`
	Details      string    `json:"details"`
}

// Log is a bounded, in-process buffer of the most recent mutations.
// It exists only for the dashboard widget: recording is best-effort and
// the buffer is lost on restart. Oldest entries are evicted once the
// capacity is reached.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	cap     int
}

// DefaultCapacity is used when the configured capacity is missing or invalid.
const DefaultCapacity = 50

// New creates a log holding at most capacity entries.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{cap: capacity}
}

// Record appends a mutation summary, evicting the oldest entry when full.
func (l *Log) Record(action, resourceKind, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Time:         time.Now(),
		Action:       action,
		ResourceKind: resourceKind,
		Details:      details,
	})
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
}

// Entries returns a copy of the buffer, most recent first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}
