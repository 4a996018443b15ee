package preview

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Severity is the display class of a console entry. It does not affect
// ordering or retention.
type Severity string

const (
	SeverityAction Severity = "action"
	SeverityError  Severity = "error"
	SeverityInfo   Severity = "info"
)

// Entry is one console line.
type Entry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  Severity    `json:"severity"`
	Channel   Channel     `json:"channel,omitempty"`
	Data      interface{} `json:"data"`
}

// Log is the ordered, append-only console. Entries are only removed all at
// once by Clear. Log is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	unread  int
	now     func() time.Time
	entropy io.Reader
}

// NewLog creates an empty log. A nil clock selects time.Now.
func NewLog(clock func() time.Time) *Log {
	if clock == nil {
		clock = time.Now
	}
	return &Log{
		now:     clock,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Append records data with the receipt time and returns the new entry.
func (l *Log) Append(sev Severity, ch Channel, data interface{}) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now()
	e := Entry{
		ID:        ulid.MustNew(ulid.Timestamp(ts), l.entropy).String(),
		Timestamp: ts,
		Severity:  sev,
		Channel:   ch,
		Data:      data,
	}
	l.entries = append(l.entries, e)
	l.unread++
	return e
}

// Entries returns a copy of the log in arrival order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear drops every entry and resets the unread counter.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.unread = 0
}

// Unread returns the number of entries appended since the last MarkRead.
func (l *Log) Unread() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unread
}

// MarkRead resets the unread counter, as when the console is viewed.
func (l *Log) MarkRead() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unread = 0
}
