// Package activity keeps the bounded, newest-first record of console events.
package activity

import (
	"time"

	"github.com/google/uuid"

	"irconsole"
)

// DefaultCapacity bounds the log; inserting past it evicts the oldest entry.
const DefaultCapacity = 50

// Entry is one recorded event.
type Entry struct {
	ID       string
	At       time.Time
	Text     string
	Category irconsole.LogCategory
}

// Timestamp renders the entry time as HH:MM:SS local.
func (e Entry) Timestamp() string {
	return e.At.Format("15:04:05")
}

// Log is a prepend-only, capacity-bounded event record. Append never fails;
// eviction of the tail is silent. Not safe for concurrent use: the UI event
// loop is its only caller.
type Log struct {
	entries []Entry
	max     int
	now     func() time.Time
}

// New returns an empty log with the default capacity of 50.
func New() *Log {
	return &Log{max: DefaultCapacity, now: time.Now}
}

// NewWithCapacity returns an empty log holding at most max entries.
func NewWithCapacity(max int) *Log {
	if max < 1 {
		max = DefaultCapacity
	}
	return &Log{max: max, now: time.Now}
}

// Append prepends an entry, evicting the oldest once capacity is exceeded.
func (l *Log) Append(text string, category irconsole.LogCategory) {
	e := Entry{
		ID:       uuid.NewString(),
		At:       l.now(),
		Text:     text,
		Category: category,
	}
	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
}

// Entries returns the recorded events, newest first.
func (l *Log) Entries() []Entry {
	return l.entries
}

// Len reports the number of recorded events.
func (l *Log) Len() int {
	return len(l.entries)
}
