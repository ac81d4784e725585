// Package notifications keeps the console's in-memory notification bell:
// a bounded, newest-first feed of realtime events with an unread counter.
package notifications

import (
	"sync"
	"time"
)

// Notification is one entry in the bell feed.
type Notification struct {
	Message    string
	ReceivedAt time.Time
	Read       bool
}

// Feed is a bounded newest-first notification list. The zero value is not
// usable; construct with NewFeed.
type Feed struct {
	mu      sync.Mutex
	entries []Notification
	limit   int
	unread  int
	now     func() time.Time
}

const defaultLimit = 50

// NewFeed creates a feed that keeps at most limit entries, evicting the
// oldest when full.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Feed{limit: limit, now: time.Now}
}

// Add prepends a notification and marks it unread. When the feed is full the
// oldest entry is dropped.
func (f *Feed) Add(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry := Notification{Message: message, ReceivedAt: f.now()}
	f.entries = append([]Notification{entry}, f.entries...)
	if len(f.entries) > f.limit {
		dropped := f.entries[f.limit:]
		for _, d := range dropped {
			if !d.Read {
				f.unread--
			}
		}
		f.entries = f.entries[:f.limit]
	}
	f.unread++
}

// Recent returns up to n notifications, newest first. n <= 0 returns all.
func (f *Feed) Recent(n int) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n <= 0 || n > len(f.entries) {
		n = len(f.entries)
	}
	out := make([]Notification, n)
	copy(out, f.entries[:n])
	return out
}

// UnreadCount reports how many notifications arrived since the last
// MarkAllRead.
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// MarkAllRead clears the unread counter and flags every entry read.
func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		f.entries[i].Read = true
	}
	f.unread = 0
}

// Len reports the current number of entries.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
