// Package live turns store commits into refreshed query results.
//
// Writers call Feed.Publish after every successful commit. Readers hold a
// Watch whose load function is re-run whenever the feed publishes, so a
// view bound to it always reflects the latest committed state.
package live

import (
	"sync"
)

// Feed is an observer list notified after each commit.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func())}
}

// Subscribe registers fn and returns a function that removes it.
func (f *Feed) Subscribe(fn func()) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		delete(f.subs, id)
	}
}

// Publish notifies every subscriber. Observers run outside the lock and
// must not block.
func (f *Feed) Publish() {
	f.mu.Lock()
	observers := make([]func(), 0, len(f.subs))

	for _, fn := range f.subs {
		observers = append(observers, fn)
	}
	f.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.subs)
}
