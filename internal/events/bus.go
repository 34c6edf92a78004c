// Package events fans out change notifications to any number of listeners.
// Publishing never blocks: a listener that cannot keep up misses events.
package events

import (
	"sync"
	"time"
)

// Event types.
const (
	BookmarkSaved     = "bookmarkSaved"
	BookmarkUpdated   = "bookmarkUpdated"
	BookmarkRemoved   = "bookmarkRemoved"
	BookmarksCleared  = "bookmarksCleared"
	BookmarksImported = "bookmarksImported"
)

// Event is a change notification.
type Event struct {
	Type       string   `json:"type"`
	BookmarkID string   `json:"bookmarkId,omitempty"`
	URL        string   `json:"url,omitempty"`
	Progress   *float64 `json:"progress,omitempty"`
	At         int64    `json:"at"`
}

// Bus is an in-process publish/subscribe hub.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	buffer int
}

// NewBus creates a bus whose subscribers buffer up to buffer events
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 16
	}
	return &Bus{
		subs:   make(map[int]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers a listener. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers e to every listener with room in its buffer and returns
// how many received it. Zero listeners is not an error.
func (b *Bus) Publish(e Event) int {
	if e.At == 0 {
		e.At = time.Now().UnixMilli()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- e:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of registered listeners
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}
