// Package waitlist queues requests issued while a network SDK is still initializing.
package waitlist

import "sync"

// Entry is one queued request.
type Entry[P any] struct {
	ID      string
	Payload P
}

// List holds entries in insertion order until the owning SDK finishes initializing.
// Entries leave the list exactly once, through Flush, Discard, Pop or Remove. It is safe for
// concurrent use.
type List[P any] struct {
	mu      sync.Mutex
	entries []Entry[P]
}

// Add queues payload under id.
func (l *List[P]) Add(id string, payload P) {
	l.mu.Lock()
	l.entries = append(l.entries, Entry[P]{ID: id, Payload: payload})
	l.mu.Unlock()
}

// Flush empties the list and calls fn for every entry in FIFO order. It returns the number of
// entries replayed. fn runs without the list's lock held, so it may Add new entries; those are
// kept for the next Flush.
func (l *List[P]) Flush(fn func(Entry[P])) int {
	taken := l.take()
	for _, e := range taken {
		fn(e)
	}
	return len(taken)
}

// Discard empties the list without replaying anything. fn, when non nil, observes each dropped
// entry so the caller can report it.
func (l *List[P]) Discard(fn func(Entry[P])) int {
	taken := l.take()
	if fn != nil {
		for _, e := range taken {
			fn(e)
		}
	}
	return len(taken)
}

// Remove drops every entry queued under id and reports how many were removed.
func (l *List[P]) Remove(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.entries[:0]
	removed := 0
	for _, e := range l.entries {
		if e.ID == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(l.entries); i++ {
		l.entries[i] = Entry[P]{}
	}
	l.entries = kept
	return removed
}

// Pop removes and returns the oldest entry. The second result is false when the list is empty.
func (l *List[P]) Pop() (Entry[P], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Entry[P]{}, false
	}
	e := l.entries[0]
	l.entries[0] = Entry[P]{}
	l.entries = l.entries[1:]
	return e, true
}

func (l *List[P]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *List[P]) take() []Entry[P] {
	l.mu.Lock()
	defer l.mu.Unlock()
	taken := l.entries
	l.entries = nil
	return taken
}
