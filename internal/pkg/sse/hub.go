package sse

import (
	"sync"
)

// Event is one message for the subscribers of a user
type Event[T any] struct {
	UserID string
	Event  string
	Data   T
}

// Hub fans events out to every open stream of a user. Slow subscribers drop
// events instead of blocking publishers.
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event[T]]struct{}
	buffer      int
}

func NewHub[T any](buffer int) *Hub[T] {
	if buffer <= 0 {
		buffer = 10
	}
	return &Hub[T]{
		subscribers: make(map[string]map[chan Event[T]]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registers a stream for userID. The returned cleanup closes the
// channel and may be called more than once.
func (h *Hub[T]) Subscribe(userID string) (<-chan Event[T], func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event[T], h.buffer)
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Event[T]]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[userID], ch)
			close(ch)
			if len(h.subscribers[userID]) == 0 {
				delete(h.subscribers, userID)
			}
		})
	}
	return ch, cleanup
}

// Publish delivers to all streams of userID and returns how many accepted it
func (h *Hub[T]) Publish(userID string, event Event[T]) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.UserID = userID
	delivered := 0
	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub[T]) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

func (h *Hub[T]) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
