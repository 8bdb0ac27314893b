package events

import (
	"sync"
)

// clientBuffer is how many pending messages a slow subscriber may queue
// before further messages to it are dropped.
const clientBuffer = 16

// Broadcaster fans cache-invalidation keys out to the SSE subscribers of
// each user.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[int]map[chan string]struct{}
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[int]map[chan string]struct{}),
	}
}

// Register adds a subscriber for userID and returns its channel.
func (b *Broadcaster) Register(userID int) chan string {
	ch := make(chan string, clientBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clients[userID] == nil {
		b.clients[userID] = make(map[chan string]struct{})
	}
	b.clients[userID][ch] = struct{}{}
	return ch
}

// Unregister removes and closes ch. Calling it twice is a no-op.
func (b *Broadcaster) Unregister(userID int, ch chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.clients[userID]
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(b.clients, userID)
	}
}

// Publish sends each key to every subscriber of userID. A subscriber whose
// buffer is full misses the message.
func (b *Broadcaster) Publish(userID int, keys ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients[userID] {
		for _, key := range keys {
			select {
			case ch <- key:
			default:
			}
		}
	}
}

// Subscribers returns how many streams userID has open.
func (b *Broadcaster) Subscribers(userID int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients[userID])
}

// Close disconnects every subscriber.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for userID, subs := range b.clients {
		for ch := range subs {
			close(ch)
		}
		delete(b.clients, userID)
	}
}
