package services

import (
	"sync"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
)

// notifier fans snapshots out to subscribers. Each subscriber owns a
// one-slot channel; an unread snapshot is replaced by the newer one.
type notifier struct {
	mu     sync.Mutex
	latest models.Snapshot
	subs   map[int]chan models.Snapshot
	nextID int
	closed bool
}

func newNotifier() *notifier {
	return &notifier{
		latest: models.NewSnapshot(0, nil),
		subs:   make(map[int]chan models.Snapshot),
	}
}

func (n *notifier) current() models.Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.latest
}

func (n *notifier) publish(s models.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.latest = s
	for _, ch := range n.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// subscribe registers a subscriber that immediately receives the current
// snapshot. The returned func unsubscribes and closes the channel.
func (n *notifier) subscribe() (<-chan models.Snapshot, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan models.Snapshot, 1)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++
	n.subs[id] = ch
	ch <- n.latest

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if c, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(c)
			}
		})
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
