package session

import "sync"

// Listener is notified after the session envelope changed. It carries no
// payload; listeners re-read what they need.
type Listener func()

// Broadcaster is the "storage changed" channel of one session. Publish calls
// every listener synchronously, in subscription order, once per call.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    int
	listeners []subscription
}

type subscription struct {
	id       int
	listener Listener
}

// NewBroadcaster creates a broadcaster with no listeners
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a listener and returns the function that removes it
func (b *Broadcaster) Subscribe(listener Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners = append(b.listeners, subscription{id: id, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// Publish notifies every currently registered listener
func (b *Broadcaster) Publish() {
	b.mu.Lock()
	snapshot := make([]Listener, len(b.listeners))
	for i, sub := range b.listeners {
		snapshot[i] = sub.listener
	}
	b.mu.Unlock()

	for _, listener := range snapshot {
		listener()
	}
}

// Len returns the number of registered listeners
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

func (b *Broadcaster) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.listeners {
		if sub.id == id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}
