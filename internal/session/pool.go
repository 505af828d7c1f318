package session

import (
	"sync"
	"time"
)

type poolEntry struct {
	controller *Controller
	lastUsed   time.Time
}

// Pool holds live sessions by key and closes the idle ones. Front-ends
// that serve many learners at once (HTTP API, Telegram bot) keep their
// sessions here.
type Pool[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*poolEntry
	now     func() time.Time
}

// NewPool creates an empty pool
func NewPool[K comparable]() *Pool[K] {
	return &Pool[K]{
		entries: make(map[K]*poolEntry),
		now:     time.Now,
	}
}

// Put adds c under key, closing any session it replaces
func (p *Pool[K]) Put(key K, c *Controller) {
	p.mu.Lock()
	old := p.entries[key]
	p.entries[key] = &poolEntry{controller: c, lastUsed: p.now()}
	p.mu.Unlock()

	if old != nil && old.controller != c {
		old.controller.Close()
	}
}

// Get looks up a session and marks it used
func (p *Pool[K]) Get(key K) (*Controller, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[key]
	if !ok {
		return nil, false
	}
	e.lastUsed = p.now()
	return e.controller, true
}

// GetOrCreate returns the session of key, calling create when there is none.
// The second result reports whether a session was created.
func (p *Pool[K]) GetOrCreate(key K, create func() *Controller) (*Controller, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.entries[key]; ok {
		e.lastUsed = p.now()
		return e.controller, false
	}
	c := create()
	p.entries[key] = &poolEntry{controller: c, lastUsed: p.now()}
	return c, true
}

// Delete closes and removes a session
func (p *Pool[K]) Delete(key K) bool {
	p.mu.Lock()
	e, ok := p.entries[key]
	delete(p.entries, key)
	p.mu.Unlock()

	if ok {
		e.controller.Close()
	}
	return ok
}

// Expire closes sessions idle for longer than ttl and returns how many
func (p *Pool[K]) Expire(ttl time.Duration) int {
	cutoff := p.now().Add(-ttl)

	p.mu.Lock()
	var expired []*Controller
	for key, e := range p.entries {
		if e.lastUsed.Before(cutoff) {
			expired = append(expired, e.controller)
			delete(p.entries, key)
		}
	}
	p.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	return len(expired)
}

// Len returns the number of live sessions
func (p *Pool[K]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// CloseAll closes and removes every session
func (p *Pool[K]) CloseAll() {
	p.mu.Lock()
	entries := p.entries
	p.entries = make(map[K]*poolEntry)
	p.mu.Unlock()

	for _, e := range entries {
		e.controller.Close()
	}
}
