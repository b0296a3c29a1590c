// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"sync"
	"time"
)

// Family names a record family.
type Family string

// Record families.
const (
	FamilyPreferences Family = "preferences"
	FamilyHistory     Family = "history"
	FamilyFavorites   Family = "favorites"
	FamilyBookmarks   Family = "bookmarks"
)

// Op names the kind of write that happened.
type Op string

// Write operations.
const (
	OpUpsert  Op = "upsert"
	OpRemove  Op = "remove"
	OpClear   Op = "clear"
	OpReplace Op = "replace"
)

// Event is published after every successful write.
type Event struct {
	Family Family    `json:"family"`
	Op     Op        `json:"op"`
	At     time.Time `json:"at"`
}

// Broker fans events out to subscribers.
//
// Publish never blocks: a subscriber whose buffer is full misses the event and
// is expected to re-read the family it cares about.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	closed bool
}

// NewBroker returns a broker with no subscribers.
func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]chan Event)}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// function unsubscribes and closes the channel; calling it twice is safe.
func (broker *Broker) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}

	events := make(chan Event, buffer)

	broker.mu.Lock()
	if broker.closed {
		broker.mu.Unlock()
		close(events)
		return events, func() {}
	}
	id := broker.nextID
	broker.nextID++
	broker.subs[id] = events
	broker.mu.Unlock()

	var once sync.Once
	return events, func() {
		once.Do(func() {
			broker.mu.Lock()
			defer broker.mu.Unlock()
			if ch, found := broker.subs[id]; found {
				delete(broker.subs, id)
				close(ch)
			}
		})
	}
}

// Publish delivers event to every subscriber with room in its buffer.
func (broker *Broker) Publish(event Event) {
	broker.mu.RLock()
	defer broker.mu.RUnlock()

	for _, ch := range broker.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers reports the current subscriber count.
func (broker *Broker) Subscribers() int {
	broker.mu.RLock()
	defer broker.mu.RUnlock()
	return len(broker.subs)
}

// Close closes every subscriber channel. Later subscriptions get a closed channel.
func (broker *Broker) Close() {
	broker.mu.Lock()
	defer broker.mu.Unlock()

	if broker.closed {
		return
	}
	broker.closed = true
	for id, ch := range broker.subs {
		delete(broker.subs, id)
		close(ch)
	}
}
