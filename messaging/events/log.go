package events

import (
	"fmt"
	"sort"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"

	"daoshares/engine/library"
)

type listener struct {
	filter nostr.Filter
	fn     func(Record)
}

// Log is an ordered event log with single-shot waiters and persistent listeners.
// Emits are serialised; queries read the store directly and never block on an emit.
type Log struct {
	store     Store
	mutex     *deadlock.Mutex
	nextID    uint64
	waiters   map[uint64]*Waiter
	listeners map[uint64]listener
}

func NewLog(store Store) *Log {
	return &Log{
		store:     store,
		mutex:     &deadlock.Mutex{},
		waiters:   make(map[uint64]*Waiter),
		listeners: make(map[uint64]listener),
	}
}

// Emit appends e and delivers it to every matching waiter and listener before returning.
// Nothing is delivered if the append fails.
func (l *Log) Emit(e nostr.Event) (Record, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	seq, err := l.store.Append(e)
	if err != nil {
		return Record{}, err
	}
	r := Record{Seq: seq, Event: e}
	for _, id := range sortedKeys(l.waiters) {
		w := l.waiters[id]
		if w.filter.Matches(&e) {
			delete(l.waiters, id)
			w.resolve(r)
		}
	}
	// listeners run under the log's lock and must not call back into it
	for _, id := range sortedKeys(l.listeners) {
		li := l.listeners[id]
		if li.filter.Matches(&e) {
			li.fn(r)
		}
	}
	library.LogCLI(fmt.Sprintf("emitted event %s kind %d at %d", e.ID, e.Kind, seq), 5)
	return r, nil
}

// Once registers a waiter that resolves with the next matching event. Events emitted before
// Once returns are never delivered to it, so register before triggering the action.
func (l *Log) Once(filter nostr.Filter) *Waiter {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.nextID++
	w := newWaiter(l, l.nextID, filter)
	l.waiters[w.id] = w
	return w
}

// On registers fn for every matching event until the returned cancel func is called.
func (l *Log) On(filter nostr.Filter, fn func(Record)) (cancel func()) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.nextID++
	id := l.nextID
	l.listeners[id] = listener{filter: filter, fn: fn}
	return func() {
		l.mutex.Lock()
		defer l.mutex.Unlock()
		delete(l.listeners, id)
	}
}

// Query returns matching records from fromOffset to the newest, oldest first.
// A negative fromOffset counts back from the end of the log, so -10 covers the last ten records.
func (l *Log) Query(filter nostr.Filter, fromOffset int64) ([]Record, error) {
	n, err := l.store.Len()
	if err != nil {
		return nil, err
	}
	start := resolveOffset(fromOffset, n)
	var result []Record
	err = l.store.Range(start, func(r Record) bool {
		if r.Seq >= n {
			// only what existed when the query started
			return false
		}
		if filter.Matches(&r.Event) {
			result = append(result, r)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Len is the number of records in the log.
func (l *Log) Len() (uint64, error) {
	return l.store.Len()
}

// Pending is the number of waiters that have not resolved or been cancelled.
func (l *Log) Pending() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.waiters)
}

func (l *Log) Close() error {
	l.mutex.Lock()
	waiters := l.waiters
	l.waiters = make(map[uint64]*Waiter)
	l.mutex.Unlock()
	for _, w := range waiters {
		w.cancelled()
	}
	return l.store.Close()
}

func (l *Log) remove(id uint64) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if _, ok := l.waiters[id]; !ok {
		return false
	}
	delete(l.waiters, id)
	return true
}

func resolveOffset(from int64, n uint64) uint64 {
	if from >= 0 {
		return uint64(from)
	}
	back := uint64(-from)
	if back >= n {
		return 0
	}
	return n - back
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
