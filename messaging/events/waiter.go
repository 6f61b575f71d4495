package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/nbd-wtf/go-nostr"
)

// Waiter is a single-shot subscription created by Log.Once.
type Waiter struct {
	id     uint64
	filter nostr.Filter
	log    *Log
	ch     chan Record
	done   chan struct{}
	once   sync.Once
}

func newWaiter(l *Log, id uint64, filter nostr.Filter) *Waiter {
	return &Waiter{
		id:     id,
		filter: filter,
		log:    l,
		ch:     make(chan Record, 1),
		done:   make(chan struct{}),
	}
}

// resolve is called at most once, by Emit, after the waiter has been removed from the log.
func (w *Waiter) resolve(r Record) {
	w.ch <- r
}

func (w *Waiter) cancelled() {
	w.once.Do(func() { close(w.done) })
}

// Wait blocks until a matching record is emitted, the waiter is cancelled or ctx is done.
func (w *Waiter) Wait(ctx context.Context) (Record, error) {
	select {
	case r := <-w.ch:
		return r, nil
	case <-w.done:
		return w.drain(ErrWaiterCancelled)
	case <-ctx.Done():
		if w.Cancel() {
			return Record{}, fmt.Errorf("%w: %w", ErrWaiterCancelled, ctx.Err())
		}
		return w.drain(fmt.Errorf("%w: %w", ErrWaiterCancelled, ctx.Err()))
	}
}

// drain prefers a record that raced with cancellation.
func (w *Waiter) drain(err error) (Record, error) {
	select {
	case r := <-w.ch:
		return r, nil
	default:
		return Record{}, err
	}
}

// Cancel deregisters the waiter. It returns false if the waiter had already resolved or been cancelled.
func (w *Waiter) Cancel() bool {
	if !w.log.remove(w.id) {
		return false
	}
	w.cancelled()
	return true
}
