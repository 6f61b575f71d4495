package events

import (
	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
)

// Store is an append-only, ordered record of emitted events. Sequence numbers start at 0
// and follow insertion order.
type Store interface {
	Append(e nostr.Event) (uint64, error)
	// Range calls fn for every record with a sequence number >= from, oldest first, until fn returns false.
	Range(from uint64, fn func(Record) bool) error
	Len() (uint64, error)
	Close() error
}

// Record is an event together with its position in the log.
type Record struct {
	Seq   uint64
	Event nostr.Event
}

// MemoryStore keeps the log in memory. Its history is lost when the process exits.
type MemoryStore struct {
	data   []nostr.Event
	closed bool
	mutex  *deadlock.RWMutex
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mutex: &deadlock.RWMutex{}}
}

func (s *MemoryStore) Append(e nostr.Event) (uint64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	s.data = append(s.data, e)
	return uint64(len(s.data) - 1), nil
}

func (s *MemoryStore) Range(from uint64, fn func(Record) bool) error {
	s.mutex.RLock()
	if s.closed {
		s.mutex.RUnlock()
		return ErrStoreClosed
	}
	// the slice is only ever appended to, so a snapshot of the header is stable
	data := s.data
	s.mutex.RUnlock()
	for i := from; i < uint64(len(data)); i++ {
		if !fn(Record{Seq: i, Event: data[i]}) {
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Len() (uint64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	return uint64(len(s.data)), nil
}

func (s *MemoryStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	return nil
}
