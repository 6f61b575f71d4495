package events

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nbd-wtf/go-nostr"
	"go.etcd.io/bbolt"
)

var bucketEvents = []byte("events")

// BoltStore persists the log in a bbolt database so history survives restarts.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("events: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("events: open bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEvents)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

func (s *BoltStore) Append(e nostr.Event) (seq uint64, err error) {
	data, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("events: encode event %s: %w", e.ID, err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEvents)
		next, err := b.NextSequence()
		if err != nil {
			return err
		}
		seq = next - 1
		return b.Put(seqKey(seq), data)
	})
	if err != nil {
		return 0, fmt.Errorf("events: append %s: %w", e.ID, err)
	}
	return seq, nil
}

func (s *BoltStore) Range(from uint64, fn func(Record) bool) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketEvents).Cursor()
		for k, v := c.Seek(seqKey(from)); k != nil; k, v = c.Next() {
			var e nostr.Event
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("events: decode record %d: %w", binary.BigEndian.Uint64(k), err)
			}
			if !fn(Record{Seq: binary.BigEndian.Uint64(k), Event: e}) {
				return nil
			}
		}
		return nil
	})
}

func (s *BoltStore) Len() (n uint64, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketEvents).Sequence()
		return nil
	})
	return
}

func (s *BoltStore) Close() error { return s.db.Close() }
