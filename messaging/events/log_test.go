package events

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// glog, pulled in through go-nostr, starts its flush daemon in init
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/golang/glog.(*loggingT).flushDaemon"))
}

func makeEvent(kind int, content string) nostr.Event {
	return nostr.Event{
		ID:        content + "-" + strconv.Itoa(kind),
		PubKey:    "aa",
		CreatedAt: nostr.Timestamp(1700000000),
		Kind:      kind,
		Content:   content,
	}
}

func kindFilter(kind int) nostr.Filter {
	return nostr.Filter{Kinds: []int{kind}}
}

func stores(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"bolt": func() Store {
			s, err := OpenBoltStore(filepath.Join(t.TempDir(), "events.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestOnceResolvesWithNextMatchingEvent(t *testing.T) {
	for name, mk := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l := NewLog(mk())
			defer l.Close()

			w := l.Once(kindFilter(2))
			_, err := l.Emit(makeEvent(1, "ignored"))
			require.NoError(t, err)
			_, err = l.Emit(makeEvent(2, "first"))
			require.NoError(t, err)
			_, err = l.Emit(makeEvent(2, "second"))
			require.NoError(t, err)

			r, err := w.Wait(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "first", r.Event.Content)
			assert.Equal(t, uint64(1), r.Seq)
			assert.Equal(t, 0, l.Pending())
		})
	}
}

func TestOnceMissesEventsEmittedBeforeRegistration(t *testing.T) {
	l := NewLog(NewMemoryStore())
	defer l.Close()

	_, err := l.Emit(makeEvent(2, "early"))
	require.NoError(t, err)
	w := l.Once(kindFilter(2))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = w.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWaiterCancelled))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 0, l.Pending())
}

func TestWaiterCancel(t *testing.T) {
	l := NewLog(NewMemoryStore())
	defer l.Close()

	w := l.Once(kindFilter(2))
	assert.True(t, w.Cancel())
	assert.False(t, w.Cancel())

	_, err := l.Emit(makeEvent(2, "after cancel"))
	require.NoError(t, err)

	_, err = w.Wait(context.Background())
	assert.ErrorIs(t, err, ErrWaiterCancelled)
}

func TestCancelAfterResolveKeepsRecord(t *testing.T) {
	l := NewLog(NewMemoryStore())
	defer l.Close()

	w := l.Once(kindFilter(2))
	_, err := l.Emit(makeEvent(2, "resolved"))
	require.NoError(t, err)
	assert.False(t, w.Cancel())

	r, err := w.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "resolved", r.Event.Content)
}

func TestWaitUnblocksFromAnotherGoroutine(t *testing.T) {
	l := NewLog(NewMemoryStore())
	defer l.Close()

	w := l.Once(kindFilter(2))
	var wg sync.WaitGroup
	wg.Add(1)
	var got Record
	var waitErr error
	go func() {
		defer wg.Done()
		got, waitErr = w.Wait(context.Background())
	}()
	_, err := l.Emit(makeEvent(2, "async"))
	require.NoError(t, err)
	wg.Wait()
	require.NoError(t, waitErr)
	assert.Equal(t, "async", got.Event.Content)
}

func TestCloseCancelsPendingWaiters(t *testing.T) {
	l := NewLog(NewMemoryStore())
	w := l.Once(kindFilter(2))
	require.NoError(t, l.Close())

	_, err := w.Wait(context.Background())
	assert.ErrorIs(t, err, ErrWaiterCancelled)

	_, err = l.Emit(makeEvent(2, "closed"))
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestOnListenerUntilCancelled(t *testing.T) {
	l := NewLog(NewMemoryStore())
	defer l.Close()

	var seen []string
	cancel := l.On(kindFilter(2), func(r Record) {
		seen = append(seen, r.Event.Content)
	})
	_, err := l.Emit(makeEvent(2, "a"))
	require.NoError(t, err)
	_, err = l.Emit(makeEvent(3, "other kind"))
	require.NoError(t, err)
	_, err = l.Emit(makeEvent(2, "b"))
	require.NoError(t, err)
	cancel()
	_, err = l.Emit(makeEvent(2, "c"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestQueryOffsets(t *testing.T) {
	for name, mk := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l := NewLog(mk())
			defer l.Close()
			for i := 0; i < 5; i++ {
				_, err := l.Emit(makeEvent(2, strconv.Itoa(i)))
				require.NoError(t, err)
			}
			_, err := l.Emit(makeEvent(3, "x"))
			require.NoError(t, err)

			tests := []struct {
				name string
				from int64
				want []string
			}{
				{"everything", -10000, []string{"0", "1", "2", "3", "4"}},
				{"from start", 0, []string{"0", "1", "2", "3", "4"}},
				{"last three records", -3, []string{"3", "4"}},
				{"absolute offset", 2, []string{"2", "3", "4"}},
				{"past the end", 100, nil},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					records, err := l.Query(kindFilter(2), tt.from)
					require.NoError(t, err)
					var got []string
					for _, r := range records {
						got = append(got, r.Event.Content)
					}
					assert.Equal(t, tt.want, got)
				})
			}

			first, err := l.Query(kindFilter(2), -10000)
			require.NoError(t, err)
			second, err := l.Query(kindFilter(2), -10000)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := OpenBoltStore(path)
	require.NoError(t, err)
	l := NewLog(s)
	_, err = l.Emit(makeEvent(2, "persisted"))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	s, err = OpenBoltStore(path)
	require.NoError(t, err)
	l = NewLog(s)
	defer l.Close()
	n, err := l.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	r, err := l.Emit(makeEvent(2, "appended"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.Seq)

	records, err := l.Query(kindFilter(2), 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "persisted", records[0].Event.Content)
	assert.Equal(t, "appended", records[1].Event.Content)
}

func TestQueryDuringEmitSeesOrderedPrefix(t *testing.T) {
	for name, mk := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l := NewLog(mk())
			defer l.Close()
			const total = 200

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < total; i++ {
					if _, err := l.Emit(makeEvent(2, strconv.Itoa(i))); err != nil {
						t.Errorf("emit %d: %s", i, err)
						return
					}
				}
			}()

			errs := make(chan error, 4)
			for reader := 0; reader < 4; reader++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					seen := 0
					for seen < total {
						records, err := l.Query(kindFilter(2), 0)
						if err != nil {
							errs <- err
							return
						}
						if len(records) < seen {
							errs <- fmt.Errorf("history shrank from %d to %d records", seen, len(records))
							return
						}
						for i, r := range records {
							if r.Seq != uint64(i) || r.Event.Content != strconv.Itoa(i) {
								errs <- fmt.Errorf("record %d is seq %d content %q", i, r.Seq, r.Event.Content)
								return
							}
						}
						seen = len(records)
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				assert.NoError(t, err)
			}

			records, err := l.Query(kindFilter(2), -10000)
			require.NoError(t, err)
			assert.Len(t, records, total)
		})
	}
}
