package relays

import (
	"context"
	"sort"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"

	"daoshares/engine/library"
)

// Fetch collects stored events matching filter from every relay, oldest first, deduplicated by ID.
// Each relay gets until ctx is done or it signals end of stored events.
func Fetch(ctx context.Context, urls []string, filter nostr.Filter) []nostr.Event {
	events := make(map[string]nostr.Event)
	eventsMu := &deadlock.Mutex{}
	wait := &deadlock.WaitGroup{}
	for _, url := range urls {
		wait.Add(1)
		go func(url string) {
			defer wait.Done()
			relay, err := nostr.RelayConnect(ctx, url)
			if err != nil {
				library.LogCLI(err.Error(), 2)
				return
			}
			defer relay.Close()
			ctxsub, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			sub, err := relay.Subscribe(ctxsub, nostr.Filters{filter})
			if err != nil {
				library.LogCLI(err.Error(), 2)
				return
			}
			defer sub.Unsub()
			for {
				select {
				case ev := <-sub.Events:
					if ev == nil {
						return
					}
					eventsMu.Lock()
					events[ev.ID] = *ev
					eventsMu.Unlock()
				case <-sub.EndOfStoredEvents:
					return
				case <-ctxsub.Done():
					return
				}
			}
		}(url)
	}
	wait.Wait()
	var el []nostr.Event
	for _, e := range events {
		el = append(el, e)
	}
	sort.Slice(el, func(i, j int) bool {
		if el[i].CreatedAt == el[j].CreatedAt {
			return el[i].ID < el[j].ID
		}
		return el[i].CreatedAt < el[j].CreatedAt
	})
	return el
}
