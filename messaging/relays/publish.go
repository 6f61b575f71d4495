package relays

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"

	"daoshares/engine/library"
	"daoshares/messaging/events"
)

// PublishFunc sends one event to one relay.
type PublishFunc func(ctx context.Context, url string, e nostr.Event) error

// PublishToRelay connects to url and publishes e.
func PublishToRelay(ctx context.Context, url string, e nostr.Event) error {
	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return fmt.Errorf("could not connect to relay %s: %w", url, err)
	}
	defer relay.Close()
	if _, err = relay.Publish(ctx, e); err != nil {
		return fmt.Errorf("could not publish %s to relay %s: %w", e.ID, url, err)
	}
	return nil
}

// Publisher forwards every matching event emitted into a log to a set of relays, in emit order.
type Publisher struct {
	relays  []string
	publish PublishFunc
	timeout time.Duration
	stack   *library.Stack
	mutex   *deadlock.Mutex
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
	cancel  func()
}

// StartPublisher registers a listener on l. Stop it (or close terminate) to flush and shut down.
// A nil publish uses PublishToRelay.
func StartPublisher(l *events.Log, filter nostr.Filter, relays []string, publish PublishFunc, terminate <-chan struct{}) *Publisher {
	if publish == nil {
		publish = PublishToRelay
	}
	p := &Publisher{
		relays:  relays,
		publish: publish,
		timeout: 10 * time.Second,
		stack:   library.NewEventStack(8),
		mutex:   &deadlock.Mutex{},
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	p.cancel = l.On(filter, p.enqueue)
	go p.run(terminate)
	return p
}

// enqueue runs inside Log.Emit so it only queues.
func (p *Publisher) enqueue(r events.Record) {
	e := r.Event
	p.mutex.Lock()
	p.stack.Push(&e)
	p.mutex.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Publisher) run(terminate <-chan struct{}) {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.flush()
		case <-p.stop:
			p.flush()
			return
		case <-terminate:
			p.cancel()
			p.flush()
			return
		}
	}
}

func (p *Publisher) flush() {
	for {
		p.mutex.Lock()
		e, ok := p.stack.Pop()
		p.mutex.Unlock()
		if !ok {
			return
		}
		for _, url := range p.relays {
			ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
			if err := p.publish(ctx, url, *e); err != nil {
				library.LogCLI(err.Error(), 2)
			} else {
				library.LogCLI(fmt.Sprintf("published %s to %s", e.ID, url), 3)
			}
			cancel()
		}
	}
}

// Stop deregisters the listener, publishes whatever is queued and waits for the worker to exit.
func (p *Publisher) Stop() {
	p.cancel()
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.stop <- struct{}{}:
	case <-p.done:
	}
	<-p.done
}
