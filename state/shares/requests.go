package shares

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"daoshares/engine/library"
	"daoshares/messaging/events"
)

// CreateRequest records that requester asks for amount more shares. The RequestShares record is
// appended and delivered to every waiter registered before this call, before it returns.
// Balances are not touched.
func (r *Registry) CreateRequest(requester library.Account, amount uint64) (events.Record, error) {
	if amount == 0 {
		return events.Record{}, fmt.Errorf("%w: must request at least one share", ErrInvalidAmount)
	}
	if !library.IsAccount(requester) {
		return events.Record{}, fmt.Errorf("%w: requester %q", ErrInvalidAccount, requester)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	e, err := r.requestEvent(requester, amount)
	if err != nil {
		return events.Record{}, err
	}
	rec, err := r.log.Emit(e)
	if err != nil {
		return events.Record{}, fmt.Errorf("could not record request from %s for %d shares: %w", requester, amount, err)
	}
	library.LogCLI(fmt.Sprintf("%s requested %d shares from %s (event %s)", requester, amount, r.Address(), e.ID), 3)
	return rec, nil
}

func (r *Registry) requestEvent(requester library.Account, amount uint64) (nostr.Event, error) {
	content, err := json.Marshal(Request{Registry: r.Address(), Requester: requester, Amount: amount})
	if err != nil {
		return nostr.Event{}, err
	}
	e := nostr.Event{
		PubKey:    r.Address(),
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      KindRequestShares,
		Tags: nostr.Tags{
			nostr.Tag{"p", requester},
			nostr.Tag{"op", opRequest, strconv.FormatUint(amount, 10)},
		},
		Content: string(content),
	}
	e.ID = e.GetID()
	if err = e.Sign(r.wallet.PrivateKey); err != nil {
		return nostr.Event{}, fmt.Errorf("could not sign request event: %w", err)
	}
	return e, nil
}

// Filter returns the filter matching records of the named event from this registry.
func (r *Registry) Filter(name string) (nostr.Filter, error) {
	switch name {
	case EventRequestShares:
		return nostr.Filter{Kinds: []int{KindRequestShares}, Authors: []string{r.Address()}}, nil
	default:
		return nostr.Filter{}, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
}

// Once returns a waiter for the next occurrence of the named event. Register it before triggering the action.
func (r *Registry) Once(name string) (*events.Waiter, error) {
	f, err := r.Filter(name)
	if err != nil {
		return nil, err
	}
	return r.log.Once(f), nil
}

// WaitFor blocks until the next occurrence of the named event, or ctx is done.
func (r *Registry) WaitFor(ctx context.Context, name string) (events.Record, error) {
	w, err := r.Once(name)
	if err != nil {
		return events.Record{}, err
	}
	return w.Wait(ctx)
}

// QueryEvents returns records of the named event from fromOffset to the newest, oldest first.
// A negative offset counts back from the newest record in the log.
func (r *Registry) QueryEvents(name string, fromOffset int64) ([]events.Record, error) {
	f, err := r.Filter(name)
	if err != nil {
		return nil, err
	}
	return r.log.Query(f, fromOffset)
}

// QueryRequests is QueryEvents for RequestShares, decoded.
func (r *Registry) QueryRequests(fromOffset int64) ([]Request, error) {
	records, err := r.QueryEvents(EventRequestShares, fromOffset)
	if err != nil {
		return nil, err
	}
	requests := make([]Request, 0, len(records))
	for _, rec := range records {
		req, err := DecodeRequest(rec.Event)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// DecodeRequest validates a RequestShares record and returns its payload.
func DecodeRequest(e nostr.Event) (Request, error) {
	if e.Kind != KindRequestShares {
		return Request{}, fmt.Errorf("%w: event %s has kind %d", ErrInvalidRecord, e.ID, e.Kind)
	}
	if ok, _ := e.CheckSignature(); !ok {
		return Request{}, fmt.Errorf("%w: event %s has an invalid signature", ErrInvalidRecord, e.ID)
	}
	var req Request
	if err := json.Unmarshal([]byte(e.Content), &req); err != nil {
		return Request{}, fmt.Errorf("%w: %s reported for event %s", ErrInvalidRecord, err.Error(), e.ID)
	}
	if req.Registry != e.PubKey {
		return Request{}, fmt.Errorf("%w: event %s was signed by %s but names registry %s", ErrInvalidRecord, e.ID, e.PubKey, req.Registry)
	}
	if requester, ok := library.GetFirstTag(e, "p"); !ok || requester != req.Requester {
		return Request{}, fmt.Errorf("%w: event %s requester tag does not match content", ErrInvalidRecord, e.ID)
	}
	if amount, ok := library.GetOpData(e); !ok || amount != strconv.FormatUint(req.Amount, 10) {
		return Request{}, fmt.Errorf("%w: event %s amount tag does not match content", ErrInvalidRecord, e.ID)
	}
	if req.Amount == 0 {
		return Request{}, fmt.Errorf("%w: event %s requests zero shares", ErrInvalidRecord, e.ID)
	}
	return req, nil
}

// ParseAmount parses a requested amount typed by a user. Anything that is not a positive integer is ErrInvalidAmount.
func ParseAmount(s string) (uint64, error) {
	n, err := parseUnsigned(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, err.Error())
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: must request at least one share", ErrInvalidAmount)
	}
	return n, nil
}

// ParseSupply parses the two constructor arguments. Negative or malformed arguments are ErrInvalidSupply.
func ParseSupply(totalSupply, deployerShares string) (total uint64, deployer uint64, err error) {
	if total, err = parseUnsigned(totalSupply); err != nil {
		return 0, 0, fmt.Errorf("%w: total supply %s", ErrInvalidSupply, err.Error())
	}
	if deployer, err = parseUnsigned(deployerShares); err != nil {
		return 0, 0, fmt.Errorf("%w: deployer shares %s", ErrInvalidSupply, err.Error())
	}
	if deployer > total {
		return 0, 0, fmt.Errorf("%w: deployer shares %d exceed total supply %d", ErrInvalidSupply, deployer, total)
	}
	return total, deployer, nil
}

func parseUnsigned(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%q is negative", s)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an unsigned integer", s)
	}
	return n, nil
}
