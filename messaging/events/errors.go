package events

import "errors"

var (
	// ErrStoreClosed is returned by a store after Close.
	ErrStoreClosed = errors.New("events: store is closed")

	// ErrWaiterCancelled is returned by Wait when the waiter was cancelled before a matching event arrived.
	ErrWaiterCancelled = errors.New("events: waiter cancelled")
)
