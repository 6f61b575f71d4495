package shares

import "errors"

var (
	// ErrInvalidSupply is returned at construction when the deployer would hold more than the total supply,
	// or an argument is negative or not a number. The deployment is aborted.
	ErrInvalidSupply = errors.New("shares: invalid supply")

	// ErrInvalidAmount is returned by CreateRequest for a non-positive amount. Nothing is emitted.
	ErrInvalidAmount = errors.New("shares: invalid amount")

	// ErrInvalidAccount indicates an identity that is not a hex encoded 32 byte public key.
	ErrInvalidAccount = errors.New("shares: invalid account")

	// ErrUnknownEvent indicates an event name this registry does not emit.
	ErrUnknownEvent = errors.New("shares: unknown event")

	// ErrInvalidRecord indicates an event that is not a well formed, correctly signed RequestShares record.
	ErrInvalidRecord = errors.New("shares: invalid request record")

	// ErrNoSnapshot indicates there is nothing on disk to restore for a registry address.
	ErrNoSnapshot = errors.New("shares: no snapshot on disk")
)
