package shares

import (
	"daoshares/engine/library"
	"daoshares/messaging/events"
)

// Session is a registry bound to a calling wallet, so calls default to the caller's account.
type Session struct {
	registry *Registry
	caller   library.Wallet
}

func (r *Registry) Connect(caller library.Wallet) *Session {
	return &Session{registry: r, caller: caller}
}

func (s *Session) Account() library.Account {
	return s.caller.Account
}

// GetShares returns the caller's balance.
func (s *Session) GetShares() uint64 {
	return s.registry.GetShares(s.caller.Account)
}

func (s *Session) CreateRequest(amount uint64) (events.Record, error) {
	return s.registry.CreateRequest(s.caller.Account, amount)
}
