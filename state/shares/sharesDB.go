package shares

import (
	"encoding/json"
	"fmt"

	"daoshares/engine/actors"
	"daoshares/engine/library"
)

// persistToDisk persists the current cap table to the flat file db. Callers hold the mutex or own r exclusively.
func (r *Registry) persistToDisk() error {
	b, err := json.MarshalIndent(snapshot{
		Deployer:    r.deployer,
		TotalSupply: r.totalSupply,
		Balances:    r.getMapped(),
	}, "", " ")
	if err != nil {
		return err
	}
	if err = actors.Write("shares", r.Address(), b); err != nil {
		return fmt.Errorf("could not persist cap table for %s: %w", r.Address(), err)
	}
	return nil
}

// Restore rebuilds the registry deployer would get with opts from the flat file db.
// It fails with ErrNoSnapshot if that registry was never persisted.
func Restore(deployer library.Wallet, opts ...Option) (*Registry, error) {
	r, err := newRegistry(deployer, 0, append(opts, WithPersistence())...)
	if err != nil {
		return nil, err
	}
	f, ok := actors.Open("shares", r.Address())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, r.Address())
	}
	defer func() {
		if err := f.Close(); err != nil {
			library.LogCLI(err.Error(), 2)
		}
	}()
	var s snapshot
	if err = json.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("could not decode cap table for %s: %w", r.Address(), err)
	}
	if s.Deployer != deployer.Account {
		return nil, fmt.Errorf("cap table for %s was deployed by %s, not %s", r.Address(), s.Deployer, deployer.Account)
	}
	var held uint64
	for account, balance := range s.Balances {
		if !library.IsAccount(account) {
			return nil, fmt.Errorf("%w: %q in cap table for %s", ErrInvalidAccount, account, r.Address())
		}
		if balance > s.TotalSupply-held {
			return nil, fmt.Errorf("%w: cap table for %s holds more than its total supply %d", ErrInvalidSupply, r.Address(), s.TotalSupply)
		}
		held += balance
		r.data[account] = balance
	}
	r.totalSupply = s.TotalSupply
	library.LogCLI(fmt.Sprintf("Restored cap table for %s", r.Address()), 4)
	return r, nil
}
