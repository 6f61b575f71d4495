package deploy

import (
	"fmt"
	"sort"

	"daoshares/engine/actors"
	"daoshares/engine/library"
)

// DefaultNamedAccounts maps the symbolic roles used by scripts and tests to wallet indices.
var DefaultNamedAccounts = map[string]uint32{
	"deployer": 0,
	"other":    1,
}

// NamedAccounts is a resolved role to wallet table.
type NamedAccounts map[string]library.Wallet

// ResolveNamedAccounts derives a wallet for every role from seed words.
func ResolveNamedAccounts(seedWords string, roles map[string]uint32) (NamedAccounts, error) {
	if len(seedWords) == 0 {
		return nil, fmt.Errorf("no seed words to derive named accounts from")
	}
	n := make(NamedAccounts, len(roles))
	for role, index := range roles {
		w, err := actors.WalletFromSeedWords(seedWords, index)
		if err != nil {
			return nil, fmt.Errorf("could not resolve named account %s: %w", role, err)
		}
		n[role] = w
	}
	return n, nil
}

// Get returns the wallet for role.
func (n NamedAccounts) Get(role string) (library.Wallet, error) {
	w, ok := n[role]
	if !ok {
		return library.Wallet{}, fmt.Errorf("%w: %s", ErrUnknownAccount, role)
	}
	return w, nil
}

func (n NamedAccounts) Roles() []string {
	var roles []string
	for role := range n {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}
