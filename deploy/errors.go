package deploy

import "errors"

var (
	// ErrUnknownAccount indicates a role with no named account.
	ErrUnknownAccount = errors.New("deploy: unknown named account")

	// ErrNotDeployed indicates GetContract was asked for a name no fixture has deployed.
	ErrNotDeployed = errors.New("deploy: contract not deployed")

	// ErrNoScripts indicates a fixture whose tags matched no script.
	ErrNoScripts = errors.New("deploy: no scripts match tags")
)
