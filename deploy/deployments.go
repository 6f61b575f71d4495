package deploy

import (
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/slices"

	"daoshares/engine/library"
	"daoshares/messaging/events"
	"daoshares/state/shares"
)

// Args are the constructor arguments and options of one deployment.
type Args struct {
	TotalSupply    uint64
	DeployerShares uint64
	// Salt defaults to the deployment name.
	Salt    string
	Log     bool
	Persist bool
}

// Script deploys one or more registries. It is run by every fixture whose tags it carries.
type Script struct {
	Name string
	Tags []string
	Run  func(d *Deployments) error
}

// Deployments runs scripts and keeps the registries they deployed, by name.
type Deployments struct {
	accounts NamedAccounts
	newLog   func() (*events.Log, error)
	scripts  []Script
	mutex    *deadlock.Mutex
	log      *events.Log
	deployed map[string]*shares.Registry
}

// New returns deployments for accounts. newLog is called once per fixture for a fresh event log;
// nil gives an in-memory log.
func New(accounts NamedAccounts, newLog func() (*events.Log, error), scripts ...Script) *Deployments {
	if newLog == nil {
		newLog = func() (*events.Log, error) {
			return events.NewLog(events.NewMemoryStore()), nil
		}
	}
	return &Deployments{
		accounts: accounts,
		newLog:   newLog,
		scripts:  scripts,
		mutex:    &deadlock.Mutex{},
		deployed: make(map[string]*shares.Registry),
	}
}

func (d *Deployments) NamedAccounts() NamedAccounts {
	return d.accounts
}

// Fixture discards everything deployed so far and runs every script carrying one of tags,
// in the order the scripts were given.
func (d *Deployments) Fixture(tags ...string) error {
	var matched []Script
	for _, s := range d.scripts {
		for _, tag := range tags {
			if slices.Contains(s.Tags, tag) {
				matched = append(matched, s)
				break
			}
		}
	}
	if len(matched) == 0 {
		return fmt.Errorf("%w: %v", ErrNoScripts, tags)
	}
	l, err := d.newLog()
	if err != nil {
		return fmt.Errorf("could not open event log for fixture: %w", err)
	}
	d.mutex.Lock()
	old := d.log
	d.log = l
	d.deployed = make(map[string]*shares.Registry)
	d.mutex.Unlock()
	if old != nil {
		if err := old.Close(); err != nil {
			library.LogCLI(err.Error(), 2)
		}
	}
	for _, s := range matched {
		if err := s.Run(d); err != nil {
			return fmt.Errorf("deployment script %s failed: %w", s.Name, err)
		}
	}
	return nil
}

// Deploy constructs a registry as from and records it under name, replacing any earlier one.
func (d *Deployments) Deploy(name string, from library.Wallet, args Args) (*shares.Registry, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.log == nil {
		l, err := d.newLog()
		if err != nil {
			return nil, err
		}
		d.log = l
	}
	salt := args.Salt
	if len(salt) == 0 {
		salt = name
	}
	opts := []shares.Option{shares.WithLog(d.log), shares.WithSalt(salt)}
	if args.Persist {
		opts = append(opts, shares.WithPersistence())
	}
	r, err := shares.New(from, args.TotalSupply, args.DeployerShares, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not deploy %s: %w", name, err)
	}
	d.deployed[name] = r
	if args.Log {
		library.LogCLI(fmt.Sprintf("deployed %s at %s from %s with args [%d, %d]", name, r.Address(), from.Account, args.TotalSupply, args.DeployerShares), 4)
	}
	return r, nil
}

// Adopt records an existing registry under name, for registries restored from disk.
func (d *Deployments) Adopt(name string, r *shares.Registry) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.deployed[name] = r
	d.log = r.Log()
}

// GetContract returns the registry deployed under name by the latest fixture.
func (d *Deployments) GetContract(name string) (*shares.Registry, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	r, ok := d.deployed[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDeployed, name)
	}
	return r, nil
}

// Close closes the current event log.
func (d *Deployments) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.log == nil {
		return nil
	}
	err := d.log.Close()
	d.log = nil
	return err
}
