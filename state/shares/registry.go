package shares

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/sasha-s/go-deadlock"

	"daoshares/engine/library"
	"daoshares/messaging/events"
)

// Registry is the share ledger of one deployment. It owns every balance and emits a RequestShares
// record for each accepted request.
type Registry struct {
	wallet      library.Wallet
	deployer    library.Account
	totalSupply uint64
	data        map[library.Account]uint64
	mutex       *deadlock.Mutex
	log         *events.Log
	persist     bool
}

type options struct {
	log     *events.Log
	salt    string
	persist bool
}

type Option func(*options)

// WithLog emits into l instead of a private in-memory log. Several registries may share a log.
func WithLog(l *events.Log) Option {
	return func(o *options) { o.log = l }
}

// WithSalt changes the salt the registry address is derived from. Same deployer and salt, same address.
func WithSalt(salt string) Option {
	return func(o *options) { o.salt = salt }
}

// WithPersistence writes the cap table to the flat file db so it can be restored with Restore.
func WithPersistence() Option {
	return func(o *options) { o.persist = true }
}

// New deploys a registry giving deployerShares of totalSupply to deployer.
func New(deployer library.Wallet, totalSupply, deployerShares uint64, opts ...Option) (*Registry, error) {
	if deployerShares > totalSupply {
		return nil, fmt.Errorf("%w: deployer shares %d exceed total supply %d", ErrInvalidSupply, deployerShares, totalSupply)
	}
	r, err := newRegistry(deployer, totalSupply, opts...)
	if err != nil {
		return nil, err
	}
	if deployerShares > 0 {
		r.data[deployer.Account] = deployerShares
	}
	if r.persist {
		if err := r.persistToDisk(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func newRegistry(deployer library.Wallet, totalSupply uint64, opts ...Option) (*Registry, error) {
	if !library.IsAccount(deployer.Account) {
		return nil, fmt.Errorf("%w: deployer %q", ErrInvalidAccount, deployer.Account)
	}
	o := options{salt: "shares"}
	for _, opt := range opts {
		opt(&o)
	}
	w, err := library.DeriveWallet(deployer, o.salt)
	if err != nil {
		return nil, fmt.Errorf("could not derive registry address: %w", err)
	}
	if o.log == nil {
		o.log = events.NewLog(events.NewMemoryStore())
	}
	return &Registry{
		wallet:      w,
		deployer:    deployer.Account,
		totalSupply: totalSupply,
		data:        make(map[library.Account]uint64),
		mutex:       &deadlock.Mutex{},
		log:         o.log,
		persist:     o.persist,
	}, nil
}

// Address is the handle the registry is addressed by. Every record it emits is signed by this key.
func (r *Registry) Address() library.Account {
	return r.wallet.Account
}

func (r *Registry) Deployer() library.Account {
	return r.deployer
}

// Log is the event log this registry emits into.
func (r *Registry) Log() *events.Log {
	return r.log
}

// GetShares returns the balance of account. Unknown accounts hold 0 shares.
func (r *Registry) GetShares(account library.Account) uint64 {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.data[account]
}

func (r *Registry) TotalSupply() uint64 {
	return r.totalSupply
}

// Unallocated is the part of the total supply no participant holds.
func (r *Registry) Unallocated() uint64 {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var held uint64
	for _, balance := range r.data {
		held += balance
	}
	return r.totalSupply - held
}

func (r *Registry) GetMapped() Mapped {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.getMapped()
}

func (r *Registry) getMapped() Mapped {
	m := make(Mapped, len(r.data))
	for account, balance := range r.data {
		m[account] = balance
	}
	return m
}

// Holders returns every account with a balance, largest first.
func (r *Registry) Holders() []library.Account {
	m := r.GetMapped()
	var accounts []library.Account
	for account := range m {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if m[accounts[i]] == m[accounts[j]] {
			return accounts[i] < accounts[j]
		}
		return m[accounts[i]] > m[accounts[j]]
	})
	return accounts
}

// Permille is the account's share of the total supply in thousandths, rounded.
func (r *Registry) Permille(account library.Account) (int64, error) {
	return Permille(r.GetShares(account), r.totalSupply)
}

func Permille(held, total uint64) (int64, error) {
	if held > total || total == 0 {
		return 0, fmt.Errorf("invalid permille, numerator %d is greater than denominator %d", held, total)
	}
	s := new(big.Rat)
	s = s.SetFrac(new(big.Int).SetUint64(held), new(big.Int).SetUint64(total))
	m := new(big.Rat)
	m.SetInt64(1000)
	s = s.Mul(s, m)
	f, _ := s.Float64()
	return int64(math.Round(f)), nil
}
