package shares

import (
	"daoshares/engine/library"
)

// KindRequestShares is the nostr kind of a RequestShares record.
const KindRequestShares = 640210

// EventRequestShares is the name a RequestShares record is subscribed to and queried by.
const EventRequestShares = "RequestShares"

const opRequest = "shares.request"

// Request is the payload of a RequestShares record. It records intent only, no balance changes.
type Request struct {
	Registry  library.Account `json:"registry"`
	Requester library.Account `json:"requester"`
	Amount    uint64          `json:"amount"`
}

// Mapped is a copy of the cap table, account to balance.
type Mapped map[library.Account]uint64

type snapshot struct {
	Deployer    library.Account `json:"deployer"`
	TotalSupply uint64          `json:"total_supply"`
	Balances    Mapped          `json:"balances"`
}
