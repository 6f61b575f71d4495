package library

type Wallet struct {
	PrivateKey string
	SeedWords  string
	Account    Account
}

// Account is the hex encoded x-only public key of a participant or a deployed registry.
type Account = string

type Sha256 = string

// IsAccount reports whether a looks like a hex encoded 32 byte public key.
func IsAccount(a Account) bool {
	if len(a) != 64 {
		return false
	}
	for _, c := range a {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
