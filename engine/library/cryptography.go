package library

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

func Sha256Sum(data interface{}) Sha256 {
	var b []byte
	switch d := data.(type) {
	case string:
		b = []byte(d)
	case []byte:
		b = d
	default:
		LogCLI("attempted to hash non-string or non-[]byte", 0)
	}
	h := sha256.New()
	h.Write(b)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// PubKey returns the x-only public key for a hex encoded private key.
func PubKey(privateKey string) (Account, error) {
	keyb, err := hex.DecodeString(privateKey)
	if err != nil {
		return "", fmt.Errorf("error decoding key from hex: %w", err)
	}
	if len(keyb) != 32 {
		return "", fmt.Errorf("private key must be 32 bytes, got %d", len(keyb))
	}
	_, pubkey := btcec.PrivKeyFromBytes(keyb)
	return hex.EncodeToString(pubkey.SerializeCompressed()[1:]), nil
}

// DeriveWallet deterministically derives a child key from parent and salt. Used for registry addresses.
func DeriveWallet(parent Wallet, salt string) (Wallet, error) {
	sk := Sha256Sum(parent.PrivateKey + ":" + salt)
	pk, err := PubKey(sk)
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{PrivateKey: sk, Account: pk}, nil
}
