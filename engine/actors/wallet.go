package actors

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nbd-wtf/go-nostr/nip06"
	"github.com/sasha-s/go-deadlock"

	"daoshares/engine/library"
)

var currentSeed string
var currentSeedMutex = &deadlock.Mutex{}

// MyWallet returns the wallet for account index 0 (the deployer), creating seed words if there are none yet.
func MyWallet() library.Wallet {
	w, err := NamedWallet(0)
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	return w
}

// NamedWallet returns the wallet at index, derived from this engine's seed words.
func NamedWallet(index uint32) (library.Wallet, error) {
	return WalletFromSeedWords(seedWords(), index)
}

// WalletFromSeedWords derives the wallet at index. Index 0 is the standard nip06 key for the seed words,
// higher indices use a seed derived from the original seed and the index.
func WalletFromSeedWords(words string, index uint32) (library.Wallet, error) {
	seed := nip06.SeedFromWords(words)
	if index > 0 {
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, index)
		child := sha256.Sum256(append(seed, b...))
		seed = child[:]
	}
	sk, err := nip06.PrivateKeyFromSeed(seed)
	if err != nil {
		return library.Wallet{}, fmt.Errorf("could not derive private key for index %d: %w", index, err)
	}
	pk, err := library.PubKey(sk)
	if err != nil {
		return library.Wallet{}, err
	}
	return library.Wallet{
		PrivateKey: sk,
		SeedWords:  words,
		Account:    pk,
	}, nil
}

func seedWords() string {
	currentSeedMutex.Lock()
	defer currentSeedMutex.Unlock()
	if len(currentSeed) == 0 {
		//try to restore seed words from disk
		if w, ok := getWalletFromDisk(); ok {
			currentSeed = w.SeedWords
		} else {
			library.LogCLI("Generating new seed words, write them down if you want to keep these accounts", 4)
			words, err := nip06.GenerateSeedWords()
			if err != nil {
				library.LogCLI(err.Error(), 0)
			}
			currentSeed = words
			if err := persistSeedWords(); err != nil {
				library.LogCLI(err.Error(), 1)
			}
		}
	}
	return currentSeed
}

// SetSeedWords replaces the seed words used for named wallets. Nothing is written to disk.
func SetSeedWords(words string) {
	currentSeedMutex.Lock()
	defer currentSeedMutex.Unlock()
	currentSeed = words
}

func persistSeedWords() error {
	b, err := json.Marshal(library.Wallet{SeedWords: currentSeed})
	if err != nil {
		return err
	}
	return os.WriteFile(MakeOrGetConfig().GetString("rootDir")+"wallet.dat", b, 0600)
}

func getWalletFromDisk() (w library.Wallet, ok bool) {
	file, err := os.ReadFile(MakeOrGetConfig().GetString("rootDir") + "wallet.dat")
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error getting wallet file: %s", err.Error()), 2)
		return library.Wallet{}, false
	}
	err = json.Unmarshal(file, &w)
	if err != nil || len(w.SeedWords) == 0 {
		library.LogCLI("Error parsing wallet file", 3)
		return library.Wallet{}, false
	}
	return w, true
}
