package actors

import (
	"io"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daoshares/engine/library"
)

const testSeedWords = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func useTempRoot(t *testing.T) *viper.Viper {
	t.Helper()
	conf := viper.New()
	conf.Set("rootDir", t.TempDir()+"/")
	InitConfig(conf)
	SetConfig(conf)
	return conf
}

func TestInitConfigDefaults(t *testing.T) {
	conf := useTempRoot(t)
	assert.Equal(t, uint64(1000), conf.GetUint64("totalSupply"))
	assert.Equal(t, uint64(100), conf.GetUint64("deployerShares"))
	assert.Equal(t, "data/", conf.GetString("flatFileDir"))
	assert.Equal(t, conf.GetString("rootDir")+"events.db", EventDbPath())
}

func TestWriteThenOpen(t *testing.T) {
	useTempRoot(t)
	_, ok := Open("shares", "missing")
	assert.False(t, ok)

	require.NoError(t, Write("shares", "db", []byte("first")))
	require.NoError(t, Write("shares", "db", []byte("second")))
	f, ok := Open("shares", "db")
	require.True(t, ok)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}

func TestWalletFromSeedWords(t *testing.T) {
	deployer, err := WalletFromSeedWords(testSeedWords, 0)
	require.NoError(t, err)
	other, err := WalletFromSeedWords(testSeedWords, 1)
	require.NoError(t, err)
	again, err := WalletFromSeedWords(testSeedWords, 1)
	require.NoError(t, err)

	assert.True(t, library.IsAccount(deployer.Account))
	assert.True(t, library.IsAccount(other.Account))
	assert.NotEqual(t, deployer.Account, other.Account)
	assert.Equal(t, other, again)
}

func TestSeedWordsArePersisted(t *testing.T) {
	useTempRoot(t)
	SetSeedWords("")
	first := MyWallet()
	require.NotEmpty(t, first.SeedWords)

	SetSeedWords("")
	second := MyWallet()
	assert.Equal(t, first, second)

	SetSeedWords(testSeedWords)
	named, err := NamedWallet(0)
	require.NoError(t, err)
	assert.Equal(t, testSeedWords, named.SeedWords)
	SetSeedWords("")
}
