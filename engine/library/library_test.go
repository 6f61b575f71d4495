package library

import (
	"strconv"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackIsFIFOAcrossResizes(t *testing.T) {
	q := NewEventStack(2)
	for i := 0; i < 3; i++ {
		q.Push(&nostr.Event{Content: strconv.Itoa(i)})
	}
	e, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "0", e.Content)
	for i := 3; i < 7; i++ {
		q.Push(&nostr.Event{Content: strconv.Itoa(i)})
	}
	assert.Equal(t, 6, q.Len())
	for i := 1; i < 7; i++ {
		e, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, strconv.Itoa(i), e.Content)
	}
	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestPubKeyAndDeriveWallet(t *testing.T) {
	sk := Sha256Sum("deployer")
	pk, err := PubKey(sk)
	require.NoError(t, err)
	assert.True(t, IsAccount(pk))

	e := nostr.Event{PubKey: pk, Kind: 1, Tags: nostr.Tags{}, Content: "hi"}
	e.ID = e.GetID()
	require.NoError(t, e.Sign(sk))
	ok, err := e.CheckSignature()
	require.NoError(t, err)
	assert.True(t, ok)

	parent := Wallet{PrivateKey: sk, Account: pk}
	a, err := DeriveWallet(parent, "a")
	require.NoError(t, err)
	again, err := DeriveWallet(parent, "a")
	require.NoError(t, err)
	b, err := DeriveWallet(parent, "b")
	require.NoError(t, err)
	assert.Equal(t, a, again)
	assert.NotEqual(t, a.Account, b.Account)
	assert.NotEqual(t, pk, a.Account)

	_, err = PubKey("zz")
	assert.Error(t, err)
	_, err = PubKey("abcd")
	assert.Error(t, err)
}

func TestIsAccount(t *testing.T) {
	assert.True(t, IsAccount(Sha256Sum("x")))
	assert.False(t, IsAccount(""))
	assert.False(t, IsAccount("ABCDEF"+Sha256Sum("x")[6:]))
	assert.False(t, IsAccount(Sha256Sum("x")[1:]))
}

func TestTags(t *testing.T) {
	e := nostr.Event{Tags: nostr.Tags{
		nostr.Tag{"p", "requester"},
		nostr.Tag{"op", "shares.request", "50"},
	}}
	p, ok := GetFirstTag(e, "p")
	assert.True(t, ok)
	assert.Equal(t, "requester", p)
	data, ok := GetOpData(e)
	assert.True(t, ok)
	assert.Equal(t, "50", data)
	_, ok = GetFirstTag(e, "e")
	assert.False(t, ok)
}
