package cash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/coin"
	"github.com/iov-one/bastion/errors"
	"github.com/iov-one/bastion/store"
)

func fundedAccount(t *testing.T, db bastion.KVStore, c coin.Coin) bastion.Address {
	t.Helper()
	addr := bastion.NewCondition("sigs", "ed25519", []byte(t.Name())).Address()
	require.NoError(t, NewController().IssueCoins(db, addr, c))
	return addr
}

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	src := fundedAccount(t, db, coin.NewCoin(100, 0, "IOV"))
	dest := bastion.NewCondition("sigs", "ed25519", []byte("rcpt")).Address()

	require.NoError(t, ctrl.MoveCoins(db, src, dest, coin.NewCoin(30, 0, "IOV")))

	got, err := ctrl.Balance(db, src, "IOV")
	require.NoError(t, err)
	assert.True(t, got.Equals(coin.NewCoin(70, 0, "IOV")))

	got, err = ctrl.Balance(db, dest, "IOV")
	require.NoError(t, err)
	assert.True(t, got.Equals(coin.NewCoin(30, 0, "IOV")))
}

func TestMoveCoinsInsufficient(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	src := fundedAccount(t, db, coin.NewCoin(10, 0, "IOV"))
	dest := bastion.NewCondition("sigs", "ed25519", []byte("rcpt")).Address()

	err := ctrl.MoveCoins(db, src, dest, coin.NewCoin(11, 0, "IOV"))
	assert.True(t, ErrInsufficientFunds.Is(err))

	// The failed move must not touch either balance.
	got, err := ctrl.Balance(db, src, "IOV")
	require.NoError(t, err)
	assert.True(t, got.Equals(coin.NewCoin(10, 0, "IOV")))
	got, err = ctrl.Balance(db, dest, "IOV")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestMoveCoinsWrongTicker(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	src := fundedAccount(t, db, coin.NewCoin(10, 0, "IOV"))
	dest := bastion.NewCondition("sigs", "ed25519", []byte("rcpt")).Address()

	err := ctrl.MoveCoins(db, src, dest, coin.NewCoin(1, 0, "BTC"))
	assert.True(t, ErrInsufficientFunds.Is(err))
}

func TestMoveCoinsEmptyAccount(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	src := bastion.NewCondition("sigs", "ed25519", []byte("ghost")).Address()
	dest := bastion.NewCondition("sigs", "ed25519", []byte("rcpt")).Address()

	err := ctrl.MoveCoins(db, src, dest, coin.NewCoin(1, 0, "IOV"))
	assert.True(t, ErrEmptyAccount.Is(err))
}

func TestMoveCoinsNonPositive(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	src := fundedAccount(t, db, coin.NewCoin(10, 0, "IOV"))
	dest := bastion.NewCondition("sigs", "ed25519", []byte("rcpt")).Address()

	err := ctrl.MoveCoins(db, src, dest, coin.NewCoin(0, 0, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestBalanceMissingWallet(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	addr := bastion.NewCondition("sigs", "ed25519", []byte("ghost")).Address()
	got, err := ctrl.Balance(db, addr, "IOV")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestGenesisInitializer(t *testing.T) {
	db := store.MemStore()
	addr := bastion.NewCondition("sigs", "ed25519", []byte("genesis")).Address()

	opts := bastion.Options{
		"cash": []byte(`[{"address": "` + addr.String() + `", "coins": [{"whole": 50, "ticker": "IOV"}]}]`),
	}
	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	got, err := NewController().Balance(db, addr, "IOV")
	require.NoError(t, err)
	assert.True(t, got.Equals(coin.NewCoin(50, 0, "IOV")))
}
