package cash

import (
	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/coin"
	"github.com/iov-one/bastion/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ bastion.Initializer = (*Initializer)(nil)

// FromGenesis initializes wallets from genesis "cash" options:
//
//	"cash": [
//	  {"address": "1020...", "coins": [{"whole": 50, "ticker": "IOV"}]}
//	]
func (Initializer) FromGenesis(opts bastion.Options, db bastion.KVStore) error {
	var accounts []struct {
		Address bastion.Address `json:"address"`
		Coins   []coin.Coin     `json:"coins"`
	}
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return err
	}

	bucket := NewWalletBucket()
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		wallet := Wallet{Coins: acc.Coins}
		if _, err := bucket.Put(db, acc.Address, &wallet); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
