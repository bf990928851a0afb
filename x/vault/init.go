package vault

import (
	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/errors"
	"github.com/iov-one/bastion/x/cash"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	// Minter funds the custody address of every pre-seeded vault with
	// its total amount. Without it the vaults start with book balances
	// but no custody funds.
	Minter cash.Mover
}

var _ bastion.Initializer = (*Initializer)(nil)

// FromGenesis initializes vaults from genesis "vault" options. Records use
// the same shape as the stored entity; ids are allocated in order of
// appearance, starting at 1.
func (i *Initializer) FromGenesis(opts bastion.Options, db bastion.KVStore) error {
	var vaults []Vault
	if err := opts.ReadOptions("vault", &vaults); err != nil {
		return err
	}

	bucket := NewVaultBucket()
	for n := range vaults {
		v := &vaults[n]
		id, err := bucket.Put(db, nil, v)
		if err != nil {
			return errors.Wrapf(err, "vault #%d", n)
		}
		if i.Minter != nil && v.TotalAmount.IsPositive() {
			if err := i.Minter.IssueCoins(db, VaultAddress(id), v.TotalAmount); err != nil {
				return errors.Wrapf(err, "vault #%d custody", n)
			}
		}
	}
	return nil
}
