package cash

import (
	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/coin"
	"github.com/iov-one/bastion/errors"
	"github.com/iov-one/bastion/orm"
)

// Mover is an interface for moving coins between accounts.
type Mover interface {
	// MoveCoins removes funds from the source account and adds them to
	// the destination account. It fails when the source does not hold
	// enough.
	MoveCoins(db bastion.KVStore, src, dest bastion.Address, amount coin.Coin) error

	// IssueCoins attempts to add the given amount of coins to the
	// destination address, creating money out of nothing.
	IssueCoins(db bastion.KVStore, dest bastion.Address, amount coin.Coin) error
}

// Balancer is an interface for reading the balance of an account.
type Balancer interface {
	// Balance returns the amount the given address holds in the given
	// ticker.
	Balance(db bastion.ReadOnlyKVStore, addr bastion.Address, ticker string) (coin.Coin, error)
}

// Controller is the functionality needed by handlers moving funds around.
type Controller interface {
	Mover
	Balancer
}

// BaseController implements Controller on top of the wallet bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation.
func NewController() BaseController {
	return BaseController{bucket: NewWalletBucket()}
}

// MoveCoins moves the given amount from src to dest. Fails on a negative or
// zero amount, a missing source account, or insufficient funds.
func (c BaseController) MoveCoins(db bastion.KVStore, src, dest bastion.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %s", amount)
	}

	var sender Wallet
	switch err := c.bucket.One(db, src, &sender); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(ErrEmptyAccount, "source %s", src)
	case err != nil:
		return errors.Wrap(err, "cannot load source wallet")
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if _, err := c.bucket.Put(db, src, &sender); err != nil {
		return errors.Wrap(err, "cannot store source wallet")
	}

	var receiver Wallet
	if err := c.bucket.One(db, dest, &receiver); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "cannot load destination wallet")
	}
	if err := receiver.Add(amount); err != nil {
		return err
	}
	if _, err := c.bucket.Put(db, dest, &receiver); err != nil {
		return errors.Wrap(err, "cannot store destination wallet")
	}
	return nil
}

// IssueCoins mints the given amount into the destination account.
func (c BaseController) IssueCoins(db bastion.KVStore, dest bastion.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %s", amount)
	}

	var receiver Wallet
	if err := c.bucket.One(db, dest, &receiver); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "cannot load destination wallet")
	}
	if err := receiver.Add(amount); err != nil {
		return err
	}
	if _, err := c.bucket.Put(db, dest, &receiver); err != nil {
		return errors.Wrap(err, "cannot store destination wallet")
	}
	return nil
}

// Balance returns the amount held by the address in the given ticker. A
// missing wallet is a zero balance.
func (c BaseController) Balance(db bastion.ReadOnlyKVStore, addr bastion.Address, ticker string) (coin.Coin, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case errors.ErrNotFound.Is(err):
		return coin.NewCoin(0, 0, ticker), nil
	case err != nil:
		return coin.Coin{}, errors.Wrap(err, "cannot load wallet")
	}
	return w.Balance(ticker), nil
}
