package cash

import (
	"encoding/json"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/coin"
	"github.com/iov-one/bastion/errors"
	"github.com/iov-one/bastion/orm"
)

// BucketName is where the wallets are stored, keyed by address.
const BucketName = "cash"

// Wallet is the entity stored per address, holding at most one coin per
// ticker.
type Wallet struct {
	Coins []coin.Coin `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return json.Marshal(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, w)
}

// Validate ensures all coins are valid, non-negative and unique per ticker.
func (w *Wallet) Validate() error {
	seen := make(map[string]struct{}, len(w.Coins))
	for _, c := range w.Coins {
		if err := c.Validate(); err != nil {
			return errors.Wrap(err, "invalid coin")
		}
		if !c.IsNonNegative() {
			return errors.Wrapf(errors.ErrAmount, "negative balance: %s", c)
		}
		if _, ok := seen[c.Ticker]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "ticker %q", c.Ticker)
		}
		seen[c.Ticker] = struct{}{}
	}
	return nil
}

// Balance returns the amount held in the given ticker. A zero coin when the
// wallet holds none.
func (w *Wallet) Balance(ticker string) coin.Coin {
	for _, c := range w.Coins {
		if c.Ticker == ticker {
			return c
		}
	}
	return coin.NewCoin(0, 0, ticker)
}

// Add combines the coin into the wallet balance of its ticker.
func (w *Wallet) Add(c coin.Coin) error {
	for i := range w.Coins {
		if w.Coins[i].Ticker == c.Ticker {
			sum, err := w.Coins[i].Add(c)
			if err != nil {
				return err
			}
			w.Coins[i] = sum
			return nil
		}
	}
	w.Coins = append(w.Coins, c)
	return nil
}

// Subtract removes the coin from the wallet balance of its ticker. Fails
// with ErrInsufficientFunds when the balance would drop below zero.
func (w *Wallet) Subtract(c coin.Coin) error {
	for i := range w.Coins {
		if w.Coins[i].Ticker != c.Ticker {
			continue
		}
		rest, err := w.Coins[i].Subtract(c)
		if err != nil {
			return err
		}
		if !rest.IsNonNegative() {
			return errors.Wrapf(ErrInsufficientFunds, "%s below %s", w.Coins[i], c)
		}
		if rest.IsZero() {
			w.Coins = append(w.Coins[:i], w.Coins[i+1:]...)
		} else {
			w.Coins[i] = rest
		}
		return nil
	}
	return errors.Wrapf(ErrInsufficientFunds, "no %s balance", c.Ticker)
}

// NewWalletBucket returns a bucket for storing wallets, keyed by address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// RegisterQuery registers wallets for queries under /wallets.
func RegisterQuery(qr bastion.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
}
