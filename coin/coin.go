package coin

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"

	"github.com/iov-one/bastion/errors"
)

// IsCC is the RegExp to ensure valid currency codes.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxInt is the largest whole value we accept.
	MaxInt int64 = 999999999999999 // 10^15-1
	// MinInt is the lowest whole value we accept.
	MinInt = -MaxInt

	// FracUnit is the smallest number we divide by.
	FracUnit int64 = 1000000000 // fractional units = 10^9
	// MaxFrac is the highest possible fractional value.
	MaxFrac = FracUnit - 1
	// MinFrac is the lowest possible fractional value.
	MinFrac = -MaxFrac
)

// Coin is an amount of a single currency. Whole and Fractional carry the
// same sign; the value is Whole + Fractional/FracUnit.
type Coin struct {
	Ticker     string `json:"ticker"`
	Whole      int64  `json:"whole"`
	Fractional int64  `json:"fractional"`
}

// NewCoin creates a new coin object.
func NewCoin(whole, fractional int64, ticker string) Coin {
	return Coin{
		Ticker:     ticker,
		Whole:      whole,
		Fractional: fractional,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := NewCoin(whole, fractional, ticker)
	return &c
}

// ID returns the coin ticker name.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coins of the same currency. It returns an error on a
// ticker mismatch or value overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	// If any of the coins is nil-like, use the other ticker.
	if c.Ticker == "" {
		c.Ticker = o.Ticker
	} else if o.Ticker == "" {
		o.Ticker = c.Ticker
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "%s != %s", c.Ticker, o.Ticker)
	}
	c.Whole += o.Whole
	c.Fractional += o.Fractional
	return c.normalize()
}

// Subtract removes the amount of the argument from this coin.
func (c Coin) Subtract(o Coin) (Coin, error) {
	return c.Add(o.Negative())
}

// Negative returns the opposite value of this coin.
func (c Coin) Negative() Coin {
	return Coin{
		Ticker:     c.Ticker,
		Whole:      -c.Whole,
		Fractional: -c.Fractional,
	}
}

// Divide splits the value of a coin into the given amount of pieces and
// returns a single piece. Precise splitting might not be possible; any
// leftover of the fractional value is returned as well.
//
//	4 = 1.33 x 3 + 0.01
func (c Coin) Divide(pieces int64) (Coin, Coin, error) {
	// This is an invalid use of the method.
	if pieces <= 0 {
		zero := Coin{Ticker: c.Ticker}
		return zero, zero, errors.Wrap(errors.ErrInput, "pieces must be greater than zero")
	}

	// When dividing the whole value leaves a leftover, convert it to
	// fractional and split that as well. The conversion exceeds the int64
	// range when the leftover is in the billions, which a huge pieces
	// count against a large whole value can produce.
	fractional := c.Fractional
	if leftover := c.Whole % pieces; leftover != 0 {
		if abs(leftover) > (math.MaxInt64-MaxFrac)/FracUnit {
			zero := Coin{Ticker: c.Ticker}
			return zero, zero, errors.Wrapf(errors.ErrOverflow, "cannot split %d into %d pieces", c.Whole, pieces)
		}
		fractional += leftover * FracUnit
	}

	one := Coin{
		Ticker:     c.Ticker,
		Whole:      c.Whole / pieces,
		Fractional: fractional / pieces,
	}
	rest := Coin{
		Ticker:     c.Ticker,
		Whole:      0, // This we can always divide.
		Fractional: fractional % pieces,
	}
	return one, rest, nil
}

// Compare returns -1, 0 or 1 depending on whether this coin is smaller,
// equal or greater in value than the argument. Tickers are ignored; use
// SameType to compare currencies.
func (c Coin) Compare(o Coin) int {
	if c.Whole > o.Whole {
		return 1
	}
	if c.Whole < o.Whole {
		return -1
	}
	// Whole is equal, compare fractional.
	if c.Fractional > o.Fractional {
		return 1
	}
	if c.Fractional < o.Fractional {
		return -1
	}
	return 0
}

// Equals returns true if both coins are the same currency and value.
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Compare(o) == 0
}

// IsZero returns true if the value is exactly 0.
func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

// IsPositive returns true if the value is greater than 0.
func (c Coin) IsPositive() bool {
	return c.Whole > 0 || (c.Whole == 0 && c.Fractional > 0)
}

// IsNonNegative returns true if the value is greater than or equal to 0.
func (c Coin) IsNonNegative() bool {
	return c.Whole >= 0 && c.Fractional >= 0
}

// IsGTE returns true if the value of this coin is greater than or equal to
// the value of the argument.
func (c Coin) IsGTE(o Coin) bool {
	return c.Compare(o) >= 0
}

// SameType returns true if both coins are the same currency.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone provides an independent copy of a coin pointer.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate ensures the coin is in the expected range and carries a proper
// currency code.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker)
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		return errors.Wrap(errors.ErrOverflow, "whole")
	}
	if c.Fractional < MinFrac || c.Fractional > MaxFrac {
		return errors.Wrap(errors.ErrOverflow, "fractional")
	}
	// Make sure the signs match.
	if c.Whole != 0 && c.Fractional != 0 &&
		((c.Whole > 0) != (c.Fractional > 0)) {
		return errors.Wrap(errors.ErrState, "mismatched sign")
	}
	return nil
}

// normalize adjusts the fractional part into the valid range, carrying over
// into the whole part, and verifies the result is within bounds.
func (c Coin) normalize() (Coin, error) {
	// Keep fractional within the unit.
	for c.Fractional < MinFrac {
		c.Whole--
		c.Fractional += FracUnit
	}
	for c.Fractional > MaxFrac {
		c.Whole++
		c.Fractional -= FracUnit
	}

	// Make sure the signs correspond.
	if (c.Whole > 0) && (c.Fractional < 0) {
		c.Whole--
		c.Fractional += FracUnit
	} else if (c.Whole < 0) && (c.Fractional > 0) {
		c.Whole++
		c.Fractional -= FracUnit
	}

	// Return error if the value is out of range.
	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.Wrap(errors.ErrOverflow, "whole")
	}
	return c, nil
}

// String provides a human readable representation of the coin.
func (c Coin) String() string {
	if c.Fractional == 0 {
		return fmt.Sprintf("%d %s", c.Whole, c.Ticker)
	}
	return fmt.Sprintf("%d.%09d %s", c.Whole, abs(c.Fractional), c.Ticker)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// UnmarshalJSON supports both the object notation and a human readable
// "<whole> <ticker>" string.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	// Default parsing of the object notation.
	var std struct {
		Ticker     string `json:"ticker"`
		Whole      int64  `json:"whole"`
		Fractional int64  `json:"fractional"`
	}
	if err := json.Unmarshal(raw, &std); err == nil {
		c.Ticker = std.Ticker
		c.Whole = std.Whole
		c.Fractional = std.Fractional
		return nil
	}

	var human string
	if err := json.Unmarshal(raw, &human); err != nil {
		return errors.Wrap(errors.ErrInput, "invalid coin notation")
	}
	var (
		whole  int64
		ticker string
	)
	if _, err := fmt.Sscanf(human, "%d %s", &whole, &ticker); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse coin %q", human)
	}
	c.Ticker = ticker
	c.Whole = whole
	c.Fractional = 0
	return nil
}
