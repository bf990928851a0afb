package coin

import (
	"testing"

	"github.com/iov-one/bastion/errors"
)

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid coin":     {coin: NewCoin(12, 345, "IOV")},
		"zero is valid":  {coin: NewCoin(0, 0, "IOV")},
		"negative valid": {coin: NewCoin(-12, -345, "IOV")},
		"bad ticker": {
			coin:    NewCoin(1, 0, "io"),
			wantErr: errors.ErrCurrency,
		},
		"whole out of range": {
			coin:    NewCoin(MaxInt+1, 0, "IOV"),
			wantErr: errors.ErrOverflow,
		},
		"fractional out of range": {
			coin:    NewCoin(0, FracUnit, "IOV"),
			wantErr: errors.ErrOverflow,
		},
		"mismatched sign": {
			coin:    Coin{Ticker: "IOV", Whole: 1, Fractional: -1},
			wantErr: errors.ErrState,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.coin.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %+v", err)
				}
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestCoinAddSubtract(t *testing.T) {
	a := NewCoin(2, 500000000, "IOV")
	b := NewCoin(1, 700000000, "IOV")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if !sum.Equals(NewCoin(4, 200000000, "IOV")) {
		t.Fatalf("unexpected sum: %s", sum)
	}

	diff, err := a.Subtract(b)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if !diff.Equals(NewCoin(0, 800000000, "IOV")) {
		t.Fatalf("unexpected difference: %s", diff)
	}
}

func TestCoinAddWrongCurrency(t *testing.T) {
	_, err := NewCoin(1, 0, "IOV").Add(NewCoin(1, 0, "ETH"))
	if !errors.ErrCurrency.Is(err) {
		t.Fatalf("want currency error, got %+v", err)
	}
}

func TestCoinAddOverflow(t *testing.T) {
	_, err := NewCoin(MaxInt, 0, "IOV").Add(NewCoin(1, 0, "IOV"))
	if !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
}

func TestCoinDivide(t *testing.T) {
	cases := map[string]struct {
		total    Coin
		pieces   int64
		wantOne  Coin
		wantRest Coin
	}{
		"even split": {
			total:   NewCoin(1000, 0, "IOV"),
			pieces:  4,
			wantOne: NewCoin(250, 0, "IOV"),
		},
		"split with leftover": {
			total:    NewCoin(4, 0, "IOV"),
			pieces:   3,
			wantOne:  NewCoin(1, 333333333, "IOV"),
			wantRest: NewCoin(0, 1, "IOV"),
		},
		"one piece": {
			total:   NewCoin(7, 11, "IOV"),
			pieces:  1,
			wantOne: NewCoin(7, 11, "IOV"),
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			one, rest, err := tc.total.Divide(tc.pieces)
			if err != nil {
				t.Fatalf("unexpected error: %+v", err)
			}
			if !one.Equals(tc.wantOne) {
				t.Fatalf("want one %s, got %s", tc.wantOne, one)
			}
			wantRest := tc.wantRest
			if wantRest.Ticker == "" {
				wantRest.Ticker = tc.total.Ticker
			}
			if !rest.Equals(wantRest) {
				t.Fatalf("want rest %s, got %s", wantRest, rest)
			}
		})
	}

	if _, _, err := NewCoin(1, 0, "IOV").Divide(0); !errors.ErrInput.Is(err) {
		t.Fatal("zero pieces must be rejected")
	}

	// Splitting a large value into a huge number of pieces leaves a
	// leftover too big to convert to fractional units.
	if _, _, err := NewCoin(MaxInt, 0, "IOV").Divide(100000000000); !errors.ErrOverflow.Is(err) {
		t.Fatal("oversized leftover must be rejected")
	}
}

func TestCoinCompare(t *testing.T) {
	small := NewCoin(1, 0, "IOV")
	big := NewCoin(1, 1, "IOV")

	if !big.IsGTE(small) || small.IsGTE(big) {
		t.Fatal("comparison is broken")
	}
	if !small.IsGTE(small) {
		t.Fatal("IsGTE must be inclusive")
	}
	if !small.IsPositive() || NewCoin(0, 0, "IOV").IsPositive() {
		t.Fatal("IsPositive is broken")
	}
	if NewCoin(-1, 0, "IOV").IsNonNegative() {
		t.Fatal("negative coin cannot be non-negative")
	}
}
