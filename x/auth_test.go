package x

import (
	"context"
	"testing"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/bastiontest"
)

func TestAuth(t *testing.T) {
	a := bastiontest.NewCondition()
	b := bastiontest.NewCondition()
	c := bastiontest.NewCondition()

	ctx := context.Background()
	auth := &bastiontest.Auth{Signers: []bastion.Condition{a, b}}

	if !auth.HasAddress(ctx, a.Address()) {
		t.Fatal("a must be authenticated")
	}
	if auth.HasAddress(ctx, c.Address()) {
		t.Fatal("c must not be authenticated")
	}

	if got := MainSigner(ctx, auth); !got.Equals(a) {
		t.Fatalf("unexpected main signer: %s", got)
	}
	if got := MainSigner(ctx, &bastiontest.Auth{}); got != nil {
		t.Fatalf("want nil main signer, got %s", got)
	}
}

func TestChainAuth(t *testing.T) {
	a := bastiontest.NewCondition()
	b := bastiontest.NewCondition()

	ctx := context.Background()
	chain := ChainAuth(
		&bastiontest.Auth{Signer: a},
		&bastiontest.Auth{Signer: b},
	)

	conds := chain.GetConditions(ctx)
	if len(conds) != 2 {
		t.Fatalf("want 2 conditions, got %d", len(conds))
	}
	if !chain.HasAddress(ctx, b.Address()) {
		t.Fatal("b must be authenticated through the chain")
	}
}

func TestHasAllAddresses(t *testing.T) {
	a := bastiontest.NewCondition()
	b := bastiontest.NewCondition()
	c := bastiontest.NewCondition()

	ctx := context.Background()
	auth := &bastiontest.Auth{Signers: []bastion.Condition{a, b}}

	all := []bastion.Address{a.Address(), b.Address()}
	if !HasAllAddresses(ctx, auth, all) {
		t.Fatal("all signers present")
	}
	more := append(all, c.Address())
	if HasAllAddresses(ctx, auth, more) {
		t.Fatal("c is missing")
	}
}

func TestHasNAddresses(t *testing.T) {
	a := bastiontest.NewCondition()
	b := bastiontest.NewCondition()
	c := bastiontest.NewCondition()

	ctx := context.Background()
	auth := &bastiontest.Auth{Signers: []bastion.Condition{a, b}}
	requested := []bastion.Address{a.Address(), b.Address(), c.Address()}

	cases := map[string]struct {
		n    int
		want bool
	}{
		"zero is always true": {n: 0, want: true},
		"one of three":        {n: 1, want: true},
		"two of three":        {n: 2, want: true},
		"three of three":      {n: 3, want: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := HasNAddresses(ctx, auth, requested, tc.n); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}
