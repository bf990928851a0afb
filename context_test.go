package bastion

import (
	"context"
	"testing"
)

func TestHeightContext(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetHeight(ctx); ok {
		t.Fatal("height must not be set on a fresh context")
	}

	ctx = WithHeight(ctx, 123)
	h, ok := GetHeight(ctx)
	if !ok || h != 123 {
		t.Fatalf("want 123, got %d (%v)", h, ok)
	}
}

func TestIsReleased(t *testing.T) {
	ctx := WithHeight(context.Background(), 100)

	cases := map[string]struct {
		release int64
		want    bool
	}{
		"in the past":     {release: 50, want: true},
		"exactly now":     {release: 100, want: true},
		"one block ahead": {release: 101, want: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := IsReleased(ctx, tc.release); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsReleasedPanicsWithoutHeight(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("missing height must panic")
		}
	}()
	IsReleased(context.Background(), 1)
}

func TestChainID(t *testing.T) {
	ctx := WithChainID(context.Background(), "test-chain-1")
	id, err := GetChainID(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
	if id != "test-chain-1" {
		t.Fatalf("unexpected chain id: %q", id)
	}

	if _, err := GetChainID(context.Background()); err == nil {
		t.Fatal("missing chain id must error")
	}
}
