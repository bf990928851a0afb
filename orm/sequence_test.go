package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/bastion/store"
)

func TestSequenceIncrements(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("vaults", "id")

	for want := int64(1); want <= 5; want++ {
		got, err := seq.NextInt(db)
		if err != nil {
			t.Fatalf("cannot increment: %+v", err)
		}
		if got != want {
			t.Fatalf("want %d, got %d", want, got)
		}
	}

	latest, raw, err := seq.Latest(db)
	if err != nil {
		t.Fatalf("cannot read latest: %+v", err)
	}
	if latest != 5 {
		t.Fatalf("want latest 5, got %d", latest)
	}
	if !bytes.Equal(raw, EncodeSequence(5)) {
		t.Fatalf("unexpected raw form: %X", raw)
	}
}

func TestSequenceNamespaces(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("vaults", "id")
	b := NewSequence("withdrawals", "id")

	if _, err := a.NextInt(db); err != nil {
		t.Fatalf("cannot increment: %+v", err)
	}
	got, err := b.NextInt(db)
	if err != nil {
		t.Fatalf("cannot increment: %+v", err)
	}
	if got != 1 {
		t.Fatalf("sequences must be independent, got %d", got)
	}
}

func TestSequenceLatestOnFreshStore(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("vaults", "id")

	latest, raw, err := seq.Latest(db)
	if err != nil {
		t.Fatalf("cannot read latest: %+v", err)
	}
	if latest != 0 || raw != nil {
		t.Fatalf("fresh sequence must be zero, got %d %X", latest, raw)
	}
}
