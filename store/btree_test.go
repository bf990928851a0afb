package store

import (
	"bytes"
	"testing"
)

func TestBTreeCacheGetSetDelete(t *testing.T) {
	base := MemStore()
	if err := base.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	cache := base.CacheWrap()

	// Reads fall through to the backing store.
	v, err := cache.Get([]byte("a"))
	if err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if !bytes.Equal(v, []byte("1")) {
		t.Fatalf("unexpected value: %q", v)
	}

	// Writes are only visible in the cache.
	if err := cache.Set([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if has, _ := base.Has([]byte("b")); has {
		t.Fatal("write must not be visible in the parent before Write")
	}

	// A delete shadows the parent value.
	if err := cache.Delete([]byte("a")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	if has, _ := cache.Has([]byte("a")); has {
		t.Fatal("deleted key must not be visible in the cache")
	}
	if has, _ := base.Has([]byte("a")); !has {
		t.Fatal("delete must not reach the parent before Write")
	}

	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write cache: %+v", err)
	}
	if has, _ := base.Has([]byte("a")); has {
		t.Fatal("delete must be applied on Write")
	}
	v, _ = base.Get([]byte("b"))
	if !bytes.Equal(v, []byte("2")) {
		t.Fatal("set must be applied on Write")
	}
}

func TestBTreeCacheDiscard(t *testing.T) {
	base := MemStore()
	if err := base.Set([]byte("k"), []byte("committed")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	cache := base.CacheWrap()
	if err := cache.Set([]byte("k"), []byte("scratch")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := cache.Set([]byte("extra"), []byte("x")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	cache.Discard()

	v, err := base.Get([]byte("k"))
	if err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if !bytes.Equal(v, []byte("committed")) {
		t.Fatalf("discard must not leak writes, got %q", v)
	}
	if has, _ := base.Has([]byte("extra")); has {
		t.Fatal("discard must not leak writes")
	}
}

func TestBTreeCacheIterator(t *testing.T) {
	base := MemStore()
	for _, kv := range [][2]string{{"a", "1"}, {"c", "3"}, {"e", "5"}} {
		if err := base.Set([]byte(kv[0]), []byte(kv[1])); err != nil {
			t.Fatalf("cannot set: %+v", err)
		}
	}

	cache := base.CacheWrap()
	// Overwrite, insert and delete to exercise all merge branches.
	if err := cache.Set([]byte("c"), []byte("C")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := cache.Set([]byte("b"), []byte("B")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := cache.Delete([]byte("e")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}

	assertKeys := func(t *testing.T, it Iterator, want [][2]string) {
		t.Helper()
		defer it.Close()
		for i, kv := range want {
			if !it.Valid() {
				t.Fatalf("iterator exhausted at %d", i)
			}
			if !bytes.Equal(it.Key(), []byte(kv[0])) {
				t.Fatalf("key %d: want %q, got %q", i, kv[0], it.Key())
			}
			if !bytes.Equal(it.Value(), []byte(kv[1])) {
				t.Fatalf("value %d: want %q, got %q", i, kv[1], it.Value())
			}
			if err := it.Next(); err != nil {
				t.Fatalf("cannot advance: %+v", err)
			}
		}
		if it.Valid() {
			t.Fatalf("iterator not exhausted, next key %q", it.Key())
		}
	}

	it, err := cache.Iterator(nil, nil)
	if err != nil {
		t.Fatalf("cannot iterate: %+v", err)
	}
	assertKeys(t, it, [][2]string{{"a", "1"}, {"b", "B"}, {"c", "C"}})

	rit, err := cache.ReverseIterator(nil, nil)
	if err != nil {
		t.Fatalf("cannot iterate: %+v", err)
	}
	assertKeys(t, rit, [][2]string{{"c", "C"}, {"b", "B"}, {"a", "1"}})

	// Bounded range, end exclusive.
	it, err = cache.Iterator([]byte("b"), []byte("c"))
	if err != nil {
		t.Fatalf("cannot iterate: %+v", err)
	}
	assertKeys(t, it, [][2]string{{"b", "B"}})
}

func TestBTreeCacheReverseIteratorSingleCachedEntry(t *testing.T) {
	assertKeys := func(t *testing.T, it Iterator, want []string) {
		t.Helper()
		defer it.Close()
		for i, k := range want {
			if !it.Valid() {
				t.Fatalf("iterator exhausted at %d", i)
			}
			if !bytes.Equal(it.Key(), []byte(k)) {
				t.Fatalf("key %d: want %q, got %q", i, k, it.Key())
			}
			if err := it.Next(); err != nil {
				t.Fatalf("cannot advance: %+v", err)
			}
		}
		if it.Valid() {
			t.Fatalf("iterator not exhausted, next key %q", it.Key())
		}
	}

	// With a single entry in the cache the merge direction cannot be read
	// off the snapshot, so it must come from the caller.
	t.Run("one cached set", func(t *testing.T) {
		base := MemStore()
		for _, k := range []string{"a", "z"} {
			if err := base.Set([]byte(k), []byte("base")); err != nil {
				t.Fatalf("cannot set: %+v", err)
			}
		}
		cache := base.CacheWrap()
		if err := cache.Set([]byte("m"), []byte("cached")); err != nil {
			t.Fatalf("cannot set: %+v", err)
		}

		rit, err := cache.ReverseIterator(nil, nil)
		if err != nil {
			t.Fatalf("cannot iterate: %+v", err)
		}
		assertKeys(t, rit, []string{"z", "m", "a"})
	})

	t.Run("one cached delete", func(t *testing.T) {
		base := MemStore()
		for _, k := range []string{"a", "m", "z"} {
			if err := base.Set([]byte(k), []byte("base")); err != nil {
				t.Fatalf("cannot set: %+v", err)
			}
		}
		cache := base.CacheWrap()
		if err := cache.Delete([]byte("m")); err != nil {
			t.Fatalf("cannot delete: %+v", err)
		}

		rit, err := cache.ReverseIterator(nil, nil)
		if err != nil {
			t.Fatalf("cannot iterate: %+v", err)
		}
		assertKeys(t, rit, []string{"z", "a"})
	})
}

func TestBTreeCacheNested(t *testing.T) {
	base := MemStore()
	outer := base.CacheWrap()
	if err := outer.Set([]byte("k"), []byte("outer")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	inner := outer.CacheWrap()
	if err := inner.Set([]byte("k"), []byte("inner")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	inner.Discard()

	v, err := outer.Get([]byte("k"))
	if err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if !bytes.Equal(v, []byte("outer")) {
		t.Fatalf("inner discard must not touch outer, got %q", v)
	}

	if err := outer.Write(); err != nil {
		t.Fatalf("cannot write: %+v", err)
	}
	v, _ = base.Get([]byte("k"))
	if !bytes.Equal(v, []byte("outer")) {
		t.Fatalf("outer write must reach the base, got %q", v)
	}
}
