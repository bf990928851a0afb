package store

import (
	"bytes"

	"github.com/google/btree"
)

// source marks where the current item comes from.
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter merges a snapshot of cached btree items with the iterator of the
// backing store, honoring overwrites and deletes recorded in the cache.
type itemIter struct {
	items []btree.Item
	idx   int
	// parent is the backing store iterator; merged so cached writes shadow
	// committed values under the same key.
	parent  Iterator
	reverse bool
}

var _ Iterator = (*itemIter)(nil)

// newItemIter merges the given snapshot with the parent iterator. Both must
// already walk in the same direction; reverse flips the key comparison so
// the merge order matches descending iteration.
func newItemIter(items []btree.Item, parent Iterator, reverse bool) (Iterator, error) {
	iter := &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := iter.skipAllDeleted(); err != nil {
		iter.Close()
		return nil, err
	}
	return iter, nil
}

// Valid implements Iterator and returns true iff it can be read.
func (i *itemIter) Valid() bool {
	return i.cacheValid() || i.parentValid()
}

// Next moves the iterator to the next sequential key, as defined by the
// order of iteration. Panics when exhausted.
func (i *itemIter) Next() error {
	switch i.firstKey() {
	case us:
		i.idx++
	case both:
		i.idx++
		fallthrough
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		panic("advanced past the end")
	}

	// Keep advancing over all deleted entries.
	return i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() []byte {
	switch i.firstKey() {
	case us, both:
		return i.cur().Key()
	case parent:
		return i.parent.Key()
	default: // none
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() []byte {
	switch i.firstKey() {
	case us, both:
		return i.cur().(setItem).value
	case parent:
		return i.parent.Value()
	default: // none
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.items = nil
}

// skipAllDeleted loops and skips any number of deleted items.
func (i *itemIter) skipAllDeleted() error {
	for {
		skipped, err := i.skipDeleted()
		if err != nil {
			return err
		}
		if !skipped {
			return nil
		}
	}
}

// skipDeleted jumps over an element we can safely fast-forward; returns
// true if it skipped, so the caller can try again.
func (i *itemIter) skipDeleted() (bool, error) {
	src := i.firstKey()
	if src == us || src == both {
		if _, ok := i.cur().(deletedItem); ok {
			i.idx++
			// If the parent had the same key, advance it as well.
			if src == both {
				if err := i.parent.Next(); err != nil {
					return false, err
				}
			}
			return true, nil
		}
	}
	return false, nil
}

// firstKey selects the iterator holding the next key in iteration order.
func (i *itemIter) firstKey() source {
	// If only one or none is valid, it is clear which to use.
	if !i.parentValid() {
		if !i.cacheValid() {
			return none
		}
		return us
	} else if !i.cacheValid() {
		return parent
	}

	cmp := bytes.Compare(i.parent.Key(), i.cur().Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

func (i *itemIter) cur() keyer {
	return i.items[i.idx].(keyer)
}

func (i *itemIter) cacheValid() bool {
	return i.idx < len(i.items)
}

// parentValid makes sure the parent is non-nil before checking validity.
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
