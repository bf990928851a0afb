package utils

import (
	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/errors"
)

// Savepoint will isolate all data inside of the call, and either commit or
// roll back the entire batch of writes atomically. When the wrapped handler
// returns an error, no partial state of the operation is ever visible.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ bastion.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator, but you must call OnCheck or
// OnDeliver, or it is a noop.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that isolates all Check calls.
func (s Savepoint) OnCheck() Savepoint {
	return Savepoint{onCheck: true, onDeliver: s.onDeliver}
}

// OnDeliver returns a savepoint that isolates all Deliver calls.
func (s Savepoint) OnDeliver() Savepoint {
	return Savepoint{onCheck: s.onCheck, onDeliver: true}
}

// Check runs the next checker inside a cache wrap, discarding all writes on
// error.
func (s Savepoint) Check(ctx bastion.Context, store bastion.KVStore, tx bastion.Tx, next bastion.Checker) (*bastion.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	cache, err := s.cacheWrap(store)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return res, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot write cache")
	}
	return res, nil
}

// Deliver runs the next deliverer inside a cache wrap, discarding all writes
// on error.
func (s Savepoint) Deliver(ctx bastion.Context, store bastion.KVStore, tx bastion.Tx, next bastion.Deliverer) (*bastion.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	cache, err := s.cacheWrap(store)
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return res, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot write cache")
	}
	return res, nil
}

func (s Savepoint) cacheWrap(store bastion.KVStore) (bastion.KVCacheWrap, error) {
	cstore, ok := store.(bastion.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrDatabase, "savepoint requires a cacheable store")
	}
	return cstore.CacheWrap(), nil
}
