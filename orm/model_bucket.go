package orm

import (
	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/errors"
)

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	bastion.Persistent

	// Validate returns an error if the model is not in a valid state.
	Validate() error
}

// ModelBucket is implemented by buckets that operate on a single model type.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model. This method returns ErrNotFound if the entity does not
	// exist in the database.
	One(db bastion.ReadOnlyKVStore, key []byte, dest Model) error

	// Put saves given model in the database. Before inserting into
	// database, model is validated using its Validate method. If the key
	// is nil and the bucket was created with an ID sequence, a sequence
	// generator is used to create a unique key value.
	// Using a key that already exists in the database overwrites the
	// stored entity.
	// Returns the key under which the model was stored.
	Put(db bastion.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db bastion.KVStore, key []byte) error

	// Has returns nil if an entity with given primary key value exists.
	// It returns ErrNotFound if no entity can be found.
	Has(db bastion.ReadOnlyKVStore, key []byte) error

	// PrefixScan iterates over all entities whose primary key starts
	// with given prefix, in ascending key order. The raw iterator is
	// returned and the caller is responsible for closing it. Keys
	// produced by the iterator carry the full database prefix.
	PrefixScan(db bastion.ReadOnlyKVStore, prefix []byte) (bastion.Iterator, error)

	// Register registers this bucket for queries under the given name.
	Register(name string, r bastion.QueryRouter)
}

// NewModelBucket returns a ModelBucket instance. This implementation relies
// on a bucket instance. Final implementation should operate directly on the
// KVStore instead.
func NewModelBucket(name string, opts ...ModelBucketOption) ModelBucket {
	b := &modelBucket{
		name:   name,
		prefix: []byte(name + ":"),
	}
	for _, fn := range opts {
		fn(b)
	}
	return b
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(b *modelBucket)

// WithIDSequence configures the bucket to generate a primary key on Put
// whenever a nil key is given.
func WithIDSequence() ModelBucketOption {
	return func(b *modelBucket) {
		seq := NewSequence(b.name, "id")
		b.idSeq = &seq
	}
}

type modelBucket struct {
	name   string
	prefix []byte
	idSeq  *Sequence
}

var _ ModelBucket = (*modelBucket)(nil)

func (b *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	out = append(out, b.prefix...)
	return append(out, key...)
}

func (b *modelBucket) One(db bastion.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.dbKey(key))
	if err != nil {
		return errors.Wrapf(err, "cannot load %q", b.name)
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%q not in bucket %q", key, b.name)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %q", b.name)
	}
	return nil
}

func (b *modelBucket) Put(db bastion.KVStore, key []byte, m Model) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}
	if len(key) == 0 {
		if b.idSeq == nil {
			return nil, errors.Wrap(errors.ErrInput, "a key is required")
		}
		var err error
		key, err = b.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "cannot acquire a key")
		}
	}
	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot marshal %q", b.name)
	}
	if err := db.Set(b.dbKey(key), raw); err != nil {
		return nil, errors.Wrapf(err, "cannot store %q", b.name)
	}
	return key, nil
}

func (b *modelBucket) Delete(db bastion.KVStore, key []byte) error {
	if err := b.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(b.dbKey(key)); err != nil {
		return errors.Wrapf(err, "cannot delete from %q", b.name)
	}
	return nil
}

func (b *modelBucket) Has(db bastion.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		// A nil key is never a valid primary key and can never exist.
		return errors.Wrap(errors.ErrNotFound, "nil key")
	}
	ok, err := db.Has(b.dbKey(key))
	if err != nil {
		return errors.Wrapf(err, "cannot check %q", b.name)
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%q not in bucket %q", key, b.name)
	}
	return nil
}

func (b *modelBucket) PrefixScan(db bastion.ReadOnlyKVStore, prefix []byte) (bastion.Iterator, error) {
	start := b.dbKey(prefix)
	return db.Iterator(start, prefixEnd(start))
}

func (b *modelBucket) Register(name string, r bastion.QueryRouter) {
	r.Register("/"+name, b)
}

// Query implements bastion.QueryHandler to satisfy read requests against
// this bucket. A key query returns at most one model, a prefix query all
// models under the prefix.
func (b *modelBucket) Query(db bastion.ReadOnlyKVStore, mod string, data []byte) ([]bastion.Model, error) {
	switch mod {
	case bastion.KeyQueryMod:
		key := b.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []bastion.Model{{Key: key, Value: value}}, nil
	case bastion.PrefixQueryMod:
		it, err := b.PrefixScan(db, data)
		if err != nil {
			return nil, err
		}
		defer it.Close()
		var out []bastion.Model
		for it.Valid() {
			key := append([]byte(nil), it.Key()...)
			value := append([]byte(nil), it.Value()...)
			out = append(out, bastion.Model{Key: key, Value: value})
			if err := it.Next(); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}
}

// prefixEnd returns the first key outside the prefix range. Nil when the
// prefix is all 0xff and the range is unbounded above.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
