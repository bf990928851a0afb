package bastion

// ReadOnlyKVStore is a simple interface to read data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is
	// exclusive. Start must be less than end, or the Iterator is
	// invalid. A nil bound iterates from the first/to the last key.
	// CONTRACT: no writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator over a domain of keys in descending order. End is
	// exclusive. Start must be greater than end, or the Iterator is
	// invalid.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// KVStore is a simple interface to get/set data.
type KVStore interface {
	ReadOnlyKVStore

	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error
}

// Iterator allows iteration over a set of key/value pairs within a range of
// keys, either preloaded or loaded on demand.
//
//	var itr Iterator = ...
//	defer itr.Close()
//
//	for ; itr.Valid(); itr.Next() {
//		k, v := itr.Key(), itr.Value()
//		...
//	}
type Iterator interface {
	// Valid returns whether the current position is valid. Once invalid,
	// an Iterator is forever invalid.
	Valid() bool

	// Next moves the iterator to the next sequential key in the
	// database, as defined by the order of iteration. Panics when
	// invalid.
	Next() error

	// Key returns the key of the cursor. Panics when invalid.
	// CONTRACT: key is read-only.
	Key() []byte

	// Value returns the value of the cursor. Panics when invalid.
	// CONTRACT: value is read-only.
	Value() []byte

	// Close releases the Iterator.
	Close()
}

// SetDeleter is a minimal interface for writing.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Batch groups writes to be performed together against an underlying store.
type Batch interface {
	SetDeleter
	Write() error
}

// CacheableKVStore is a KVStore that supports cache-wrapping.
//
// CacheWrap should not return a Committer, since Commit on cache-wraps
// makes no sense.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap maintains a scratch-pad of uncommitted data that is visible
// to all queries. At the end, call Write to flush it to the parent store,
// or Discard to drop it.
type KVCacheWrap interface {
	// CacheableKVStore allows using this cache recursively.
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data.
	Discard()
}

// CommitKVStore is a store that can persist state, load it on start up,
// and report the latest committed version.
type CommitKVStore interface {
	// Get returns the value at the last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a scratch-pad to perform writes against.
	CacheWrap() KVCacheWrap

	// Commit persists the next version and returns its info.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version. If there was
	// a crash during the last commit, it is guaranteed to return a
	// stable state, even if older.
	LoadLatestVersion() error

	// LatestVersion returns info on the latest version saved to disk.
	LatestVersion() CommitID

	// Close releases the backing engine.
	Close() error
}

// CommitID contains the committed version number and its hash.
type CommitID struct {
	Version int64
	Hash    []byte
}

// Model is a generic kv-pair returned from queries.
type Model struct {
	Key   []byte
	Value []byte
}
