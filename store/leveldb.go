package store

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	ldbiter "github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/iov-one/bastion/errors"
)

// Key space inside leveldb. User data lives under dataPrefix so the commit
// metadata can never collide with it.
var (
	dataPrefix     = []byte{'d'}
	dataPrefixEnd  = []byte{'e'}
	versionMetaKey = []byte("m:version")
	hashMetaKey    = []byte("m:hash")
)

// LevelDBStore is a CommitKVStore backed by goleveldb. Writes are staged
// through CacheWrap and only hit disk on Commit, inside one atomic leveldb
// batch together with the version metadata. A crash between commits leaves
// the previous version intact.
type LevelDBStore struct {
	db      *leveldb.DB
	pending []Op
	version int64
	hash    []byte
}

var _ CommitKVStore = (*LevelDBStore)(nil)

// NewLevelDBStore opens (or creates) a database under the given path.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &LevelDBStore{db: db}, nil
}

// NewMemLevelDBStore keeps all data in memory. Intended for tests.
func NewMemLevelDBStore() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &LevelDBStore{db: db}, nil
}

func dataKey(key []byte) []byte {
	out := make([]byte, 0, len(dataPrefix)+len(key))
	out = append(out, dataPrefix...)
	return append(out, key...)
}

// Get returns the value at the last committed state.
func (s *LevelDBStore) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(dataKey(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return value, nil
}

// Has checks if a key exists at the last committed state.
func (s *LevelDBStore) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(dataKey(key), nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Iterator over the committed state, ascending. End is exclusive.
func (s *LevelDBStore) Iterator(start, end []byte) (Iterator, error) {
	it := s.db.NewIterator(s.dataRange(start, end), nil)
	return newLevelIter(it, false), nil
}

// ReverseIterator over the committed state, descending. End is exclusive.
func (s *LevelDBStore) ReverseIterator(start, end []byte) (Iterator, error) {
	it := s.db.NewIterator(s.dataRange(start, end), nil)
	return newLevelIter(it, true), nil
}

func (s *LevelDBStore) dataRange(start, end []byte) *util.Range {
	r := &util.Range{Start: dataPrefix, Limit: dataPrefixEnd}
	if start != nil {
		r.Start = dataKey(start)
	}
	if end != nil {
		r.Limit = dataKey(end)
	}
	return r
}

// CacheWrap returns a scratch-pad. Writing the wrap stages the operations in
// memory; they become durable on the next Commit.
func (s *LevelDBStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s, NewNonAtomicBatch(stager{s}), nil)
}

// Commit flushes all staged operations and the bumped version metadata to
// disk in one atomic batch.
func (s *LevelDBStore) Commit() (CommitID, error) {
	version := s.version + 1
	hash := nextHash(s.hash, s.pending)

	batch := new(leveldb.Batch)
	for _, op := range s.pending {
		if op.IsSetOp() {
			batch.Put(dataKey(op.Key()), op.value)
		} else {
			batch.Delete(dataKey(op.Key()))
		}
	}
	var vraw [8]byte
	binary.BigEndian.PutUint64(vraw[:], uint64(version))
	batch.Put(versionMetaKey, vraw[:])
	batch.Put(hashMetaKey, hash)

	wopts := &opt.WriteOptions{Sync: true}
	if err := s.db.Write(batch, wopts); err != nil {
		return CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	s.pending = nil
	s.version = version
	s.hash = hash
	return CommitID{Version: version, Hash: hash}, nil
}

// nextHash chains the previous state hash with all operations of this
// commit. Deterministic as the operations keep their apply order.
func nextHash(prev []byte, ops []Op) []byte {
	h := sha256.New()
	_, _ = h.Write(prev)
	for _, op := range ops {
		_, _ = h.Write(op.Key())
		if op.IsSetOp() {
			_, _ = h.Write(op.value)
		}
	}
	return h.Sum(nil)
}

// LoadLatestVersion reads the commit metadata and drops anything staged.
func (s *LevelDBStore) LoadLatestVersion() error {
	s.pending = nil

	vraw, err := s.db.Get(versionMetaKey, nil)
	if err == leveldb.ErrNotFound {
		s.version = 0
		s.hash = nil
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if len(vraw) != 8 {
		return errors.Wrapf(errors.ErrDatabase, "corrupt version metadata: %X", vraw)
	}
	s.version = int64(binary.BigEndian.Uint64(vraw))

	hash, err := s.db.Get(hashMetaKey, nil)
	if err != nil && err != leveldb.ErrNotFound {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.hash = hash
	return nil
}

// LatestVersion returns info on the latest version saved to disk.
func (s *LevelDBStore) LatestVersion() CommitID {
	return CommitID{Version: s.version, Hash: s.hash}
}

// Close releases the backing engine.
func (s *LevelDBStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// stager redirects cache-wrap writes into the pending commit.
type stager struct {
	s *LevelDBStore
}

var _ SetDeleter = stager{}

func (st stager) Set(key, value []byte) error {
	st.s.pending = append(st.s.pending, SetOp(key, value))
	return nil
}

func (st stager) Delete(key []byte) error {
	st.s.pending = append(st.s.pending, DelOp(key))
	return nil
}

// levelIter adapts the goleveldb iterator, which starts positioned before
// the first entry, to our always-positioned contract. It also strips the
// data prefix from returned keys.
type levelIter struct {
	it      ldbiter.Iterator
	reverse bool
	valid   bool
}

var _ Iterator = (*levelIter)(nil)

func newLevelIter(it ldbiter.Iterator, reverse bool) *levelIter {
	l := &levelIter{it: it, reverse: reverse}
	if reverse {
		l.valid = it.Last()
	} else {
		l.valid = it.First()
	}
	return l
}

func (l *levelIter) Valid() bool {
	return l.valid
}

func (l *levelIter) Next() error {
	if !l.valid {
		panic("advanced past the end")
	}
	if l.reverse {
		l.valid = l.it.Prev()
	} else {
		l.valid = l.it.Next()
	}
	if err := l.it.Error(); err != nil {
		l.valid = false
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (l *levelIter) Key() []byte {
	if !l.valid {
		panic("invalid iterator")
	}
	key := l.it.Key()
	out := make([]byte, len(key)-len(dataPrefix))
	copy(out, key[len(dataPrefix):])
	return out
}

func (l *levelIter) Value() []byte {
	if !l.valid {
		panic("invalid iterator")
	}
	value := l.it.Value()
	out := make([]byte, len(value))
	copy(out, value)
	return out
}

func (l *levelIter) Close() {
	l.it.Release()
}
