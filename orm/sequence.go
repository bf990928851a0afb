package orm

import (
	"encoding/binary"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/errors"
)

// Sequence maintains a counter inside the kv store. Every allocation writes
// back the increased value, so ids are never reused even across restarts.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequences are namespaced by the
// bucket they belong to and their own name.
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db bastion.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db)
	return bz, err
}

// NextInt increments the sequence and returns its state as int64.
func (s Sequence) NextInt(db bastion.KVStore) (int64, error) {
	val, _, err := s.increment(db)
	return val, err
}

// Latest returns the recently returned value of the sequence, without
// modifying its state. Zero if the sequence was never incremented.
func (s Sequence) Latest(db bastion.ReadOnlyKVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, errors.Wrap(err, "cannot get sequence state")
	}
	if raw == nil {
		return 0, nil, nil
	}
	return decodeSequence(raw), raw, nil
}

func (s Sequence) increment(db bastion.KVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, errors.Wrap(err, "cannot get sequence state")
	}
	val := decodeSequence(raw) + 1
	bz := EncodeSequence(val)
	if err := db.Set(s.id, bz); err != nil {
		return 0, nil, errors.Wrap(err, "cannot store sequence state")
	}
	return val, bz, nil
}

func decodeSequence(raw []byte) int64 {
	if raw == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(raw))
}

// EncodeSequence renders a sequence value in its 8 byte big endian key form.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
