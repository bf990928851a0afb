package bastiontest

import (
	"encoding/binary"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/crypto"
)

// SequenceID returns an ID encoded as if it was generated by an orm
// sequence.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// NewKey returns a newly generated private key.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a newly generated key.
func NewCondition() bastion.Condition {
	return NewKey().PublicKey().Condition()
}
