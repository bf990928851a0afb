package bastiontest

import (
	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/errors"
)

// Tx is a mock implementing bastion.Tx interface, carrying a single message.
type Tx struct {
	// Msg is the message this transaction is carrying.
	Msg bastion.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ bastion.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (bastion.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	if tx.Msg == nil {
		return nil, nil
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if tx.Err != nil {
		return tx.Err
	}
	if tx.Msg == nil {
		return errors.Wrap(errors.ErrState, "no message to unmarshal into")
	}
	return tx.Msg.Unmarshal(raw)
}
