package bastion

import (
	"reflect"

	"github.com/iov-one/bastion/errors"
)

// Persistent is implemented by anything that can be stored or sent over the
// wire. The codec behind Marshal/Unmarshal is an implementation detail of
// the implementing type.
type Persistent interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// Msg is a request to make a state transition. Messages are dispatched by
// path and must validate their own shape; handlers validate everything that
// requires state or context.
type Msg interface {
	Persistent

	// Path returns the routing path of this message, in the form
	// "extension/operation".
	Path() string

	// Validate performs stateless checks on the message content.
	Validate() error
}

// Tx represents the body processed within a single operation. It carries
// exactly one message.
type Tx interface {
	Persistent

	// GetMsg returns the action to be processed.
	GetMsg() (Msg, error)
}

// LoadMsg extracts the message from the transaction into given destination
// and validates it. The destination must be a pointer to the concrete
// message type carried by the transaction.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}

	if reflect.TypeOf(msg) != reflect.TypeOf(destination) {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", destination, msg)
	}
	reflect.ValueOf(destination).Elem().Set(reflect.ValueOf(msg).Elem())

	if err := destination.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
