package cash

import (
	"github.com/iov-one/bastion/errors"
)

var (
	// ErrInsufficientFunds is returned when the source wallet does not
	// hold enough coins to perform a move.
	ErrInsufficientFunds = errors.Register(1000, "insufficient funds")

	// ErrEmptyAccount is returned when a move is attempted out of an
	// account that holds nothing at all.
	ErrEmptyAccount = errors.Register(1001, "empty account")
)
