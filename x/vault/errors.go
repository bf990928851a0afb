package vault

import (
	"github.com/iov-one/bastion/errors"
)

var (
	// ErrInvalidSigner is returned when the signer set is malformed or a
	// given identity cannot act as a signer.
	ErrInvalidSigner = errors.Register(1100, "invalid signer")

	// ErrInsufficientSignatures is returned when the collected
	// signatures do not reach the required quorum, or when a quorum
	// configuration is unsatisfiable.
	ErrInsufficientSignatures = errors.Register(1101, "insufficient signatures")

	// ErrAlreadySigned is returned when a signer signs the same vault or
	// the same withdrawal request a second time.
	ErrAlreadySigned = errors.Register(1102, "already signed")

	// ErrTimeLock is returned when a release is attempted before the
	// time lock expired.
	ErrTimeLock = errors.Register(1103, "time lock not expired")

	// ErrGuardianRequired is returned when emergency unlock is enabled
	// without a guardian.
	ErrGuardianRequired = errors.Register(1104, "guardian required")

	// ErrEmergencyUnlock is returned when the emergency path is used on
	// a vault that does not allow it, or before its height threshold.
	ErrEmergencyUnlock = errors.Register(1105, "emergency unlock not allowed")

	// ErrInsufficientBalance is returned when a withdrawal request asks
	// for more than the unspent vault balance.
	ErrInsufficientBalance = errors.Register(1106, "insufficient balance")

	// ErrWithdrawalAmount is returned when a withdrawal request amount
	// violates the partial unlock bound.
	ErrWithdrawalAmount = errors.Register(1107, "invalid withdrawal amount")
)
