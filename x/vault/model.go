package vault

import (
	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/errors"
	"github.com/iov-one/bastion/orm"
)

const (
	// VaultBucketName is where vault records are stored.
	VaultBucketName = "vault"
	// WithdrawalBucketName is where withdrawal requests are stored,
	// keyed by vault id and withdrawal id.
	WithdrawalBucketName = "wdrl"

	// maxSigners bounds the signer set of a vault.
	maxSigners = 5
)

var _ orm.Model = (*Vault)(nil)
var _ orm.Model = (*WithdrawalRequest)(nil)

// Validate ensures the vault invariants hold. It is run on every store
// write, so no operation can persist a broken record.
func (v *Vault) Validate() error {
	if v.ReleaseTime <= 0 {
		return errors.Wrap(errors.ErrInput, "release time must be greater than zero")
	}
	if len(v.Signers) == 0 || len(v.Signers) > maxSigners {
		return errors.Wrapf(ErrInvalidSigner, "want 1 to %d signers, got %d", maxSigners, len(v.Signers))
	}
	if err := validateDistinct(v.Signers); err != nil {
		return errors.Wrap(err, "signers")
	}
	if v.RequiredSignatures < 1 || int(v.RequiredSignatures) > len(v.Signers) {
		return errors.Wrapf(ErrInsufficientSignatures, "required signatures %d outside of 1..%d", v.RequiredSignatures, len(v.Signers))
	}
	if v.Partial.UnlockThreshold <= 0 {
		return errors.Wrap(errors.ErrInput, "partial unlock threshold must be greater than zero")
	}
	if v.Partial.SignaturesRequired > v.RequiredSignatures {
		return errors.Wrapf(ErrInsufficientSignatures, "partial quorum %d above required signatures %d", v.Partial.SignaturesRequired, v.RequiredSignatures)
	}
	if v.EmergencyUnlockEnabled && v.Guardian == nil {
		return errors.Wrap(ErrGuardianRequired, "emergency unlock enabled")
	}
	if v.Guardian != nil {
		if err := v.Guardian.Validate(); err != nil {
			return errors.Wrap(err, "guardian")
		}
	}
	if v.EmergencyUnlockAfter != nil && *v.EmergencyUnlockAfter <= 0 {
		return errors.Wrap(errors.ErrInput, "emergency unlock threshold must be greater than zero")
	}
	if err := v.TotalAmount.Validate(); err != nil {
		return errors.Wrap(err, "total amount")
	}
	if !v.TotalAmount.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative total amount")
	}
	if !v.WithdrawnAmount.IsZero() {
		if err := v.WithdrawnAmount.Validate(); err != nil {
			return errors.Wrap(err, "withdrawn amount")
		}
		if !v.WithdrawnAmount.IsNonNegative() {
			return errors.Wrap(errors.ErrAmount, "negative withdrawn amount")
		}
		if !v.WithdrawnAmount.SameType(v.TotalAmount) {
			return errors.Wrapf(errors.ErrCurrency, "%s != %s", v.WithdrawnAmount.Ticker, v.TotalAmount.Ticker)
		}
		if !v.TotalAmount.IsGTE(v.WithdrawnAmount) {
			return errors.Wrap(errors.ErrAmount, "withdrawn above total amount")
		}
	}
	if err := validateSubset(v.SignedSigners, v.Signers); err != nil {
		return errors.Wrap(err, "signed signers")
	}
	return nil
}

// Validate ensures the withdrawal request invariants hold. Membership of
// the signed signers in the vault's signer set is enforced at signing time,
// as it requires the vault record.
func (w *WithdrawalRequest) Validate() error {
	if err := w.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !w.Amount.IsPositive() {
		return errors.Wrap(ErrWithdrawalAmount, "non-positive amount")
	}
	if err := w.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if len(w.SignedSigners) > maxSigners {
		return errors.Wrapf(ErrInvalidSigner, "more than %d signed signers", maxSigners)
	}
	if err := validateDistinct(w.SignedSigners); err != nil {
		return errors.Wrap(err, "signed signers")
	}
	if w.Executed && !w.Approved {
		return errors.Wrap(errors.ErrState, "executed but not approved")
	}
	return nil
}

func validateDistinct(addrs []bastion.Address) error {
	for i, a := range addrs {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "position %d", i)
		}
		for _, b := range addrs[:i] {
			if a.Equals(b) {
				return errors.Wrapf(ErrInvalidSigner, "duplicate %s", a)
			}
		}
	}
	return nil
}

func validateSubset(sub, set []bastion.Address) error {
	if err := validateDistinct(sub); err != nil {
		return err
	}
	for _, a := range sub {
		if !contains(set, a) {
			return errors.Wrapf(ErrInvalidSigner, "%s not in signer set", a)
		}
	}
	return nil
}

func contains(set []bastion.Address, addr bastion.Address) bool {
	for _, a := range set {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// addToSignerSet appends a member to a fixed-capacity ordered set. A
// duplicate fails with ErrAlreadySigned and a sixth entry fails rather than
// silently truncating.
func addToSignerSet(set []bastion.Address, member bastion.Address) ([]bastion.Address, error) {
	if contains(set, member) {
		return nil, errors.Wrapf(ErrAlreadySigned, "%s", member)
	}
	if len(set) >= maxSigners {
		return nil, errors.Wrapf(ErrInvalidSigner, "more than %d signers", maxSigners)
	}
	return append(set, member), nil
}

// NewVaultBucket returns a bucket for storing vaults, allocating 8 byte
// sequence ids starting at 1.
func NewVaultBucket() orm.ModelBucket {
	return orm.NewModelBucket(VaultBucketName, orm.WithIDSequence())
}

// NewWithdrawalBucket returns a bucket for storing withdrawal requests
// under composite vault id plus withdrawal id keys. Withdrawal ids are
// drawn from one global sequence, owned by the request handler.
func NewWithdrawalBucket() orm.ModelBucket {
	return orm.NewModelBucket(WithdrawalBucketName)
}

// NewWithdrawalSequence returns the global withdrawal id allocator.
func NewWithdrawalSequence() orm.Sequence {
	return orm.NewSequence(WithdrawalBucketName, "id")
}

// withdrawalKey builds the composite primary key of a withdrawal request.
// Keeping the vault id first groups all requests of a vault under one
// prefix.
func withdrawalKey(vaultID, withdrawalID []byte) []byte {
	key := make([]byte, 0, len(vaultID)+len(withdrawalID))
	key = append(key, vaultID...)
	return append(key, withdrawalID...)
}

// VaultCondition returns the condition of the vault custody account. Funds
// are held on its address; no private key can ever claim it.
func VaultCondition(id []byte) bastion.Condition {
	return bastion.NewCondition("vault", "seq", id)
}

// VaultAddress is a shortcut for VaultCondition(id).Address().
func VaultAddress(id []byte) bastion.Address {
	return VaultCondition(id).Address()
}
