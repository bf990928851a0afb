package vault

import (
	"encoding/json"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/coin"
	"github.com/iov-one/bastion/errors"
)

// Path constants for the message routing.
const (
	pathCreateVault       = "vault/create"
	pathDeposit           = "vault/deposit"
	pathSignVault         = "vault/sign"
	pathWithdrawVault     = "vault/withdraw"
	pathRequestWithdrawal = "vault/request"
	pathSignWithdrawal    = "vault/sign_request"
	pathExecuteWithdrawal = "vault/execute"
	pathEmergencyUnlock   = "vault/unlock"
)

var _ bastion.Msg = (*CreateVaultMsg)(nil)
var _ bastion.Msg = (*DepositMsg)(nil)
var _ bastion.Msg = (*SignVaultMsg)(nil)
var _ bastion.Msg = (*WithdrawVaultMsg)(nil)
var _ bastion.Msg = (*RequestWithdrawalMsg)(nil)
var _ bastion.Msg = (*SignWithdrawalMsg)(nil)
var _ bastion.Msg = (*ExecuteWithdrawalMsg)(nil)
var _ bastion.Msg = (*EmergencyUnlockMsg)(nil)

// CreateVaultMsg creates a new vault, funded with an initial deposit taken
// from the main signer.
type CreateVaultMsg struct {
	ReleaseTime               int64             `json:"release_time"`
	RequiredSignatures        uint32            `json:"required_signatures"`
	Signers                   []bastion.Address `json:"signers"`
	InitialDeposit            coin.Coin         `json:"initial_deposit"`
	Guardian                  bastion.Address   `json:"guardian,omitempty"`
	EmergencyUnlockEnabled    bool              `json:"emergency_unlock_enabled"`
	EmergencyUnlockAfter      *int64            `json:"emergency_unlock_after,omitempty"`
	PartialUnlockThreshold    int64             `json:"partial_unlock_threshold"`
	PartialSignaturesRequired uint32            `json:"partial_signatures_required"`
}

func (CreateVaultMsg) Path() string {
	return pathCreateVault
}

func (m *CreateVaultMsg) Validate() error {
	if m.ReleaseTime <= 0 {
		return errors.Wrap(errors.ErrInput, "release time must be greater than zero")
	}
	if len(m.Signers) == 0 || len(m.Signers) > maxSigners {
		return errors.Wrapf(ErrInvalidSigner, "want 1 to %d signers, got %d", maxSigners, len(m.Signers))
	}
	if err := validateDistinct(m.Signers); err != nil {
		return errors.Wrap(err, "signers")
	}
	if m.RequiredSignatures < 1 || int(m.RequiredSignatures) > len(m.Signers) {
		return errors.Wrapf(ErrInsufficientSignatures, "required signatures %d outside of 1..%d", m.RequiredSignatures, len(m.Signers))
	}
	if m.PartialUnlockThreshold <= 0 {
		return errors.Wrap(errors.ErrInput, "partial unlock threshold must be greater than zero")
	}
	if m.PartialSignaturesRequired > m.RequiredSignatures {
		return errors.Wrapf(ErrInsufficientSignatures, "partial quorum %d above required signatures %d", m.PartialSignaturesRequired, m.RequiredSignatures)
	}
	if m.EmergencyUnlockEnabled && m.Guardian == nil {
		return errors.Wrap(ErrGuardianRequired, "emergency unlock enabled")
	}
	if m.Guardian != nil {
		if err := m.Guardian.Validate(); err != nil {
			return errors.Wrap(err, "guardian")
		}
	}
	if m.EmergencyUnlockAfter != nil && *m.EmergencyUnlockAfter <= 0 {
		return errors.Wrap(errors.ErrInput, "emergency unlock threshold must be greater than zero")
	}
	if err := m.InitialDeposit.Validate(); err != nil {
		return errors.Wrap(err, "initial deposit")
	}
	if !m.InitialDeposit.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "initial deposit must be positive")
	}
	return nil
}

func (m *CreateVaultMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *CreateVaultMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// DepositMsg adds funds to an existing vault. Anyone may deposit.
type DepositMsg struct {
	VaultID []byte    `json:"vault_id"`
	Amount  coin.Coin `json:"amount"`
}

func (DepositMsg) Path() string {
	return pathDeposit
}

func (m *DepositMsg) Validate() error {
	if err := validateID(m.VaultID); err != nil {
		return err
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}
	return nil
}

func (m *DepositMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *DepositMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// SignVaultMsg records the main signer's signature for full release.
type SignVaultMsg struct {
	VaultID []byte `json:"vault_id"`
}

func (SignVaultMsg) Path() string {
	return pathSignVault
}

func (m *SignVaultMsg) Validate() error {
	return validateID(m.VaultID)
}

func (m *SignVaultMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *SignVaultMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// WithdrawVaultMsg releases the full vault balance to the main signer,
// given the time lock expired and the quorum is met.
type WithdrawVaultMsg struct {
	VaultID []byte `json:"vault_id"`
}

func (WithdrawVaultMsg) Path() string {
	return pathWithdrawVault
}

func (m *WithdrawVaultMsg) Validate() error {
	return validateID(m.VaultID)
}

func (m *WithdrawVaultMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *WithdrawVaultMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// RequestWithdrawalMsg opens a partial withdrawal request.
type RequestWithdrawalMsg struct {
	VaultID   []byte          `json:"vault_id"`
	Amount    coin.Coin       `json:"amount"`
	Recipient bastion.Address `json:"recipient"`
}

func (RequestWithdrawalMsg) Path() string {
	return pathRequestWithdrawal
}

func (m *RequestWithdrawalMsg) Validate() error {
	if err := validateID(m.VaultID); err != nil {
		return err
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(ErrWithdrawalAmount, "amount must be positive")
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	return nil
}

func (m *RequestWithdrawalMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *RequestWithdrawalMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// SignWithdrawalMsg records the main signer's approval of a specific
// withdrawal request.
type SignWithdrawalMsg struct {
	VaultID      []byte `json:"vault_id"`
	WithdrawalID []byte `json:"withdrawal_id"`
}

func (SignWithdrawalMsg) Path() string {
	return pathSignWithdrawal
}

func (m *SignWithdrawalMsg) Validate() error {
	if err := validateID(m.VaultID); err != nil {
		return err
	}
	return validateID(m.WithdrawalID)
}

func (m *SignWithdrawalMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *SignWithdrawalMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// ExecuteWithdrawalMsg pays out an approved withdrawal request to its
// recipient.
type ExecuteWithdrawalMsg struct {
	VaultID      []byte `json:"vault_id"`
	WithdrawalID []byte `json:"withdrawal_id"`
}

func (ExecuteWithdrawalMsg) Path() string {
	return pathExecuteWithdrawal
}

func (m *ExecuteWithdrawalMsg) Validate() error {
	if err := validateID(m.VaultID); err != nil {
		return err
	}
	return validateID(m.WithdrawalID)
}

func (m *ExecuteWithdrawalMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *ExecuteWithdrawalMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// EmergencyUnlockMsg moves the full vault balance to the guardian,
// bypassing the quorum and the time lock.
type EmergencyUnlockMsg struct {
	VaultID []byte `json:"vault_id"`
}

func (EmergencyUnlockMsg) Path() string {
	return pathEmergencyUnlock
}

func (m *EmergencyUnlockMsg) Validate() error {
	return validateID(m.VaultID)
}

func (m *EmergencyUnlockMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *EmergencyUnlockMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// validateID ensures the identifier is an 8 byte sequence value.
func validateID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "id must be 8 bytes, got %d", len(id))
	}
	return nil
}
