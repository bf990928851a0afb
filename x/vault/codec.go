package vault

import (
	"encoding/json"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/coin"
)

// Vault is the custodial record holding a locked balance plus its release
// rules. All configuration is fixed at creation; only the balances and the
// collected signatures change over the lifetime.
type Vault struct {
	// ReleaseTime is the earliest height at which full release is
	// permitted.
	ReleaseTime int64 `json:"release_time"`
	// RequiredSignatures is the quorum for the full release path.
	RequiredSignatures uint32 `json:"required_signatures"`
	// Signers is the ordered set of identities authorized to sign.
	Signers []bastion.Address `json:"signers"`
	// TotalAmount is the cumulative deposited balance.
	TotalAmount coin.Coin `json:"total_amount"`
	// WithdrawnAmount is the cumulative amount paid out via the partial
	// path.
	WithdrawnAmount coin.Coin `json:"withdrawn_amount"`
	// SignedSigners are the signers who signed for full release. Grows
	// monotonically and never shrinks.
	SignedSigners []bastion.Address `json:"signed_signers,omitempty"`
	// Guardian is the identity of the emergency unlock path. Nil when
	// absent.
	Guardian bastion.Address `json:"guardian,omitempty"`
	// EmergencyUnlockEnabled is fixed at creation.
	EmergencyUnlockEnabled bool `json:"emergency_unlock_enabled"`
	// EmergencyUnlockAfter is an optional height threshold gating the
	// guardian path. Nil when absent.
	EmergencyUnlockAfter *int64 `json:"emergency_unlock_after,omitempty"`
	// Partial configures the partial withdrawal sub-protocol.
	Partial PartialConfig `json:"partial"`
}

// PartialConfig bounds the partial withdrawal path of a vault.
type PartialConfig struct {
	// UnlockThreshold is a divisor; a single request can ask for at most
	// TotalAmount / UnlockThreshold.
	UnlockThreshold int64 `json:"unlock_threshold"`
	// SignaturesRequired is the quorum for a single withdrawal request.
	// Never greater than the vault's RequiredSignatures.
	SignaturesRequired uint32 `json:"signatures_required"`
}

func (v *Vault) Marshal() ([]byte, error) {
	return json.Marshal(v)
}

func (v *Vault) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, v)
}

// WithdrawalRequest is a pre-authorized partial payout of a vault. It
// collects its own signatures and executes at most once.
type WithdrawalRequest struct {
	// Amount to pay out on execution.
	Amount coin.Coin `json:"amount"`
	// Recipient receives the funds on execution.
	Recipient bastion.Address `json:"recipient"`
	// SignedSigners are the vault signers who approved this request.
	SignedSigners []bastion.Address `json:"signed_signers,omitempty"`
	// Approved is set once the request quorum is reached. Never reset.
	Approved bool `json:"approved"`
	// Executed is set once the funds moved. Never reset.
	Executed bool `json:"executed"`
}

func (w *WithdrawalRequest) Marshal() ([]byte, error) {
	return json.Marshal(w)
}

func (w *WithdrawalRequest) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, w)
}
