package vault

import (
	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/coin"
	"github.com/iov-one/bastion/errors"
	"github.com/iov-one/bastion/orm"
	"github.com/iov-one/bastion/x"
	"github.com/iov-one/bastion/x/cash"
)

const (
	createVaultCost     int64 = 300
	depositCost         int64 = 100
	signVaultCost       int64 = 100
	withdrawVaultCost   int64 = 200
	requestCost         int64 = 150
	signRequestCost     int64 = 100
	executeRequestCost  int64 = 200
	emergencyUnlockCost int64 = 200
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r bastion.Registry, auth x.Authenticator, ctrl cash.Controller) {
	vaults := NewVaultBucket()
	withdrawals := NewWithdrawalBucket()

	r.Handle(&CreateVaultMsg{}, &createVaultHandler{auth: auth, ctrl: ctrl, vaults: vaults, seq: orm.NewSequence(VaultBucketName, "id")})
	r.Handle(&DepositMsg{}, &depositHandler{auth: auth, ctrl: ctrl, vaults: vaults})
	r.Handle(&SignVaultMsg{}, &signVaultHandler{auth: auth, vaults: vaults})
	r.Handle(&WithdrawVaultMsg{}, &withdrawVaultHandler{auth: auth, ctrl: ctrl, vaults: vaults})
	r.Handle(&RequestWithdrawalMsg{}, &requestWithdrawalHandler{auth: auth, vaults: vaults, withdrawals: withdrawals, seq: NewWithdrawalSequence()})
	r.Handle(&SignWithdrawalMsg{}, &signWithdrawalHandler{auth: auth, vaults: vaults, withdrawals: withdrawals})
	r.Handle(&ExecuteWithdrawalMsg{}, &executeWithdrawalHandler{auth: auth, ctrl: ctrl, vaults: vaults, withdrawals: withdrawals})
	r.Handle(&EmergencyUnlockMsg{}, &emergencyUnlockHandler{auth: auth, ctrl: ctrl, vaults: vaults})
}

// RegisterQuery registers the read paths of this package.
func RegisterQuery(qr bastion.QueryRouter) {
	NewVaultBucket().Register("vaults", qr)
	NewWithdrawalBucket().Register("withdrawals", qr)
}

// mainSignerAddr returns the address of the main signer, the caller
// identity of every operation. The host resolves signatures before
// dispatch, so a missing signer means a broken setup or an unauthenticated
// call.
func mainSignerAddr(ctx bastion.Context, auth x.Authenticator) (bastion.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

func loadVault(db bastion.ReadOnlyKVStore, vaults orm.ModelBucket, id []byte) (*Vault, error) {
	var v Vault
	if err := vaults.One(db, id, &v); err != nil {
		return nil, errors.Wrapf(err, "vault %x", id)
	}
	return &v, nil
}

// --- create vault

type createVaultHandler struct {
	auth   x.Authenticator
	ctrl   cash.Controller
	vaults orm.ModelBucket
	seq    orm.Sequence
}

var _ bastion.Handler = (*createVaultHandler)(nil)

func (h *createVaultHandler) Check(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bastion.CheckResult{GasAllocated: createVaultCost}, nil
}

func (h *createVaultHandler) Deliver(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	msg, creator, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	id, err := h.seq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire vault id")
	}
	if err := h.ctrl.MoveCoins(db, creator, VaultAddress(id), msg.InitialDeposit); err != nil {
		return nil, err
	}

	v := &Vault{
		ReleaseTime:            msg.ReleaseTime,
		RequiredSignatures:     msg.RequiredSignatures,
		Signers:                msg.Signers,
		TotalAmount:            msg.InitialDeposit,
		WithdrawnAmount:        coin.NewCoin(0, 0, msg.InitialDeposit.Ticker),
		Guardian:               msg.Guardian,
		EmergencyUnlockEnabled: msg.EmergencyUnlockEnabled,
		EmergencyUnlockAfter:   msg.EmergencyUnlockAfter,
		Partial: PartialConfig{
			UnlockThreshold:    msg.PartialUnlockThreshold,
			SignaturesRequired: msg.PartialSignaturesRequired,
		},
	}
	if _, err := h.vaults.Put(db, id, v); err != nil {
		return nil, err
	}
	return &bastion.DeliverResult{Data: id}, nil
}

func (h *createVaultHandler) validate(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*CreateVaultMsg, bastion.Address, error) {
	var msg CreateVaultMsg
	if err := bastion.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	creator, err := mainSignerAddr(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	// The creator controls the deposit, never the release quorum.
	if contains(msg.Signers, creator) {
		return nil, nil, errors.Wrap(ErrInvalidSigner, "creator cannot be a signer")
	}
	return &msg, creator, nil
}

// --- deposit

type depositHandler struct {
	auth   x.Authenticator
	ctrl   cash.Controller
	vaults orm.ModelBucket
}

var _ bastion.Handler = (*depositHandler)(nil)

func (h *depositHandler) Check(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bastion.CheckResult{GasAllocated: depositCost}, nil
}

func (h *depositHandler) Deliver(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	msg, v, depositor, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	total, err := v.TotalAmount.Add(msg.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "cannot grow total amount")
	}
	if err := h.ctrl.MoveCoins(db, depositor, VaultAddress(msg.VaultID), msg.Amount); err != nil {
		return nil, err
	}
	v.TotalAmount = total
	if _, err := h.vaults.Put(db, msg.VaultID, v); err != nil {
		return nil, err
	}
	return &bastion.DeliverResult{}, nil
}

func (h *depositHandler) validate(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*DepositMsg, *Vault, bastion.Address, error) {
	var msg DepositMsg
	if err := bastion.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	depositor, err := mainSignerAddr(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := loadVault(db, h.vaults, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, v, depositor, nil
}

// --- sign vault

type signVaultHandler struct {
	auth   x.Authenticator
	vaults orm.ModelBucket
}

var _ bastion.Handler = (*signVaultHandler)(nil)

func (h *signVaultHandler) Check(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bastion.CheckResult{GasAllocated: signVaultCost}, nil
}

func (h *signVaultHandler) Deliver(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	msg, v, signed, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	v.SignedSigners = signed
	if _, err := h.vaults.Put(db, msg.VaultID, v); err != nil {
		return nil, err
	}
	return &bastion.DeliverResult{}, nil
}

func (h *signVaultHandler) validate(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*SignVaultMsg, *Vault, []bastion.Address, error) {
	var msg SignVaultMsg
	if err := bastion.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	signer, err := mainSignerAddr(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := loadVault(db, h.vaults, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !contains(v.Signers, signer) {
		return nil, nil, nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not a vault signer", signer)
	}
	signed, err := addToSignerSet(v.SignedSigners, signer)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, v, signed, nil
}

// --- withdraw vault

type withdrawVaultHandler struct {
	auth   x.Authenticator
	ctrl   cash.Controller
	vaults orm.ModelBucket
}

var _ bastion.Handler = (*withdrawVaultHandler)(nil)

func (h *withdrawVaultHandler) Check(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bastion.CheckResult{GasAllocated: withdrawVaultCost}, nil
}

func (h *withdrawVaultHandler) Deliver(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	msg, v, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// The full original total is paid out, not netted against partial
	// payouts. When partials were executed, custody no longer covers it
	// and the transfer below rejects the release.
	if err := h.ctrl.MoveCoins(db, VaultAddress(msg.VaultID), caller, v.TotalAmount); err != nil {
		return nil, err
	}
	return &bastion.DeliverResult{}, nil
}

func (h *withdrawVaultHandler) validate(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*WithdrawVaultMsg, *Vault, bastion.Address, error) {
	var msg WithdrawVaultMsg
	if err := bastion.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	caller, err := mainSignerAddr(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := loadVault(db, h.vaults, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !bastion.IsReleased(ctx, v.ReleaseTime) {
		return nil, nil, nil, errors.Wrapf(ErrTimeLock, "release at %d", v.ReleaseTime)
	}
	if len(v.SignedSigners) < int(v.RequiredSignatures) {
		return nil, nil, nil, errors.Wrapf(ErrInsufficientSignatures, "%d of %d", len(v.SignedSigners), v.RequiredSignatures)
	}
	return &msg, v, caller, nil
}

// --- request withdrawal

type requestWithdrawalHandler struct {
	auth        x.Authenticator
	vaults      orm.ModelBucket
	withdrawals orm.ModelBucket
	seq         orm.Sequence
}

var _ bastion.Handler = (*requestWithdrawalHandler)(nil)

func (h *requestWithdrawalHandler) Check(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bastion.CheckResult{GasAllocated: requestCost}, nil
}

func (h *requestWithdrawalHandler) Deliver(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// All preconditions passed, only now an id is allocated. A rejected
	// request never advances the counter.
	withdrawalID, err := h.seq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire withdrawal id")
	}
	req := &WithdrawalRequest{
		Amount:    msg.Amount,
		Recipient: msg.Recipient,
		// A zero quorum means the request needs no signatures at all.
		Approved: v.Partial.SignaturesRequired == 0,
	}
	key := withdrawalKey(msg.VaultID, withdrawalID)
	if _, err := h.withdrawals.Put(db, key, req); err != nil {
		return nil, err
	}
	return &bastion.DeliverResult{Data: withdrawalID}, nil
}

func (h *requestWithdrawalHandler) validate(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*RequestWithdrawalMsg, *Vault, error) {
	var msg RequestWithdrawalMsg
	if err := bastion.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	caller, err := mainSignerAddr(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	if msg.Recipient.Equals(caller) {
		return nil, nil, errors.Wrap(errors.ErrInput, "recipient must differ from the caller")
	}
	v, err := loadVault(db, h.vaults, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	if !msg.Amount.SameType(v.TotalAmount) {
		return nil, nil, errors.Wrapf(errors.ErrCurrency, "%s != %s", msg.Amount.Ticker, v.TotalAmount.Ticker)
	}
	unspent, err := v.TotalAmount.Subtract(v.WithdrawnAmount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot compute unspent balance")
	}
	if !unspent.IsGTE(msg.Amount) {
		return nil, nil, errors.Wrapf(ErrInsufficientBalance, "unspent %s", unspent)
	}
	// A single request may ask for at most a fraction of the original
	// total, regardless of the unspent balance.
	bound, _, err := v.TotalAmount.Divide(v.Partial.UnlockThreshold)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot compute partial bound")
	}
	if !bound.IsGTE(msg.Amount) {
		return nil, nil, errors.Wrapf(ErrWithdrawalAmount, "above the partial bound %s", bound)
	}
	return &msg, v, nil
}

// --- sign withdrawal

type signWithdrawalHandler struct {
	auth        x.Authenticator
	vaults      orm.ModelBucket
	withdrawals orm.ModelBucket
}

var _ bastion.Handler = (*signWithdrawalHandler)(nil)

func (h *signWithdrawalHandler) Check(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bastion.CheckResult{GasAllocated: signRequestCost}, nil
}

func (h *signWithdrawalHandler) Deliver(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	msg, v, req, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if len(req.SignedSigners) >= int(v.Partial.SignaturesRequired) {
		// One way transition, never reverts.
		req.Approved = true
	}
	key := withdrawalKey(msg.VaultID, msg.WithdrawalID)
	if _, err := h.withdrawals.Put(db, key, req); err != nil {
		return nil, err
	}
	return &bastion.DeliverResult{}, nil
}

func (h *signWithdrawalHandler) validate(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*SignWithdrawalMsg, *Vault, *WithdrawalRequest, error) {
	var msg SignWithdrawalMsg
	if err := bastion.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	signer, err := mainSignerAddr(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := loadVault(db, h.vaults, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !contains(v.Signers, signer) {
		return nil, nil, nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not a vault signer", signer)
	}
	var req WithdrawalRequest
	key := withdrawalKey(msg.VaultID, msg.WithdrawalID)
	if err := h.withdrawals.One(db, key, &req); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "withdrawal %x", msg.WithdrawalID)
	}
	signed, err := addToSignerSet(req.SignedSigners, signer)
	if err != nil {
		return nil, nil, nil, err
	}
	req.SignedSigners = signed
	return &msg, v, &req, nil
}

// --- execute withdrawal

type executeWithdrawalHandler struct {
	auth        x.Authenticator
	ctrl        cash.Controller
	vaults      orm.ModelBucket
	withdrawals orm.ModelBucket
}

var _ bastion.Handler = (*executeWithdrawalHandler)(nil)

func (h *executeWithdrawalHandler) Check(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bastion.CheckResult{GasAllocated: executeRequestCost}, nil
}

func (h *executeWithdrawalHandler) Deliver(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	msg, v, req, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	withdrawn, err := v.WithdrawnAmount.Add(req.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "cannot grow withdrawn amount")
	}
	if err := h.ctrl.MoveCoins(db, VaultAddress(msg.VaultID), req.Recipient, req.Amount); err != nil {
		return nil, err
	}
	v.WithdrawnAmount = withdrawn
	if _, err := h.vaults.Put(db, msg.VaultID, v); err != nil {
		return nil, err
	}
	req.Executed = true
	key := withdrawalKey(msg.VaultID, msg.WithdrawalID)
	if _, err := h.withdrawals.Put(db, key, req); err != nil {
		return nil, err
	}
	return &bastion.DeliverResult{}, nil
}

func (h *executeWithdrawalHandler) validate(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*ExecuteWithdrawalMsg, *Vault, *WithdrawalRequest, error) {
	var msg ExecuteWithdrawalMsg
	if err := bastion.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	if _, err := mainSignerAddr(ctx, h.auth); err != nil {
		return nil, nil, nil, err
	}
	v, err := loadVault(db, h.vaults, msg.VaultID)
	if err != nil {
		return nil, nil, nil, err
	}
	var req WithdrawalRequest
	key := withdrawalKey(msg.VaultID, msg.WithdrawalID)
	if err := h.withdrawals.One(db, key, &req); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "withdrawal %x", msg.WithdrawalID)
	}
	if !req.Approved {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "request not approved")
	}
	if req.Executed {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "request already executed")
	}
	return &msg, v, &req, nil
}

// --- emergency unlock

type emergencyUnlockHandler struct {
	auth   x.Authenticator
	ctrl   cash.Controller
	vaults orm.ModelBucket
}

var _ bastion.Handler = (*emergencyUnlockHandler)(nil)

func (h *emergencyUnlockHandler) Check(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bastion.CheckResult{GasAllocated: emergencyUnlockCost}, nil
}

func (h *emergencyUnlockHandler) Deliver(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// Same payout as the full release: the original total, not netted.
	if err := h.ctrl.MoveCoins(db, VaultAddress(msg.VaultID), v.Guardian, v.TotalAmount); err != nil {
		return nil, err
	}
	return &bastion.DeliverResult{}, nil
}

func (h *emergencyUnlockHandler) validate(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx) (*EmergencyUnlockMsg, *Vault, error) {
	var msg EmergencyUnlockMsg
	if err := bastion.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	caller, err := mainSignerAddr(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	v, err := loadVault(db, h.vaults, msg.VaultID)
	if err != nil {
		return nil, nil, err
	}
	if !v.EmergencyUnlockEnabled {
		return nil, nil, errors.Wrap(ErrEmergencyUnlock, "not enabled for this vault")
	}
	if !v.Guardian.Equals(caller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the guardian may unlock")
	}
	if v.EmergencyUnlockAfter != nil && !bastion.IsReleased(ctx, *v.EmergencyUnlockAfter) {
		return nil, nil, errors.Wrapf(ErrEmergencyUnlock, "unlock at %d", *v.EmergencyUnlockAfter)
	}
	return &msg, v, nil
}
