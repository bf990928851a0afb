package vault

import (
	"testing"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/bastiontest"
	"github.com/iov-one/bastion/bastiontest/assert"
	"github.com/iov-one/bastion/coin"
	"github.com/iov-one/bastion/errors"
)

func goodCreateVaultMsg() CreateVaultMsg {
	return CreateVaultMsg{
		ReleaseTime:        100,
		RequiredSignatures: 2,
		Signers: []bastion.Address{
			bastiontest.NewCondition().Address(),
			bastiontest.NewCondition().Address(),
			bastiontest.NewCondition().Address(),
		},
		InitialDeposit:            coin.NewCoin(1000, 0, "IOV"),
		PartialUnlockThreshold:    4,
		PartialSignaturesRequired: 1,
	}
}

func TestCreateVaultMsgValidate(t *testing.T) {
	after := int64(200)
	badAfter := int64(0)

	cases := map[string]struct {
		mod     func(*CreateVaultMsg)
		wantErr *errors.Error
	}{
		"valid": {
			mod:     func(*CreateVaultMsg) {},
			wantErr: nil,
		},
		"valid with guardian": {
			mod: func(m *CreateVaultMsg) {
				m.EmergencyUnlockEnabled = true
				m.Guardian = bastiontest.NewCondition().Address()
				m.EmergencyUnlockAfter = &after
			},
			wantErr: nil,
		},
		"zero release time": {
			mod:     func(m *CreateVaultMsg) { m.ReleaseTime = 0 },
			wantErr: errors.ErrInput,
		},
		"no signers": {
			mod:     func(m *CreateVaultMsg) { m.Signers = nil },
			wantErr: ErrInvalidSigner,
		},
		"six signers": {
			mod: func(m *CreateVaultMsg) {
				for len(m.Signers) <= maxSigners {
					m.Signers = append(m.Signers, bastiontest.NewCondition().Address())
				}
			},
			wantErr: ErrInvalidSigner,
		},
		"duplicate signers": {
			mod: func(m *CreateVaultMsg) {
				m.Signers = append(m.Signers, m.Signers[0])
			},
			wantErr: ErrInvalidSigner,
		},
		"zero quorum": {
			mod:     func(m *CreateVaultMsg) { m.RequiredSignatures = 0 },
			wantErr: ErrInsufficientSignatures,
		},
		"quorum above signer count": {
			mod:     func(m *CreateVaultMsg) { m.RequiredSignatures = 4 },
			wantErr: ErrInsufficientSignatures,
		},
		"partial quorum above full quorum": {
			mod:     func(m *CreateVaultMsg) { m.PartialSignaturesRequired = 3 },
			wantErr: ErrInsufficientSignatures,
		},
		"zero unlock threshold": {
			mod:     func(m *CreateVaultMsg) { m.PartialUnlockThreshold = 0 },
			wantErr: errors.ErrInput,
		},
		"emergency unlock without guardian": {
			mod:     func(m *CreateVaultMsg) { m.EmergencyUnlockEnabled = true },
			wantErr: ErrGuardianRequired,
		},
		"zero emergency unlock threshold": {
			mod: func(m *CreateVaultMsg) {
				m.EmergencyUnlockAfter = &badAfter
			},
			wantErr: errors.ErrInput,
		},
		"zero deposit": {
			mod: func(m *CreateVaultMsg) {
				m.InitialDeposit = coin.NewCoin(0, 0, "IOV")
			},
			wantErr: errors.ErrAmount,
		},
		"malformed deposit currency": {
			mod: func(m *CreateVaultMsg) {
				m.InitialDeposit = coin.NewCoin(1, 0, "io")
			},
			wantErr: errors.ErrCurrency,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			msg := goodCreateVaultMsg()
			tc.mod(&msg)
			err := msg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestIDMsgValidate(t *testing.T) {
	good := bastiontest.SequenceID(1)

	cases := map[string]struct {
		msg     bastion.Msg
		wantErr *errors.Error
	}{
		"valid deposit": {
			msg:     &DepositMsg{VaultID: good, Amount: coin.NewCoin(10, 0, "IOV")},
			wantErr: nil,
		},
		"deposit with short id": {
			msg:     &DepositMsg{VaultID: []byte{1, 2}, Amount: coin.NewCoin(10, 0, "IOV")},
			wantErr: errors.ErrInput,
		},
		"deposit with zero amount": {
			msg:     &DepositMsg{VaultID: good, Amount: coin.NewCoin(0, 0, "IOV")},
			wantErr: errors.ErrAmount,
		},
		"valid sign": {
			msg:     &SignVaultMsg{VaultID: good},
			wantErr: nil,
		},
		"sign without id": {
			msg:     &SignVaultMsg{},
			wantErr: errors.ErrInput,
		},
		"valid withdraw": {
			msg:     &WithdrawVaultMsg{VaultID: good},
			wantErr: nil,
		},
		"valid request": {
			msg: &RequestWithdrawalMsg{
				VaultID:   good,
				Amount:    coin.NewCoin(10, 0, "IOV"),
				Recipient: bastiontest.NewCondition().Address(),
			},
			wantErr: nil,
		},
		"request without recipient": {
			msg: &RequestWithdrawalMsg{
				VaultID: good,
				Amount:  coin.NewCoin(10, 0, "IOV"),
			},
			wantErr: errors.ErrInput,
		},
		"request with zero amount": {
			msg: &RequestWithdrawalMsg{
				VaultID:   good,
				Amount:    coin.NewCoin(0, 0, "IOV"),
				Recipient: bastiontest.NewCondition().Address(),
			},
			wantErr: ErrWithdrawalAmount,
		},
		"valid sign request": {
			msg:     &SignWithdrawalMsg{VaultID: good, WithdrawalID: good},
			wantErr: nil,
		},
		"sign request without withdrawal id": {
			msg:     &SignWithdrawalMsg{VaultID: good},
			wantErr: errors.ErrInput,
		},
		"valid execute": {
			msg:     &ExecuteWithdrawalMsg{VaultID: good, WithdrawalID: good},
			wantErr: nil,
		},
		"valid unlock": {
			msg:     &EmergencyUnlockMsg{VaultID: good},
			wantErr: nil,
		},
		"unlock with long id": {
			msg:     &EmergencyUnlockMsg{VaultID: append(good, 9)},
			wantErr: errors.ErrInput,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}
