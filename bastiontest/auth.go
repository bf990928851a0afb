package bastiontest

import (
	"context"

	"github.com/iov-one/bastion"
)

// Auth is a mock implementing x.Authenticator interface.
type Auth struct {
	// Signer is returned by GetConditions exclusively when not nil.
	Signer bastion.Condition
	// Signers is returned by GetConditions when Signer is nil.
	Signers []bastion.Condition
}

func (a *Auth) GetConditions(bastion.Context) []bastion.Condition {
	if a.Signer != nil {
		return []bastion.Condition{a.Signer}
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx bastion.Context, addr bastion.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface, that reads
// conditions from the context.
type CtxAuth struct {
	// Key under which the conditions are stored in the context.
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx bastion.Context, conds ...bastion.Condition) bastion.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx bastion.Context) []bastion.Condition {
	conds, ok := ctx.Value(ctxAuthKey(a.Key)).([]bastion.Condition)
	if !ok {
		return nil
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx bastion.Context, addr bastion.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
