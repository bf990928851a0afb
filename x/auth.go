package x

import (
	"github.com/iov-one/bastion"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of handlers,
// so we can plug in another authentication system, rather than hardcoding
// x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all conditions fulfilled in this context.
	GetConditions(bastion.Context) []bastion.Condition

	// HasAddress checks if any condition matches this address.
	HasAddress(bastion.Context, bastion.Address) bool
}

// MultiAuth chains together many authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups a series of authenticators into one.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all conditions of all sub-authenticators.
func (m MultiAuth) GetConditions(ctx bastion.Context) []bastion.Condition {
	var res []bastion.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any sub-authenticator approves.
func (m MultiAuth) HasAddress(ctx bastion.Context, addr bastion.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first conditions. If no conditions are present, a
// nil is returned.
func MainSigner(ctx bastion.Context, auth Authenticator) bastion.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// GetAddresses returns a list of all addresses that are approved in the
// current context.
func GetAddresses(ctx bastion.Context, auth Authenticator) []bastion.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]bastion.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx bastion.Context, auth Authenticator, required []bastion.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in requested are
// also in context.
func HasNAddresses(ctx bastion.Context, auth Authenticator, requested []bastion.Address, n int) bool {
	// Special case: is this an error?
	if n <= 0 {
		return true
	}

	remaining := n
	for _, r := range requested {
		if auth.HasAddress(ctx, r) {
			remaining--
			if remaining == 0 {
				return true
			}
		}
	}
	return false
}
