package app

import (
	"github.com/iov-one/bastion"
)

// Decorators holds a chain of decorators, not yet bound to a handler.
type Decorators struct {
	chain []bastion.Decorator
}

// ChainDecorators takes a chain of decorators. The first decorator wraps all
// the others and sees every request first.
func ChainDecorators(chain ...bastion.Decorator) Decorators {
	return Decorators{chain: chain}
}

// Chain appends more decorators to an existing chain.
func (c Decorators) Chain(chain ...bastion.Decorator) Decorators {
	return Decorators{chain: append(c.chain, chain...)}
}

// WithHandler binds the chain to the business logic handler and returns a
// single Handler running the whole stack.
func (c Decorators) WithHandler(h bastion.Handler) bastion.Handler {
	for i := len(c.chain) - 1; i >= 0; i-- {
		h = cutoff{dec: c.chain[i], next: h}
	}
	return h
}

// cutoff binds one decorator with the rest of the stack as its next.
type cutoff struct {
	dec  bastion.Decorator
	next bastion.Handler
}

var _ bastion.Handler = cutoff{}

func (c cutoff) Check(ctx bastion.Context, store bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	return c.dec.Check(ctx, store, tx, c.next)
}

func (c cutoff) Deliver(ctx bastion.Context, store bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	return c.dec.Deliver(ctx, store, tx, c.next)
}
