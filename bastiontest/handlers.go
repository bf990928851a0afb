package bastiontest

import (
	"github.com/iov-one/bastion"
)

// Handler implements bastion.Handler interface, counting its calls and
// returning configured results.
type Handler struct {
	checkCall   int
	deliverCall int

	// CheckResult is returned by Check method, unless CheckErr is set.
	CheckResult bastion.CheckResult
	// CheckErr if set is returned by Check method.
	CheckErr error

	// DeliverResult is returned by Deliver method, unless DeliverErr is
	// set.
	DeliverResult bastion.DeliverResult
	// DeliverErr if set is returned by Deliver method.
	DeliverErr error
}

var _ bastion.Handler = (*Handler)(nil)

func (h *Handler) Check(bastion.Context, bastion.KVStore, bastion.Tx) (*bastion.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(bastion.Context, bastion.KVStore, bastion.Tx) (*bastion.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// CheckCallCount returns the number of times the Check method was called.
func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

// DeliverCallCount returns the number of times the Deliver method was
// called.
func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

// CallCount returns the number of times any method was called.
func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Decorator implements bastion.Decorator interface, delegating to the next
// handler while counting its calls.
type Decorator struct {
	checkCall   int
	deliverCall int

	// CheckErr if set is returned before calling the next handler.
	CheckErr error
	// DeliverErr if set is returned before calling the next handler.
	DeliverErr error
}

var _ bastion.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx, next bastion.Checker) (*bastion.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx bastion.Context, db bastion.KVStore, tx bastion.Tx, next bastion.Deliverer) (*bastion.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// CallCount returns the number of times any method was called.
func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}
