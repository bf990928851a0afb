package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/errors"
)

// Router allows us to register many handlers with different paths and then
// direct each message to the registered handler.
type Router struct {
	routes map[string]bastion.Handler
}

var _ bastion.Registry = (*Router)(nil)
var _ bastion.Handler = (*Router)(nil)

// pathPattern describes a format that path passed to the router must
// fulfill.
var pathPattern = regexp.MustCompile(`^[a-z0-9_]{3,20}/[a-z0-9_]{3,20}$`)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]bastion.Handler),
	}
}

// Handle adds a new handler for the path of the given message. Panics on
// duplicate routes or invalid paths, as this is a programming error.
func (r *Router) Handle(m bastion.Msg, h bastion.Handler) {
	path := m.Path()
	if !pathPattern.MatchString(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is found,
// it returns a noSuchPathHandler so the Router can be used directly and
// always returns a usable handler.
func (r *Router) handler(m bastion.Msg) bastion.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler{path}
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx bastion.Context, store bastion.KVStore, tx bastion.Tx) (*bastion.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	res, err := r.handler(msg).Check(ctx, store, tx)
	if err != nil {
		_ = bastion.GetLogger(ctx).Log("call", "check", "path", msg.Path(), "err", err)
	}
	return res, err
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx bastion.Context, store bastion.KVStore, tx bastion.Tx) (*bastion.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	res, err := r.handler(msg).Deliver(ctx, store, tx)
	if err != nil {
		_ = bastion.GetLogger(ctx).Log("call", "deliver", "path", msg.Path(), "err", err)
	}
	return res, err
}

// noSuchPathHandler always returns ErrNotFound, mentioning the missing path.
type noSuchPathHandler struct {
	path string
}

var _ bastion.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(bastion.Context, bastion.KVStore, bastion.Tx) (*bastion.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(bastion.Context, bastion.KVStore, bastion.Tx) (*bastion.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
