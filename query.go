package bastion

import (
	"strings"

	"github.com/iov-one/bastion/errors"
)

// Query modifiers.
const (
	// KeyQueryMod means to query for an exact key match.
	KeyQueryMod = ""
	// PrefixQueryMod means to query for anything with this prefix.
	PrefixQueryMod = "prefix"
)

// QueryHandler is implemented by anything that can serve read requests
// against the latest state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter allows us to register many query handlers to different paths
// and dispatch to the proper one.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 10),
	}
}

// Register adds a new handler for the given path. Panics on duplicates, as
// this is a programming error.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if !strings.HasPrefix(path, "/") {
		panic("query paths must start with /: " + path)
	}
	if _, ok := r.routes[path]; ok {
		panic("re-registering query route: " + path)
	}
	r.routes[path] = h
}

// Handler returns the registered handler, or nil when the path is unbound.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Query dispatches a read request to the handler registered for the path.
func (r QueryRouter) Query(db ReadOnlyKVStore, path, mod string, data []byte) ([]Model, error) {
	h := r.Handler(path)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for %q", path)
	}
	return h.Query(db, mod, data)
}
