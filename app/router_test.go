package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/bastion"
	"github.com/iov-one/bastion/bastiontest"
	"github.com/iov-one/bastion/errors"
	"github.com/iov-one/bastion/store"
)

type routeMsg struct {
	path string
}

func (m *routeMsg) Marshal() ([]byte, error)  { return json.Marshal(m.path) }
func (m *routeMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, &m.path) }
func (m *routeMsg) Path() string              { return m.path }
func (m *routeMsg) Validate() error           { return nil }

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	good := &bastiontest.Handler{}
	r.Handle(&routeMsg{path: "vault/create"}, good)

	ctx := context.Background()
	db := store.MemStore()

	tx := &bastiontest.Tx{Msg: &routeMsg{path: "vault/create"}}
	_, err := r.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = r.Deliver(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, 1, good.CheckCallCount())
	assert.Equal(t, 1, good.DeliverCallCount())

	// Unknown paths must be rejected, not panic.
	tx = &bastiontest.Tx{Msg: &routeMsg{path: "vault/unknown"}}
	_, err = r.Check(ctx, db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, good.CallCount())
}

func TestRouterRegistrationPanics(t *testing.T) {
	r := NewRouter()
	h := &bastiontest.Handler{}

	r.Handle(&routeMsg{path: "vault/create"}, h)
	assert.Panics(t, func() {
		r.Handle(&routeMsg{path: "vault/create"}, h)
	})
	assert.Panics(t, func() {
		r.Handle(&routeMsg{path: "not a valid path"}, h)
	})
}

func TestChainDecorators(t *testing.T) {
	outer := &bastiontest.Decorator{}
	inner := &bastiontest.Decorator{}
	h := &bastiontest.Handler{
		DeliverResult: bastion.DeliverResult{Log: "ok"},
	}

	stack := ChainDecorators(outer).Chain(inner).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &bastiontest.Tx{Msg: &routeMsg{path: "vault/create"}}

	res, err := stack.Deliver(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Log)
	assert.Equal(t, 1, outer.CallCount())
	assert.Equal(t, 1, inner.CallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainDecoratorsCutoff(t *testing.T) {
	boom := errors.ErrUnauthorized
	outer := &bastiontest.Decorator{CheckErr: boom}
	h := &bastiontest.Handler{}

	stack := ChainDecorators(outer).WithHandler(h)

	_, err := stack.Check(context.Background(), store.MemStore(), &bastiontest.Tx{Msg: &routeMsg{path: "vault/create"}})
	assert.True(t, boom.Is(err))
	assert.Equal(t, 0, h.CallCount())
}
