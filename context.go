package bastion

import (
	"context"
	"regexp"

	"github.com/go-kit/kit/log"

	"github.com/iov-one/bastion/errors"
)

// Context is just a type alias for the standard implementation. Extensions
// store their own data under their own keys; the framework reserves the
// keys declared below.
type Context = context.Context

type contextKey int

const (
	contextKeyHeight contextKey = iota
	contextKeyChainID
	contextKeyLogger
)

// IsValidChainID is the RegExp to ensure valid chain IDs.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// DefaultLogger is used for all contexts that have not set anything
// themselves.
var DefaultLogger = log.NewNopLogger()

// WithHeight sets the block height in the context. The height is the only
// clock the state machine knows; it must increase monotonically between
// operations.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height and whether it was set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithChainID sets the chain id in the context. It panics on an invalid id
// to prevent a broken setup from processing data incorrectly.
func WithChainID(ctx Context, chainID string) Context {
	if !IsValidChainID(chainID) {
		panic("invalid chain id: " + chainID)
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id from the context. It must have been set
// before the first message is processed.
func GetChainID(ctx Context) (string, error) {
	val, ok := ctx.Value(contextKeyChainID).(string)
	if !ok {
		return "", errors.Wrap(errors.ErrHuman, "chain id not set in context")
	}
	return val, nil
}

// WithLogger sets the logger in the context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger from the context, or DefaultLogger when none
// was set.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}

// IsReleased returns true if given release height is not in the future as
// compared to the "now" declared for the current block. Release is
// inclusive: when the current height equals the release height this
// function returns true.
//
// This function panics if the block height is not present in the context.
// That must never happen; the panic is here to prevent a broken setup from
// processing data incorrectly.
func IsReleased(ctx Context, releaseHeight int64) bool {
	now, ok := GetHeight(ctx)
	if !ok {
		panic("block height is not present")
	}
	return releaseHeight <= now
}
