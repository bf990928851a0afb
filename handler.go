package bastion

// Handler is a core engine that can process a few specific messages. This
// could represent "move coins" or "sign a vault".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of an operation.
// It is its own interface to allow better type control in Decorator.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute an operation.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// authentication or savepoints to many Handlers.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// router.
type Registry interface {
	// Handle assigns the handler to the path of given message.
	Handle(Msg, Handler)
}

// CheckResult captures any non-error response from validating an operation.
type CheckResult struct {
	// Data is a machine-parseable return value, like an id of the entity
	// the operation would act on.
	Data []byte

	// Log is human readable data.
	Log string

	// GasAllocated is the maximum units of work we allow this operation
	// to perform.
	GasAllocated int64
}

// DeliverResult captures any non-error response from executing an
// operation.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the id of a created
	// entity.
	Data []byte

	// Log is human readable data.
	Log string

	// GasUsed is the units of work performed.
	GasUsed int64
}
