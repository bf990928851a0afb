/*
Package bastion defines the common interfaces that tie the framework
together: addresses and conditions, the key-value store contracts, the
message/transaction abstraction, and the handler interfaces that
extensions implement.

State transitions are expressed as messages routed to handlers. Every
handler runs against a cache-wrapped store so a failing precondition
aborts the whole operation with no partial writes. Time never comes
from a wall clock; the host supplies a monotonic block height through
the context.
*/
package bastion
