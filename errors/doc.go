/*
Package errors implements the coded errors used across bastion.

Every error returned by the framework wraps one of the root errors
declared in this package or registered by an extension. Root errors
carry a unique numeric code so that results can be classified without
string matching. Use Wrap/Wrapf to attach context while preserving the
root cause and use the root error Is method to test a result:

	if errors.ErrNotFound.Is(err) { ... }

Extensions register their own root errors with Register, claiming a
code range the way x/cash (1000+) and x/vault (1100+) do.
*/
package errors
