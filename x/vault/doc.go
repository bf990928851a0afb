/*
Package vault implements a custodial vault that releases a deposited
balance only when a time condition and a multi party signature quorum are
both satisfied.

Each vault holds funds on its own custody address and carries the release
rules fixed at creation: a height based time lock, an ordered set of up to
five signers with a release quorum, an optional guardian able to bypass the
quorum through the emergency path, and a partial withdrawal configuration.
The partial path lets signers pre-authorize bounded payouts before the time
lock expires, each request collecting its own quorum and executing at most
once.
*/
package vault
