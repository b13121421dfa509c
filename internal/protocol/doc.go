// Package protocol owns the daemon's wire contract.
//
// Ownership boundary:
// - length-prefixed framing primitives (frame subpackage)
// - request/response JSON shapes and parsing
// - response normalization
package protocol
