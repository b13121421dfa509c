// Package signerd owns the signing daemon runtime.
//
// The daemon listens on a Unix domain socket, reads exactly one
// length-prefixed JSON request per connection, signs the requested L1
// action, writes exactly one length-prefixed JSON response, and closes
// the connection.
//
// Ownership boundary:
//   - socket lifecycle: stale-file removal, bind, 0600 permissions
//     before listen, unlink on shutdown
//   - connection handling: one request/response exchange per client,
//     one goroutine per connection
//   - dispatch into the signer package and mapping of every handler
//     failure onto the wire error envelope
//
// Wire encoding belongs to the protocol package; key handling and
// signature construction belong to the signer package.
package signerd
