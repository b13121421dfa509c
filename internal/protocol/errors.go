package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrMissingPrivateKey = errors.New("protocol: missing private_key")
	ErrMissingActionJSON = errors.New("protocol: missing action_json")
	ErrMissingNonce      = errors.New("protocol: missing nonce")
	ErrMalformedResponse = errors.New("protocol: malformed response")
)

// RemoteError is a failure reported by the daemon inside an error
// envelope, as opposed to a transport or decoding failure on the
// caller's side.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("protocol: remote error: %s", e.Message)
}
