package protocol

// DefaultSocketPath is the rendezvous point: where the daemon listens
// and where unconfigured clients dial.
const DefaultSocketPath = "/dev/shm/hl_sign.sock"

// SignRequest is the single request shape the daemon accepts.
//
// ActionJSON is itself JSON text (the request carries it as a
// JSON-encoded string): it is parsed a second time downstream to
// obtain the action object. ActivePool and ExpiresAfter are absent
// when nil; IsMainnet defaults to true during parsing.
type SignRequest struct {
	PrivateKey   string
	ActionJSON   string
	ActivePool   *string
	Nonce        uint64
	ExpiresAfter *uint64
	IsMainnet    bool
}

// SignResponse is the success envelope: r and s as lowercase
// 0x-prefixed 32-byte hex, v as a bare integer.
type SignResponse struct {
	R string `json:"r"`
	S string `json:"s"`
	V int    `json:"v"`
}

// ErrorResponse is the failure envelope. Callers distinguish the two
// response shapes by the presence of the error key alone.
type ErrorResponse struct {
	Error string `json:"error"`
}
