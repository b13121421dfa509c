package protocol

import (
	"encoding/json"
	"strings"
)

// EncodeSignRequest serializes req for the wire. Optional fields are
// omitted when nil; is_mainnet is always explicit.
func EncodeSignRequest(req SignRequest) ([]byte, error) {
	return json.Marshal(signRequestWire{
		PrivateKey:   &req.PrivateKey,
		ActionJSON:   &req.ActionJSON,
		ActivePool:   req.ActivePool,
		Nonce:        &req.Nonce,
		ExpiresAfter: req.ExpiresAfter,
		IsMainnet:    &req.IsMainnet,
	})
}

// EncodeSignResponse serializes one success envelope, normalizing r
// and s to lowercase 0x-prefixed hex no matter how the signing
// capability spelled them, and keeping v a bare integer.
func EncodeSignResponse(r, s string, v int) ([]byte, error) {
	return json.Marshal(SignResponse{
		R: NormalizeHexQuantity(r),
		S: NormalizeHexQuantity(s),
		V: v,
	})
}

// EncodeErrorResponse serializes one failure envelope carrying the
// full error chain. The error string is never empty.
func EncodeErrorResponse(err error) ([]byte, error) {
	msg := "unknown failure"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return json.Marshal(ErrorResponse{Error: msg})
}

// NormalizeHexQuantity lowercases s and guarantees a single 0x prefix.
func NormalizeHexQuantity(s string) string {
	s = strings.ToLower(s)
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return s
}
