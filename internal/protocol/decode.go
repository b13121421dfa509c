package protocol

import (
	"encoding/json"
	"fmt"
)

// signRequestWire is the JSON shape on the socket. Pointer fields
// distinguish absent from zero so required-field checks match the
// request as sent.
type signRequestWire struct {
	PrivateKey   *string `json:"private_key,omitempty"`
	ActionJSON   *string `json:"action_json,omitempty"`
	ActivePool   *string `json:"active_pool,omitempty"`
	Nonce        *uint64 `json:"nonce,omitempty"`
	ExpiresAfter *uint64 `json:"expires_after,omitempty"`
	IsMainnet    *bool   `json:"is_mainnet,omitempty"`
}

type responseWire struct {
	R     *string `json:"r,omitempty"`
	S     *string `json:"s,omitempty"`
	V     *int    `json:"v,omitempty"`
	Error *string `json:"error,omitempty"`
}

// ParseSignRequest decodes one request payload and enforces field
// presence. is_mainnet defaults to true when absent; a null
// active_pool or expires_after is the same as an absent one. Key and
// action content are validated downstream by the signing capability,
// not here.
func ParseSignRequest(payload []byte) (SignRequest, error) {
	var w signRequestWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return SignRequest{}, fmt.Errorf("protocol: decode request: %w", err)
	}
	if w.PrivateKey == nil {
		return SignRequest{}, ErrMissingPrivateKey
	}
	if w.ActionJSON == nil {
		return SignRequest{}, ErrMissingActionJSON
	}
	if w.Nonce == nil {
		return SignRequest{}, ErrMissingNonce
	}

	req := SignRequest{
		PrivateKey:   *w.PrivateKey,
		ActionJSON:   *w.ActionJSON,
		ActivePool:   w.ActivePool,
		Nonce:        *w.Nonce,
		ExpiresAfter: w.ExpiresAfter,
		IsMainnet:    true,
	}
	if w.IsMainnet != nil {
		req.IsMainnet = *w.IsMainnet
	}
	return req, nil
}

// DecodeResponse interprets one response payload, honoring the error
// key before the signature keys. A daemon-reported failure surfaces as
// *RemoteError.
func DecodeResponse(payload []byte) (SignResponse, error) {
	var w responseWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return SignResponse{}, fmt.Errorf("protocol: decode response: %w", err)
	}
	if w.Error != nil {
		return SignResponse{}, &RemoteError{Message: *w.Error}
	}
	if w.R == nil || w.S == nil || w.V == nil {
		return SignResponse{}, ErrMalformedResponse
	}
	return SignResponse{R: *w.R, S: *w.S, V: *w.V}, nil
}
