package signerd

import (
	"github.com/danmuck/hlsignd/internal/protocol"
	"github.com/danmuck/hlsignd/internal/signer"
)

// SignFunc produces one signature for a parsed request. The daemon
// installs signer.SignL1Action; tests substitute their own.
type SignFunc func(privateKeyHex string, p signer.Params) (signer.Signature, error)

// Handler turns one raw request payload into one signature.
type Handler struct {
	sign SignFunc
}

func NewHandler() *Handler {
	return NewHandlerWithSignFunc(signer.SignL1Action)
}

func NewHandlerWithSignFunc(fn SignFunc) *Handler {
	return &Handler{sign: fn}
}

// Handle parses payload and signs the action it describes. An error
// return belongs to this request only; the caller reports it to the
// client and moves on.
func (h *Handler) Handle(payload []byte) (signer.Signature, error) {
	req, err := protocol.ParseSignRequest(payload)
	if err != nil {
		return signer.Signature{}, err
	}
	return h.sign(req.PrivateKey, signer.Params{
		ActionJSON:   []byte(req.ActionJSON),
		ActivePool:   req.ActivePool,
		Nonce:        req.Nonce,
		ExpiresAfter: req.ExpiresAfter,
		IsMainnet:    req.IsMainnet,
	})
}
