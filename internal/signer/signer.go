// Package signer implements the exchange's L1-action signing scheme:
// msgpack action hashing, the EIP-712 phantom-agent digest, and
// deterministic secp256k1 signatures with a recovery id.
package signer

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Signature is the capability's single concrete result shape: r and s
// as lowercase 0x-prefixed 32-byte hex, v as 27 or 28.
type Signature struct {
	R string
	S string
	V int
}

// Params carries one signing request. ActionJSON is the raw JSON text
// of the action object; its shape is owned by the exchange protocol,
// not by this package.
type Params struct {
	ActionJSON   []byte
	ActivePool   *string
	Nonce        uint64
	ExpiresAfter *uint64
	IsMainnet    bool
}

// Wallet is a signing identity derived from one private key. It lives
// for a single request and is never persisted.
type Wallet struct {
	key *ecdsa.PrivateKey
}

// WalletFromHex builds a wallet from hex key material, accepting an
// optional 0x/0X prefix and any digit case. The decoded key must be
// exactly 32 bytes and a valid secp256k1 scalar.
func WalletFromHex(privateKeyHex string) (*Wallet, error) {
	norm := privateKeyHex
	if strings.HasPrefix(norm, "0x") || strings.HasPrefix(norm, "0X") {
		norm = norm[2:]
	}
	raw, err := hex.DecodeString(norm)
	if err != nil {
		return nil, errors.Wrap(err, "decode private key hex")
	}
	if len(raw) != 32 {
		return nil, errors.Errorf("private key must be 32 bytes, got %d", len(raw))
	}
	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, errors.Wrap(err, "load private key")
	}
	return &Wallet{key: key}, nil
}

// Address returns the wallet's EVM address.
func (w *Wallet) Address() common.Address {
	return crypto.PubkeyToAddress(w.key.PublicKey)
}

// SignL1Action signs one action for the wallet. The signature is
// deterministic: identical params yield identical output.
func (w *Wallet) SignL1Action(p Params) (Signature, error) {
	connectionID, err := actionHash(p.ActionJSON, p.ActivePool, p.Nonce, p.ExpiresAfter)
	if err != nil {
		return Signature{}, errors.Wrap(err, "hash action")
	}
	digest := agentDigest(agentSource(p.IsMainnet), connectionID)

	sig, err := crypto.Sign(digest, w.key)
	if err != nil {
		return Signature{}, errors.Wrap(err, "sign digest")
	}
	return Signature{
		R: "0x" + hex.EncodeToString(sig[:32]),
		S: "0x" + hex.EncodeToString(sig[32:64]),
		V: int(sig[64]) + 27,
	}, nil
}

// SignL1Action is the package-level capability entry point: construct
// the wallet from key material, then sign.
func SignL1Action(privateKeyHex string, p Params) (Signature, error) {
	w, err := WalletFromHex(privateKeyHex)
	if err != nil {
		return Signature{}, errors.Wrap(err, "sign l1 action")
	}
	sig, err := w.SignL1Action(p)
	if err != nil {
		return Signature{}, errors.Wrap(err, "sign l1 action")
	}
	return sig, nil
}
