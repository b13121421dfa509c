package signerd

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/hlsignd/internal/protocol"
	"github.com/danmuck/hlsignd/internal/signer"
	"github.com/danmuck/hlsignd/internal/testutil/testlog"
)

func TestHandlerMapsRequestFieldsOntoSignerParams(t *testing.T) {
	testlog.Start(t)

	var gotKey string
	var gotParams signer.Params
	h := NewHandlerWithSignFunc(func(key string, p signer.Params) (signer.Signature, error) {
		gotKey = key
		gotParams = p
		return signer.Signature{R: "0xaa", S: "0xbb", V: 27}, nil
	})

	payload := []byte(`{
		"private_key": "0x11",
		"action_json": "{\"type\":\"order\"}",
		"active_pool": "0x00112233445566778899aabbccddeeff00112233",
		"nonce": 42,
		"expires_after": 99,
		"is_mainnet": false
	}`)

	sig, err := h.Handle(payload)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if sig.R != "0xaa" || sig.S != "0xbb" || sig.V != 27 {
		t.Fatalf("unexpected signature: %+v", sig)
	}
	if gotKey != "0x11" {
		t.Fatalf("private key = %q", gotKey)
	}
	if string(gotParams.ActionJSON) != `{"type":"order"}` {
		t.Fatalf("action json = %q", gotParams.ActionJSON)
	}
	if gotParams.ActivePool == nil || *gotParams.ActivePool != "0x00112233445566778899aabbccddeeff00112233" {
		t.Fatalf("active pool = %v", gotParams.ActivePool)
	}
	if gotParams.Nonce != 42 {
		t.Fatalf("nonce = %d", gotParams.Nonce)
	}
	if gotParams.ExpiresAfter == nil || *gotParams.ExpiresAfter != 99 {
		t.Fatalf("expires after = %v", gotParams.ExpiresAfter)
	}
	if gotParams.IsMainnet {
		t.Fatal("is_mainnet = true, want false")
	}
}

func TestHandlerDefaultsToMainnet(t *testing.T) {
	testlog.Start(t)

	var gotParams signer.Params
	h := NewHandlerWithSignFunc(func(_ string, p signer.Params) (signer.Signature, error) {
		gotParams = p
		return signer.Signature{}, nil
	})

	if _, err := h.Handle([]byte(`{"private_key":"0x11","action_json":"{}","nonce":1}`)); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !gotParams.IsMainnet {
		t.Fatal("is_mainnet defaulted to false, want true")
	}
	if gotParams.ActivePool != nil || gotParams.ExpiresAfter != nil {
		t.Fatalf("optional params not nil: %+v", gotParams)
	}
}

func TestHandlerRejectsMalformedRequests(t *testing.T) {
	testlog.Start(t)

	called := false
	h := NewHandlerWithSignFunc(func(string, signer.Params) (signer.Signature, error) {
		called = true
		return signer.Signature{}, nil
	})

	cases := []struct {
		name    string
		payload []byte
		want    error
	}{
		{"empty payload", []byte(``), nil},
		{"not json", []byte(`frame`), nil},
		{"missing key", []byte(`{"action_json":"{}","nonce":1}`), protocol.ErrMissingPrivateKey},
		{"missing action", []byte(`{"private_key":"0x11","nonce":1}`), protocol.ErrMissingActionJSON},
		{"missing nonce", []byte(`{"private_key":"0x11","action_json":"{}"}`), protocol.ErrMissingNonce},
	}
	for _, tc := range cases {
		_, err := h.Handle(tc.payload)
		if err == nil {
			t.Fatalf("%s: Handle succeeded", tc.name)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	if called {
		t.Fatal("sign func was called for a malformed request")
	}
}

func TestHandlerPropagatesSignErrors(t *testing.T) {
	testlog.Start(t)

	wantErr := errors.New("scalar out of range")
	h := NewHandlerWithSignFunc(func(string, signer.Params) (signer.Signature, error) {
		return signer.Signature{}, wantErr
	})

	_, err := h.Handle([]byte(`{"private_key":"0x11","action_json":"{}","nonce":1}`))
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestNewHandlerSignsWithRealSigner(t *testing.T) {
	testlog.Start(t)

	key := strings.Repeat("11", 32)
	payload := []byte(`{"private_key":"` + key + `","action_json":"{\"type\":\"order\"}","nonce":7}`)

	sig, err := NewHandler().Handle(payload)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(sig.R) != 66 || len(sig.S) != 66 {
		t.Fatalf("r/s lengths = %d/%d, want 66/66", len(sig.R), len(sig.S))
	}
	if sig.V != 27 && sig.V != 28 {
		t.Fatalf("v = %d, want 27 or 28", sig.V)
	}
}
