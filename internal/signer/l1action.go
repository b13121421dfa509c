package signer

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// actionHash computes the exchange "connection id" for one action:
// msgpack(action) ‖ nonce as 8 bytes big-endian ‖ vault marker
// (0x00 absent, 0x01 + 20 address bytes present) ‖ optional expiry
// (0x00 + 8 bytes big-endian), hashed with keccak256.
func actionHash(actionJSON []byte, activePool *string, nonce uint64, expiresAfter *uint64) ([]byte, error) {
	var data bytes.Buffer
	if err := packActionJSON(&data, actionJSON); err != nil {
		return nil, err
	}

	var nb [8]byte
	binary.BigEndian.PutUint64(nb[:], nonce)
	data.Write(nb[:])

	if activePool == nil {
		data.WriteByte(0x00)
	} else {
		addr, err := addressBytes(*activePool)
		if err != nil {
			return nil, err
		}
		data.WriteByte(0x01)
		data.Write(addr)
	}

	if expiresAfter != nil {
		data.WriteByte(0x00)
		var eb [8]byte
		binary.BigEndian.PutUint64(eb[:], *expiresAfter)
		data.Write(eb[:])
	}

	return keccak256(data.Bytes()), nil
}

func addressBytes(address string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(address, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "decode active pool address")
	}
	if len(raw) != 20 {
		return nil, errors.Errorf("active pool address must be 20 bytes, got %d", len(raw))
	}
	return raw, nil
}

// packActionJSON transcodes one JSON value to msgpack. The exchange's
// canonical encoding is the msgpack of the action exactly as ordered
// in its JSON text, so object member order is preserved, integers take
// the most compact unsigned/signed form, and every other number
// becomes a float64.
func packActionJSON(w io.Writer, actionJSON []byte) error {
	dec := json.NewDecoder(bytes.NewReader(actionJSON))
	dec.UseNumber()

	val, err := parseOrdered(dec)
	if err != nil {
		return errors.Wrap(err, "parse action json")
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("parse action json: trailing data after action value")
	}

	enc := msgpack.NewEncoder(w)
	if err := packOrdered(enc, val); err != nil {
		return errors.Wrap(err, "encode action")
	}
	return nil
}

// member is one object entry in source order.
type member struct {
	key string
	val any
}

// parseOrdered reads a single JSON value, keeping object members in
// the order they appear. Objects become []member, arrays []any,
// numbers json.Number.
func parseOrdered(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("empty input")
		}
		return nil, err
	}
	return parseTokenValue(dec, tok)
}

func parseTokenValue(dec *json.Decoder, tok json.Token) (any, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool, or nil
		return tok, nil
	}

	switch delim {
	case '{':
		var obj []member
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, errors.Errorf("object key is %T, not string", keyTok)
			}
			val, err := parseOrdered(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, member{key: key, val: val})
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return obj, nil
	case '[':
		var arr []any
		for dec.More() {
			val, err := parseOrdered(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return arr, nil
	default:
		return nil, errors.Errorf("unexpected delimiter %q", delim.String())
	}
}

func packOrdered(enc *msgpack.Encoder, val any) error {
	switch v := val.(type) {
	case []member:
		if err := enc.EncodeMapLen(len(v)); err != nil {
			return err
		}
		for _, m := range v {
			if err := enc.EncodeString(m.key); err != nil {
				return err
			}
			if err := packOrdered(enc, m.val); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if err := enc.EncodeArrayLen(len(v)); err != nil {
			return err
		}
		for _, elem := range v {
			if err := packOrdered(enc, elem); err != nil {
				return err
			}
		}
		return nil
	case string:
		return enc.EncodeString(v)
	case json.Number:
		return packNumber(enc, v)
	case bool:
		return enc.EncodeBool(v)
	case nil:
		return enc.EncodeNil()
	default:
		return errors.Errorf("unsupported JSON value %T", val)
	}
}

func packNumber(enc *msgpack.Encoder, n json.Number) error {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return enc.EncodeUint(u)
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return enc.EncodeInt(i)
		}
		return errors.Errorf("integer out of range: %s", s)
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	return enc.EncodeFloat64(f)
}
