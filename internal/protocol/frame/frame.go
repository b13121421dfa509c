package frame

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// HeaderLen is the size of the big-endian length prefix that precedes
// every payload, in both directions.
const HeaderLen = 4

var (
	ErrPeerClosed    = errors.New("frame: peer closed")
	ErrFrameTooLarge = errors.New("frame: frame too large")
)

// Limits constrains frame decode/encode memory use.
type Limits struct {
	// MaxFrameBytes caps the payload size in either direction.
	// Zero disables the ceiling.
	MaxFrameBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxFrameBytes: 1 * 1024 * 1024,
	}
}

// ReadFrame reads one length-prefixed payload from r, blocking until
// the full prefix and the full payload have arrived. A stream that
// ends before then fails with ErrPeerClosed; a short payload is never
// returned. A declared length above the limit fails with
// ErrFrameTooLarge before any payload byte is consumed.
func ReadFrame(r io.Reader, limits Limits) ([]byte, error) {
	var head [HeaderLen]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrPeerClosed
		}
		return nil, err
	}

	n := binary.BigEndian.Uint32(head[:])
	if limits.MaxFrameBytes > 0 && n > limits.MaxFrameBytes {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrPeerClosed
			}
			return nil, err
		}
	}
	return payload, nil
}

// WriteFrame writes the 4-byte big-endian length of payload followed
// by payload itself. Short underlying writes surface the writer's
// error; nothing is written for an oversized payload.
func WriteFrame(w io.Writer, payload []byte, limits Limits) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return ErrFrameTooLarge
	}
	if limits.MaxFrameBytes > 0 && uint32(len(payload)) > limits.MaxFrameBytes {
		return ErrFrameTooLarge
	}

	var head [HeaderLen]byte
	binary.BigEndian.PutUint32(head[:], uint32(len(payload)))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}
