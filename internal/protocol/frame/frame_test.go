package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

func TestRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 3, 512, 64 * 1024, 3 * 1024 * 1024}
	limits := Limits{}

	for _, size := range sizes {
		payload := patternBytes(size)
		var buf bytes.Buffer
		if err := WriteFrame(&buf, payload, limits); err != nil {
			t.Fatalf("write %d bytes: %v", size, err)
		}
		if buf.Len() != HeaderLen+size {
			t.Fatalf("wrote %d bytes, want %d", buf.Len(), HeaderLen+size)
		}
		got, err := ReadFrame(&buf, limits)
		if err != nil {
			t.Fatalf("read %d bytes: %v", size, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("round-trip mismatch at size %d", size)
		}
	}
}

func TestRoundTripChunkedTransport(t *testing.T) {
	payload := patternBytes(4096)
	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload, DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadFrame(iotest.OneByteReader(&buf), DefaultLimits())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round-trip mismatch over one-byte reads")
	}
}

func TestWriteFrameExactBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte("abc"), DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x03, 'a', 'b', 'c'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire bytes = %x, want %x", buf.Bytes(), want)
	}
}

func TestReadFrameEmptyStream(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil), DefaultLimits())
	if !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("expected ErrPeerClosed, got %v", err)
	}
}

func TestReadFrameShortHeader(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0x00, 0x01}), DefaultLimits())
	if !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("expected ErrPeerClosed, got %v", err)
	}
}

func TestReadFrameShortPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, patternBytes(10), DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}
	b := buf.Bytes()
	b = b[:len(b)-4]

	_, err := ReadFrame(bytes.NewReader(b), DefaultLimits())
	if !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("expected ErrPeerClosed, got %v", err)
	}
}

func TestReadFrameZeroLength(t *testing.T) {
	got, err := ReadFrame(bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x00}), DefaultLimits())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(got))
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	limits := Limits{MaxFrameBytes: 8}
	head := []byte{0x00, 0x00, 0x00, 0x09}

	_, err := ReadFrame(bytes.NewReader(head), limits)
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	limits := Limits{MaxFrameBytes: 8}
	var buf bytes.Buffer

	err := WriteFrame(&buf, patternBytes(9), limits)
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %d bytes", buf.Len())
	}
}

func TestReadFramePassesThroughIOErrors(t *testing.T) {
	broken := errors.New("wire fault")
	r := io.MultiReader(bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x08, 0xaa}), iotest.ErrReader(broken))

	_, err := ReadFrame(r, DefaultLimits())
	if !errors.Is(err, broken) {
		t.Fatalf("expected underlying error, got %v", err)
	}
}

func patternBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}
