// Package client dials a running signing daemon over its Unix domain
// socket and performs the one-shot request/response exchange.
package client

import (
	"context"
	"net"
	"time"

	"github.com/danmuck/hlsignd/internal/protocol"
	"github.com/danmuck/hlsignd/internal/protocol/frame"
)

// Config carries dial and exchange settings for one Client.
type Config struct {
	// SocketPath is the daemon's Unix domain socket.
	SocketPath string

	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration

	// IOTimeout bounds the request write and the response read, each
	// separately. Zero disables.
	IOTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		SocketPath:  protocol.DefaultSocketPath,
		DialTimeout: 5 * time.Second,
		IOTimeout:   5 * time.Second,
	}
}

// Client signs L1 actions through a running daemon. Each call dials a
// fresh connection, matching the daemon's one-exchange-per-connection
// contract.
type Client struct {
	cfg Config
}

func New() *Client {
	return NewWithConfig(DefaultConfig())
}

func NewWithConfig(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Sign performs one signing exchange. A failure reported by the daemon
// inside an error envelope comes back as *protocol.RemoteError; every
// other error is local transport or decoding.
func (c *Client) Sign(ctx context.Context, req protocol.SignRequest) (protocol.SignResponse, error) {
	payload, err := protocol.EncodeSignRequest(req)
	if err != nil {
		return protocol.SignResponse{}, err
	}

	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.cfg.SocketPath)
	if err != nil {
		return protocol.SignResponse{}, err
	}
	defer conn.Close()

	if c.cfg.IOTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.IOTimeout))
	}
	if err := frame.WriteFrame(conn, payload, frame.Limits{}); err != nil {
		return protocol.SignResponse{}, err
	}

	if c.cfg.IOTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(c.cfg.IOTimeout))
	}
	raw, err := frame.ReadFrame(conn, frame.Limits{})
	if err != nil {
		return protocol.SignResponse{}, err
	}
	return protocol.DecodeResponse(raw)
}
