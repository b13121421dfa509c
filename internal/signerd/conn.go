package signerd

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/danmuck/hlsignd/internal/observability"
	"github.com/danmuck/hlsignd/internal/protocol"
	"github.com/danmuck/hlsignd/internal/protocol/frame"
)

// acceptLoop accepts until ctx is cancelled or the listener fails.
// Failures inside a connection stay on that connection; the loop only
// stops for listener-level errors.
func (s *Service) acceptLoop(ctx context.Context, ln net.Listener) error {
	s.logger.Info().Str("socket", s.cfg.SocketPath).Msg("listening")

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handleConn(conn)
	}
}

// handleConn owns one client connection: one frame in, one frame out,
// close. A request that cannot be read completely gets no response;
// any failure after a complete read is reported as an error envelope.
func (s *Service) handleConn(conn net.Conn) {
	defer conn.Close()

	id := s.connSeq.Add(1)
	active := s.openConns.Add(1)
	observability.RecordConnectionOpened()
	s.logger.Debug().Uint64("conn_id", id).Int64("active", active).Msg("client_connected")
	defer func() {
		remaining := s.openConns.Add(-1)
		observability.RecordConnectionClosed()
		s.logger.Debug().Uint64("conn_id", id).Int64("active", remaining).Msg("client_closed")
	}()

	if s.peers != nil {
		if err := s.peers.Validate(conn); err != nil {
			observability.RecordFrameRejected("unauthorized")
			s.logger.Warn().Err(err).Uint64("conn_id", id).Msg("peer_rejected")
			return
		}
	}

	if s.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}

	payload, err := frame.ReadFrame(conn, frame.Limits{MaxFrameBytes: s.cfg.MaxFrameBytes})
	if err != nil {
		switch {
		case errors.Is(err, frame.ErrFrameTooLarge):
			observability.RecordFrameRejected("oversized")
			s.logger.Warn().Err(err).Uint64("conn_id", id).Msg("request_rejected")
			s.respond(conn, id, errorPayload(err))
		case errors.Is(err, frame.ErrPeerClosed):
			observability.RecordFrameRejected("peer_closed")
			s.logger.Debug().Uint64("conn_id", id).Msg("peer_closed_before_request")
		default:
			observability.RecordFrameRejected("read_error")
			s.logger.Warn().Err(err).Uint64("conn_id", id).Msg("request_read_failed")
		}
		return
	}

	start := time.Now()
	sig, err := s.handler.Handle(payload)

	var out []byte
	outcome := "ok"
	if err != nil {
		outcome = "error"
		s.logger.Warn().Err(err).Uint64("conn_id", id).Msg("sign_failed")
		out = errorPayload(err)
	} else {
		out, err = protocol.EncodeSignResponse(sig.R, sig.S, sig.V)
		if err != nil {
			outcome = "error"
			s.logger.Error().Err(err).Uint64("conn_id", id).Msg("response_encode_failed")
			out = errorPayload(err)
		}
	}
	observability.RecordSignRequest(outcome, time.Since(start))

	s.respond(conn, id, out)
}

// respond writes one response frame, logging rather than propagating
// write failures. The caller closes the connection either way.
func (s *Service) respond(conn net.Conn, id uint64, payload []byte) {
	if s.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	if err := frame.WriteFrame(conn, payload, frame.Limits{}); err != nil {
		s.logger.Warn().Err(err).Uint64("conn_id", id).Msg("response_write_failed")
	}
}

// errorPayload encodes err as an error envelope, falling back to a
// literal when encoding itself fails.
func errorPayload(err error) []byte {
	payload, encErr := protocol.EncodeErrorResponse(err)
	if encErr != nil {
		return []byte(`{"error":"unknown failure"}`)
	}
	return payload
}
