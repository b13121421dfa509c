package signerd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/hlsignd/internal/auth"
	"github.com/danmuck/hlsignd/internal/observability"
	"github.com/danmuck/hlsignd/internal/protocol"
	"github.com/danmuck/hlsignd/internal/protocol/frame"
)

var ErrInvalidSocketPath = errors.New("signerd: invalid socket path")

const (
	defaultIOTimeout         = 10 * time.Second
	defaultHeartbeatInterval = 30 * time.Second
)

// Config carries the daemon runtime settings.
//
// Zero values are meaningful for the limits: MaxFrameBytes == 0
// disables the frame-size ceiling and a zero timeout disables that
// deadline. Callers that build a Config by hand own every field;
// DefaultConfig is the supported baseline.
type Config struct {
	// SocketPath is the Unix domain socket the daemon binds.
	SocketPath string

	// MaxFrameBytes rejects request frames whose declared length
	// exceeds it. Zero disables the ceiling.
	MaxFrameBytes uint32

	// ReadTimeout and WriteTimeout bound each connection's single
	// request read and single response write. Zero disables.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MetricsAddr exposes the Prometheus endpoint when non-empty.
	MetricsAddr string

	// HeartbeatInterval paces the liveness log line.
	HeartbeatInterval time.Duration

	// RequireSameUser drops connections whose peer uid differs from
	// the daemon's. The 0600 socket mode already keeps other users
	// out; this additionally refuses root, so it stays opt-in.
	RequireSameUser bool
}

func DefaultConfig() Config {
	return Config{
		SocketPath:        protocol.DefaultSocketPath,
		MaxFrameBytes:     frame.DefaultLimits().MaxFrameBytes,
		ReadTimeout:       defaultIOTimeout,
		WriteTimeout:      defaultIOTimeout,
		MetricsAddr:       "",
		HeartbeatInterval: defaultHeartbeatInterval,
	}
}

// Service is the signing daemon: one Unix socket listener, one
// goroutine per client connection, one request/response per client.
type Service struct {
	cfg     Config
	handler *Handler
	peers   auth.Validator
	logger  zerolog.Logger

	connSeq   atomic.Uint64
	openConns atomic.Int64
}

func NewService() *Service {
	return NewServiceWithConfig(DefaultConfig())
}

func NewServiceWithConfig(cfg Config) *Service {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	s := &Service{
		cfg:     cfg,
		handler: NewHandler(),
		logger:  log.With().Str("component", "signerd").Logger(),
	}
	if cfg.RequireSameUser {
		s.peers = auth.SameUser{UID: uint32(os.Getuid())}
	}
	return s
}

// Run blocks until SIGINT/SIGTERM or a fatal serve error.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx)
}

// Serve validates the configuration, binds the socket, and serves
// connections until ctx is cancelled. The socket file is removed on
// every return path.
func (s *Service) Serve(ctx context.Context) error {
	if err := s.bootstrap(); err != nil {
		return err
	}
	return s.serve(ctx)
}

func (s *Service) bootstrap() error {
	if strings.TrimSpace(s.cfg.SocketPath) == "" {
		return fmt.Errorf("%w: %q", ErrInvalidSocketPath, s.cfg.SocketPath)
	}
	s.logger.Info().
		Str("socket", s.cfg.SocketPath).
		Uint32("max_frame_bytes", s.cfg.MaxFrameBytes).
		Dur("read_timeout", s.cfg.ReadTimeout).
		Dur("write_timeout", s.cfg.WriteTimeout).
		Str("metrics_addr", s.cfg.MetricsAddr).
		Bool("require_same_user", s.cfg.RequireSameUser).
		Msg("bootstrap")
	return nil
}

func (s *Service) serve(ctx context.Context) error {
	ln, err := listenUnix(s.cfg.SocketPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = ln.Close()
		if err := removeSocket(s.cfg.SocketPath); err != nil {
			s.logger.Warn().Err(err).Str("socket", s.cfg.SocketPath).Msg("socket_unlink_failed")
		}
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(ctx, ln)
	}()

	metricsErr := make(chan error, 1)
	if s.cfg.MetricsAddr != "" {
		go func() {
			metricsErr <- observability.ServeMetrics(ctx, s.cfg.MetricsAddr)
		}()
	}

	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("shutdown")
			return nil
		case err := <-acceptErr:
			if err != nil {
				return fmt.Errorf("signerd: accept loop: %w", err)
			}
			return nil
		case err := <-metricsErr:
			if err != nil {
				return fmt.Errorf("signerd: metrics endpoint: %w", err)
			}
		case <-ticker.C:
			s.logger.Info().
				Int64("open_connections", s.openConns.Load()).
				Uint64("connections_total", s.connSeq.Load()).
				Msg("heartbeat")
		}
	}
}
