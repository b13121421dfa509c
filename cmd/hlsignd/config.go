package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/hlsignd/internal/signerd"
)

type fileConfig struct {
	SocketPath        string `toml:"socket_path"`
	MaxFrameBytes     int64  `toml:"max_frame_bytes"`
	ReadTimeout       string `toml:"read_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	MetricsAddr       string `toml:"metrics_addr"`
	HeartbeatInterval string `toml:"heartbeat_interval"`
	RequireSameUser   bool   `toml:"require_same_user"`
}

// loadServiceConfig overlays the TOML file at path onto the daemon
// defaults. Only keys present in the file override; an explicit zero
// still counts as present, which is how a file disables a limit.
func loadServiceConfig(path string) (signerd.Config, error) {
	cfg := signerd.DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return signerd.Config{}, fmt.Errorf("load daemon config: %w", err)
	}

	if meta.IsDefined("socket_path") {
		p := strings.TrimSpace(raw.SocketPath)
		if p != "" {
			cfg.SocketPath = p
		}
	}

	if meta.IsDefined("max_frame_bytes") {
		if raw.MaxFrameBytes < 0 || raw.MaxFrameBytes > math.MaxUint32 {
			return signerd.Config{}, fmt.Errorf("max_frame_bytes %d out of range", raw.MaxFrameBytes)
		}
		cfg.MaxFrameBytes = uint32(raw.MaxFrameBytes)
	}

	if meta.IsDefined("read_timeout") {
		d, err := parseTimeout(raw.ReadTimeout)
		if err != nil {
			return signerd.Config{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}

	if meta.IsDefined("write_timeout") {
		d, err := parseTimeout(raw.WriteTimeout)
		if err != nil {
			return signerd.Config{}, fmt.Errorf("parse write_timeout: %w", err)
		}
		cfg.WriteTimeout = d
	}

	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	if meta.IsDefined("heartbeat_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HeartbeatInterval))
		if err != nil {
			return signerd.Config{}, fmt.Errorf("parse heartbeat_interval: %w", err)
		}
		cfg.HeartbeatInterval = d
	}

	if meta.IsDefined("require_same_user") {
		cfg.RequireSameUser = raw.RequireSameUser
	}

	return cfg, nil
}

// parseTimeout accepts a Go duration string, with "0" meaning the
// deadline is disabled.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout %q is negative", raw)
	}
	return d, nil
}
