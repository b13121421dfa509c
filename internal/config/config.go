package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/hlsignd/internal/protocol"
)

// DaemonConfig is the on-disk shape of an hlsignd config file.
// Duration keys are Go duration strings; "0" disables a deadline and
// an empty string keeps the runtime default.
type DaemonConfig struct {
	SocketPath        string `toml:"socket_path"`
	MaxFrameBytes     int64  `toml:"max_frame_bytes"`
	ReadTimeout       string `toml:"read_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	MetricsAddr       string `toml:"metrics_addr"`
	HeartbeatInterval string `toml:"heartbeat_interval"`
	RequireSameUser   bool   `toml:"require_same_user"`
}

// ClientConfig is the on-disk shape of an hlsignctl config file.
type ClientConfig struct {
	SocketPath string `toml:"socket_path"`
	Timeout    string `toml:"timeout"`
	Testnet    bool   `toml:"testnet"`
}

func LoadDaemonConfig(path string) (DaemonConfig, error) {
	var cfg DaemonConfig
	if err := loadToml(path, &cfg); err != nil {
		return DaemonConfig{}, err
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = protocol.DefaultSocketPath
	}
	if err := ValidateDaemonConfig(cfg); err != nil {
		return DaemonConfig{}, err
	}
	return cfg, nil
}

func LoadClientConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig
	if err := loadToml(path, &cfg); err != nil {
		return ClientConfig{}, err
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = protocol.DefaultSocketPath
	}
	if err := ValidateClientConfig(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateDaemonConfig(cfg DaemonConfig) error {
	if strings.TrimSpace(cfg.SocketPath) == "" {
		return fmt.Errorf("daemon config missing socket_path")
	}
	if cfg.MaxFrameBytes < 0 || cfg.MaxFrameBytes > math.MaxUint32 {
		return fmt.Errorf("max_frame_bytes %d out of range", cfg.MaxFrameBytes)
	}
	if err := validateDuration("read_timeout", cfg.ReadTimeout); err != nil {
		return err
	}
	if err := validateDuration("write_timeout", cfg.WriteTimeout); err != nil {
		return err
	}
	return validateDuration("heartbeat_interval", cfg.HeartbeatInterval)
}

func ValidateClientConfig(cfg ClientConfig) error {
	if strings.TrimSpace(cfg.SocketPath) == "" {
		return fmt.Errorf("client config missing socket_path")
	}
	return validateDuration("timeout", cfg.Timeout)
}

func validateDuration(key, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s invalid: %w", key, err)
	}
	if d < 0 {
		return fmt.Errorf("%s is negative", key)
	}
	return nil
}
