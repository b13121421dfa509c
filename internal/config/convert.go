package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/hlsignd/internal/client"
)

// DialSettings maps a ClientConfig onto the dialer settings. The
// timeout covers both the dial and the request/response exchange;
// "0" disables it, an empty string keeps the default.
func DialSettings(cfg ClientConfig) (client.Config, error) {
	out := client.DefaultConfig()
	out.SocketPath = cfg.SocketPath

	raw := strings.TrimSpace(cfg.Timeout)
	switch raw {
	case "":
	case "0":
		out.DialTimeout = 0
		out.IOTimeout = 0
	default:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return client.Config{}, fmt.Errorf("timeout invalid: %w", err)
		}
		out.DialTimeout = d
		out.IOTimeout = d
	}
	return out, nil
}
