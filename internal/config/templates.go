package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "daemon":
		return daemonTemplate, nil
	case "client":
		return clientTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

// WriteTemplate writes the starter config for kind to path, mode
// 0600. The key material these files sit next to makes a permissive
// mode a footgun, so the mode is not configurable.
func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const daemonTemplate = `socket_path = "/dev/shm/hl_sign.sock"
max_frame_bytes = 1048576
read_timeout = "10s"
write_timeout = "10s"
metrics_addr = ""
heartbeat_interval = "30s"
require_same_user = false
`

const clientTemplate = `socket_path = "/dev/shm/hl_sign.sock"
timeout = "5s"
testnet = false
`
