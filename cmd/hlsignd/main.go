package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/hlsignd/internal/observability"
	"github.com/danmuck/hlsignd/internal/signerd"
)

func main() {
	var (
		configPath  string
		socketPath  string
		metricsAddr string
	)
	flag.StringVar(&configPath, "config", "", "path to TOML config file")
	flag.StringVar(&socketPath, "socket", "", "socket path override")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Prometheus listen address override")
	flag.Parse()

	observability.InitLogger("hlsignd")

	cfg := signerd.DefaultConfig()
	if configPath != "" {
		loaded, err := loadServiceConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hlsignd: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if socketPath != "" {
		cfg.SocketPath = socketPath
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}

	svc := signerd.NewServiceWithConfig(cfg)
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "hlsignd: %v\n", err)
		os.Exit(1)
	}
}
