package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "HLSIGND_LOG_LEVEL"
	EnvLogFormat    = "HLSIGND_LOG_FORMAT"
	EnvLogTimestamp = "HLSIGND_LOG_TIMESTAMP"
	EnvLogNoColor   = "HLSIGND_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config is the resolved logger configuration after profile defaults
// and environment overrides are applied.
type Config struct {
	Level     zerolog.Level
	Format    string
	Timestamp bool
	NoColor   bool
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure installs the process-wide zerolog logger exactly once.
// Later calls are no-ops regardless of profile.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)
		apply(cfg)
	})
}

func defaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{
			Level:     zerolog.DebugLevel,
			Format:    FormatConsole,
			Timestamp: false,
			NoColor:   true,
		}
	default:
		return Config{
			Level:     zerolog.InfoLevel,
			Format:    FormatConsole,
			Timestamp: true,
			NoColor:   false,
		}
	}
}

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if format, ok := parseFormat(os.Getenv(EnvLogFormat)); ok {
		cfg.Format = format
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func apply(cfg Config) {
	zerolog.SetGlobalLevel(cfg.Level)

	var out io.Writer = os.Stderr
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		}
	}

	ctx := zerolog.New(out).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	log.Logger = ctx.Logger()
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseFormat(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return FormatConsole, false
	case "console", "text", "pretty":
		return FormatConsole, true
	case "json", "structured":
		return FormatJSON, true
	default:
		return FormatConsole, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
