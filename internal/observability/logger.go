package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/hlsignd/internal/logging"
)

// InitLogger configures the process-wide logger and returns a child
// tagged with the application name. Subsequent log output anywhere in
// the process carries the tag.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	logger := log.With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
