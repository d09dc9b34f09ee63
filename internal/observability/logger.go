package observability

import (
	"github.com/danmuck/blackjack/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger applies the runtime logging profile and tags every line with
// app. Call once from main.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	log.Logger = log.Logger.With().Str("app", app).Logger()
	return log.Logger
}
