// Package logger configures the global zerolog logger and hands out
// component-scoped sub-loggers.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func New(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

func init() {
	level := zerolog.InfoLevel
	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw))); err == nil {
			level = parsed
		}
	}

	_, debug := os.LookupEnv("DEBUG")
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	_, noColor := os.LookupEnv("NO_COLOR")

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	})
}
