// Package logging configures the zerolog logger shared by the command line
// tools.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger for verbosity (0 warn, 1 info, 2 debug,
// 3+ trace) and writes human readable lines to w.
func Setup(verbosity int, w io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(Level(verbosity))

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}
	logger := zerolog.New(console).With().Timestamp().Logger()
	if verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger

	logger.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
	return logger
}

// Level maps a -v count to a zerolog level.
func Level(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Component returns a logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
