// Package logtrace provides logging and tracing utilities for the application.
// It integrates with zerolog for structured logging and supports request tracing.
package logtrace

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger with Unix millisecond timestamps,
// writing JSON lines to w at the given level. An unknown level falls back
// to info.
func InitLogger(w io.Writer, level string) {
	initLogger(w, level)
}

// InitConsoleLogger initializes the global logger for interactive use,
// writing human readable lines to w.
func InitConsoleLogger(w io.Writer, level string) {
	initLogger(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}, level)
}

func initLogger(w io.Writer, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
