package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Format selects how log events are rendered.
type Format int

const (
	// JSON writes one event per line to stdout, as Cloud Logging expects.
	JSON Format = iota
	// Console writes human-readable lines to stderr for the CLI.
	Console
)

// Init configures the global logger. LOG_LEVEL controls the level:
// debug, info, warn, error (default: info).
func Init(format Format) {
	zerolog.SetGlobalLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
	zerolog.TimeFieldFormat = time.RFC3339Nano
	// Cloud Logging reads "severity", not "level".
	zerolog.LevelFieldName = "severity"

	var out io.Writer = os.Stdout
	if format == Console {
		zerolog.LevelFieldName = "level"
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
