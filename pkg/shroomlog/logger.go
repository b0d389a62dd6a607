// Package shroomlog provides the ambient structured logging used across the
// cipher, archive and image packages. It is a thin wrapper over hclog, kept
// deliberately uniform so every package logs the same way.
package shroomlog

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// New creates a named hclog.Logger with this module's standard settings.
func New(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("SHROOM_JSON_LOG") == "1"

	if !jsonFormat {
		output = NewPrefixWriter("["+name+"] ", output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// LevelFromEnv returns the configured log level, defaulting to "warn".
func LevelFromEnv() string {
	level := os.Getenv("SHROOM_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return level
}

// Null returns a logger that discards everything, for callers that do not
// want to thread a logger through.
func Null() hclog.Logger {
	return hclog.NewNullLogger()
}

// OrNull returns l unless it is nil, in which case it returns a null logger.
// Every package in this module accepts an optional logger and calls this on
// construction so internal code never needs a nil check.
func OrNull(l hclog.Logger) hclog.Logger {
	if l == nil {
		return Null()
	}
	return l
}
