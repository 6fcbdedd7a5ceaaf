// Package logging builds the process logger. Services receive a
// zerolog.Logger and tag it with their component name.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Level  string // zerolog level name; empty means info
	Pretty bool   // human-readable console output instead of JSON
	Output io.Writer
}

func New(o Options) zerolog.Logger {
	w := o.Output
	if w == nil {
		w = os.Stderr
	}
	if o.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	lvl := zerolog.InfoLevel
	if o.Level != "" {
		if parsed, err := zerolog.ParseLevel(o.Level); err == nil {
			lvl = parsed
		}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Component returns l tagged with component=name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
