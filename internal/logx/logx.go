// Package logx wires up the zerolog logger used across the analysis core.
// No component reaches for a global logger (spec §5: "no ambient/singleton
// access"): the Analyser is handed a zerolog.Logger explicitly, the way
// toonknapen's network.Client carries one as a field, and the Track Store
// builds its own instance with New(nil) when it is opened.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON to w, or human-readable console output
// to os.Stderr whenever w is nil; it does not check whether stderr is a
// terminal.
func New(w io.Writer) zerolog.Logger {
	if w != nil {
		return zerolog.New(w).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// Printf is a package-level leveled-printf hook in the shape of
// banshee's internal/monitoring.Logf. No package in this module calls it;
// the debug CSV dump (analyser.DumpNormalisedLap) does no logging.
var Printf func(format string, v ...interface{})

func init() {
	l := New(os.Stderr)
	Printf = func(format string, v ...interface{}) {
		l.Info().Msgf(format, v...)
	}
}

// SetPrintf replaces the package printf hook. Passing nil installs a no-op.
func SetPrintf(f func(format string, v ...interface{})) {
	if f == nil {
		Printf = func(string, ...interface{}) {}
		return
	}
	Printf = f
}
