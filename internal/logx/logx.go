// Package logx builds the console logger shared by the CLI.
package logx

import (
	"io"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05"

// New returns a console logger writing to w at info level, or debug level
// when verbose is set.
func New(w io.Writer, verbose bool) zerolog.Logger {
	zerolog.ErrorFieldName = "err"

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
