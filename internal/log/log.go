package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var defaultLogger zerolog.Logger

func init() {
	Configure("info", nil)
}

// Configure sets up the logger with the given level and writer.
// Call this early in main() and again once the flags have been parsed.
func Configure(level string, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC822}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func Debug(msg string, keysAndValues ...any) {
	emit(defaultLogger.Debug(), msg, keysAndValues)
}

func Info(msg string, keysAndValues ...any) {
	emit(defaultLogger.Info(), msg, keysAndValues)
}

func Warn(msg string, keysAndValues ...any) {
	emit(defaultLogger.Warn(), msg, keysAndValues)
}

func emit(e *zerolog.Event, msg string, keysAndValues []any) {
	if e == nil {
		return
	}

	if len(keysAndValues) > 0 {
		e = e.Fields(keysAndValues)
	}
	e.Msg(msg)
}
