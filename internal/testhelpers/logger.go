package testhelpers

import (
	"io"
	"log/slog"

	"github.com/myrjola/fitcycle/internal/logging"
)

// NewLogger creates a debug level logger writing to logSink, usually a testhelpers.Writer.
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.New(logSink, slog.LevelDebug)
}
