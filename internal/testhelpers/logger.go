package testhelpers

import (
	"io"
	"log/slog"

	"github.com/dicsio100-dev/fitnavi/internal/logging"
)

// NewLogger creates a new logger with the given log sink such as testhelpers.Writer.
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.NewLogger(logSink, slog.LevelDebug)
}
